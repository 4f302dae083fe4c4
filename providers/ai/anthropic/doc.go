// Package anthropic implements [ai.Provider] for Anthropic's Messages API.
//
// [New] reads ANTHROPIC_API_KEY and ANTHROPIC_API_BASE_URL. Anthropic has no
// JSON mode, so a response format on the request is ignored and the resolve
// loop relies on prompting and extraction alone.
package anthropic
