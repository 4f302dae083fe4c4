// Package extract isolates a candidate structured payload from raw LLM text.
// Models frequently wrap their JSON in markdown code fences or surround it
// with narrative prose; [JSON] peels the first fenced block off the response
// (preferring one explicitly tagged as json) so the parser only ever sees the
// payload itself.
//
// Extraction never fails. When nothing recognisable is found the trimmed
// input is returned unchanged and the parser downstream decides.
package extract
