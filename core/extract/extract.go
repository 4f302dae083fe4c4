package extract

import (
	"regexp"
	"strings"
	"sync"
)

const fence = "```"

var (
	// anyFenceRegex matches the first fenced block regardless of its tag. A
	// single-word language tag directly followed by a newline is consumed so
	// that it does not leak into the interior.
	anyFenceRegex = regexp.MustCompile("```(?:[0-9A-Za-z_+.#-]*[ \\t]*\\n)?([\\s\\S]*?)```")

	taggedMu    sync.RWMutex
	taggedCache = map[string]*regexp.Regexp{}
)

// JSON returns the most likely JSON payload contained in text.
//
// The lookup order is:
//  1. the interior of the first fenced block tagged "json" (case-insensitive)
//  2. the interior of the first fenced block of any kind
//  3. the whole text
//
// The result is always trimmed of surrounding whitespace. Running JSON on its
// own output yields the same output again.
//
// Example:
//
//	extract.JSON("Sure!\n```json\n{\"a\":1}\n```")  // {"a":1}
func JSON(text string) string {
	return Tagged(text, "json")
}

// Tagged is the generalised form of [JSON]: it prefers the first fenced block
// whose info string is exactly tag, then falls back to the first fenced block
// of any kind, then to the whole text.
func Tagged(text, tag string) string {
	if !strings.Contains(text, fence) {
		return strings.TrimSpace(text)
	}

	if tag != "" {
		if match := taggedRegex(tag).FindStringSubmatch(text); len(match) > 1 {
			return strings.TrimSpace(match[1])
		}
	}

	if match := anyFenceRegex.FindStringSubmatch(text); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}

	return strings.TrimSpace(text)
}

// taggedRegex compiles (once per tag) the pattern for a fence opened with the
// given tag. The tag must not be followed by another word character, so a
// "json" lookup does not match "jsonc" or "json5".
func taggedRegex(tag string) *regexp.Regexp {
	key := strings.ToLower(tag)

	taggedMu.RLock()
	re, ok := taggedCache[key]
	taggedMu.RUnlock()
	if ok {
		return re
	}

	taggedMu.Lock()
	defer taggedMu.Unlock()

	if re, ok := taggedCache[key]; ok {
		return re
	}

	re = regexp.MustCompile("(?i)```" + regexp.QuoteMeta(key) + "((?:[^0-9A-Za-z_`][\\s\\S]*?)?)```")
	taggedCache[key] = re
	return re
}
