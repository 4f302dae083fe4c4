// Package parse turns extracted LLM payload text into a generic JSON tree.
//
// [Tree] is the strict structural parser used by the resolve loop: it either
// produces a tree or a [SyntaxError] whose message is precise enough to be fed
// back to the model verbatim. [Repair] and [Lenient] add an opt-in recovery
// layer (automatic JSON repair and schema-envelope unwrapping) for callers
// that prefer fixing near-misses locally over spending another completion.
package parse
