package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// SyntaxError describes why a candidate payload is not well-formed JSON.
// Line and Column are 1-based; Offset is the 0-based byte offset reported by
// the decoder.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
	Offset int64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: line %d column %d (char %d)", e.Msg, e.Line, e.Column, e.Offset)
}

// Tree parses content as a single JSON value into a generic tree made of
// map[string]any, []any, string, float64, bool and nil.
//
// Parsing is strict: no repair is attempted and any non-whitespace data after
// the first value is rejected. On failure the returned error is a
// *SyntaxError carrying the position of the defect.
//
// Example:
//
//	tree, err := parse.Tree(`{"answer": "42"}`)
//	// tree == map[string]any{"answer": "42"}
func Tree(content string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(content))

	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, syntaxError(content, err)
	}

	// Anything other than trailing whitespace is extra data.
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		offset := decoder.InputOffset()
		return nil, newSyntaxError(content, "extra data after JSON value", offset)
	}

	return tree, nil
}

// Repair attempts to turn almost-JSON into valid JSON. It delegates to
// jsonrepair (comments, single quotes, trailing commas, Python constants,
// truncated documents, code fences) and then unwraps schema-style
// {"type": ..., "value": ...} envelopes that models sometimes emit when they
// confuse a JSON schema with the data it describes.
func Repair(content string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return "", fmt.Errorf("failed to repair JSON: %w", err)
	}

	unwrapped, err := unwrapSchemaValues(repaired)
	if err != nil {
		// The repaired text is valid on its own even if unwrapping failed.
		return repaired, nil
	}

	return unwrapped, nil
}

// Lenient parses content strictly first and falls back to [Repair] on
// failure. The returned bool reports whether repair was needed. When repair
// also fails the original strict parse error is returned so that diagnostics
// point at the model's actual output.
func Lenient(content string) (any, bool, error) {
	tree, strictErr := Tree(content)
	if strictErr == nil {
		return tree, false, nil
	}

	repaired, err := Repair(content)
	if err != nil {
		return nil, false, strictErr
	}

	tree, err = Tree(repaired)
	if err != nil {
		return nil, false, strictErr
	}

	return tree, true, nil
}

// syntaxError converts a decoder error into a *SyntaxError with a position.
func syntaxError(content string, err error) error {
	var jsonSyntax *json.SyntaxError
	if errors.As(err, &jsonSyntax) {
		// The decoder reports the offset after the offending byte.
		return newSyntaxError(content, jsonSyntax.Error(), jsonSyntax.Offset-1)
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		if strings.TrimSpace(content) == "" {
			return newSyntaxError(content, "expecting value", int64(len(content)))
		}
		return newSyntaxError(content, "unexpected end of JSON input", int64(len(content)))
	}

	return err
}

// newSyntaxError computes line and column for offset within content.
func newSyntaxError(content string, msg string, offset int64) *SyntaxError {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}

	prefix := []byte(content[:offset])
	line := bytes.Count(prefix, []byte("\n")) + 1
	column := int(offset) + 1
	if idx := bytes.LastIndexByte(prefix, '\n'); idx >= 0 {
		column = int(offset) - idx
	}

	return &SyntaxError{
		Msg:    msg,
		Line:   line,
		Column: column,
		Offset: offset,
	}
}

// unwrapSchemaValues detects and unwraps values that are wrapped in a
// schema-like structure with exactly "type" and "value" fields.
//
// Example input:
//
//	{"answer": {"type": "string", "value": "yes"}}
//
// Example output:
//
//	{"answer":"yes"}
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}

	result, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}

	return string(result), nil
}

// recursiveUnwrap recursively processes data structures to unwrap schema-like values
func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return recursiveUnwrap(value)
			}
		}

		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}
