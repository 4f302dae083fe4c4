package schema

import (
	"fmt"
	"strings"

	"github.com/leofalp/structguard/internal/utils"
)

// Diagnostic kinds reported by [Checker]. Custom validators may use their own.
const (
	KindMissing    = "missing"
	KindStringType = "string_type"
	KindArrayType  = "array_type"
	KindObjectType = "object_type"
	KindNumberType = "number_type"
	KindBoolType   = "bool_type"
	KindTooShort   = "too_short"
)

// inputPreviewLength caps how much of an offending input is echoed back.
const inputPreviewLength = 80

// FieldDiagnostic describes one field that failed validation.
type FieldDiagnostic struct {
	// Path locates the field, dot separated, with array indices as elements
	// (e.g. "citations.0.quote"). Empty for the root value.
	Path string
	// Kind is a machine-readable category such as [KindMissing].
	Kind string
	// Message is the human-readable explanation.
	Message string
	// Input is the offending value, or nil when the field is absent.
	Input any
}

// String renders the diagnostic on two lines: the path, then the indented
// message with its kind and a preview of the input.
func (d FieldDiagnostic) String() string {
	path := d.Path
	if path == "" {
		path = "(root)"
	}

	var b strings.Builder
	b.WriteString(path)
	b.WriteString("\n  ")
	b.WriteString(d.Message)
	b.WriteString(" [type=")
	b.WriteString(d.Kind)
	if d.Kind != KindMissing {
		b.WriteString(", input_value=")
		b.WriteString(utils.TruncateString(utils.ToString(d.Input), inputPreviewLength))
	}
	b.WriteString("]")
	return b.String()
}

// Diagnostics is the list of field failures for one validation run. An empty
// (or nil) Diagnostics means the tree is valid.
type Diagnostics []FieldDiagnostic

// OK reports whether no diagnostics were recorded.
func (d Diagnostics) OK() bool {
	return len(d) == 0
}

// Report renders all diagnostics under a header naming the record type:
//
//	1 validation error for QAResponse
//	answer
//	  Field required [type=missing]
func (d Diagnostics) Report(schemaName string) string {
	noun := "errors"
	if len(d) == 1 {
		noun = "error"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d validation %s for %s", len(d), noun, schemaName)
	for _, diag := range d {
		b.WriteString("\n")
		b.WriteString(diag.String())
	}
	return b.String()
}

// Error implements error so Diagnostics can be returned and wrapped directly.
func (d Diagnostics) Error() string {
	parts := make([]string, 0, len(d))
	for _, diag := range d {
		path := diag.Path
		if path == "" {
			path = "(root)"
		}
		parts = append(parts, path+": "+diag.Message)
	}
	return strings.Join(parts, "; ")
}

// Paths returns the path of every diagnostic, in order.
func (d Diagnostics) Paths() []string {
	paths := make([]string, len(d))
	for i, diag := range d {
		paths[i] = diag.Path
	}
	return paths
}
