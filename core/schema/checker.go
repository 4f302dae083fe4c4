package schema

import (
	"strconv"
)

// Checker accumulates diagnostics while a hand-written validator walks a
// generic tree. Every accessor records a diagnostic on mismatch and returns
// the zero value, so validators can read all fields in one pass and report
// every problem at once.
//
// A Checker is not safe for concurrent use; create one per Validate call.
type Checker struct {
	diags Diagnostics
}

// NewChecker returns an empty Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Diagnostics returns the diagnostics recorded so far.
func (c *Checker) Diagnostics() Diagnostics {
	return c.diags
}

// Add records a custom diagnostic.
func (c *Checker) Add(path, kind, message string, input any) {
	c.diags = append(c.diags, FieldDiagnostic{
		Path:    path,
		Kind:    kind,
		Message: message,
		Input:   input,
	})
}

// Object asserts that value is a JSON object. It returns nil (and records a
// diagnostic) otherwise.
func (c *Checker) Object(path string, value any) map[string]any {
	obj, ok := value.(map[string]any)
	if !ok {
		c.Add(path, KindObjectType, "Input should be a valid object", value)
		return nil
	}
	return obj
}

// RequiredString reads obj[key] as a string that must be present.
// A nil obj means the parent already failed; nothing more is recorded.
func (c *Checker) RequiredString(obj map[string]any, path, key string) string {
	if obj == nil {
		return ""
	}
	fieldPath := Join(path, key)

	raw, present := obj[key]
	if !present {
		c.Add(fieldPath, KindMissing, "Field required", nil)
		return ""
	}

	s, ok := raw.(string)
	if !ok {
		c.Add(fieldPath, KindStringType, "Input should be a valid string", raw)
		return ""
	}
	return s
}

// OptionalString reads obj[key] as a string, returning def when absent.
// An explicit null is a type error.
func (c *Checker) OptionalString(obj map[string]any, path, key, def string) string {
	if obj == nil {
		return def
	}

	raw, present := obj[key]
	if !present {
		return def
	}

	s, ok := raw.(string)
	if !ok {
		c.Add(Join(path, key), KindStringType, "Input should be a valid string", raw)
		return def
	}
	return s
}

// RequiredNumber reads obj[key] as a number that must be present.
func (c *Checker) RequiredNumber(obj map[string]any, path, key string) float64 {
	if obj == nil {
		return 0
	}
	fieldPath := Join(path, key)

	raw, present := obj[key]
	if !present {
		c.Add(fieldPath, KindMissing, "Field required", nil)
		return 0
	}

	n, ok := raw.(float64)
	if !ok {
		c.Add(fieldPath, KindNumberType, "Input should be a valid number", raw)
		return 0
	}
	return n
}

// OptionalBool reads obj[key] as a bool, returning def when absent.
// An explicit null is a type error.
func (c *Checker) OptionalBool(obj map[string]any, path, key string, def bool) bool {
	if obj == nil {
		return def
	}

	raw, present := obj[key]
	if !present {
		return def
	}

	b, ok := raw.(bool)
	if !ok {
		c.Add(Join(path, key), KindBoolType, "Input should be a valid boolean", raw)
		return def
	}
	return b
}

// RequiredArray reads obj[key] as an array that must be present.
func (c *Checker) RequiredArray(obj map[string]any, path, key string) []any {
	if obj == nil {
		return nil
	}
	fieldPath := Join(path, key)

	raw, present := obj[key]
	if !present {
		c.Add(fieldPath, KindMissing, "Field required", nil)
		return nil
	}

	return c.array(fieldPath, raw)
}

// OptionalArray reads obj[key] as an array. Absent yields an empty, non-nil
// slice; an explicit null is a type error. Use [Checker.NullableArray] for
// fields that accept null.
func (c *Checker) OptionalArray(obj map[string]any, path, key string) []any {
	if obj == nil {
		return []any{}
	}

	raw, present := obj[key]
	if !present {
		return []any{}
	}

	items := c.array(Join(path, key), raw)
	if items == nil {
		return []any{}
	}
	return items
}

// NullableArray is like [Checker.OptionalArray] but treats null as absent.
func (c *Checker) NullableArray(obj map[string]any, path, key string) []any {
	if obj == nil {
		return []any{}
	}

	raw, present := obj[key]
	if !present || raw == nil {
		return []any{}
	}

	items := c.array(Join(path, key), raw)
	if items == nil {
		return []any{}
	}
	return items
}

// MinItems records a diagnostic when items has fewer than minimum entries.
func (c *Checker) MinItems(path string, items []any, minimum int) {
	if len(items) < minimum {
		c.Add(path, KindTooShort, "List should have at least "+strconv.Itoa(minimum)+" item(s) after validation, not "+strconv.Itoa(len(items)), items)
	}
}

func (c *Checker) array(path string, raw any) []any {
	items, ok := raw.([]any)
	if !ok {
		c.Add(path, KindArrayType, "Input should be a valid array", raw)
		return nil
	}
	return items
}

// Join appends elem (a field name or an array index) to a dot-separated path.
func Join(path string, elem any) string {
	var s string
	switch v := elem.(type) {
	case string:
		s = v
	case int:
		s = strconv.Itoa(v)
	default:
		s = "?"
	}

	if path == "" {
		return s
	}
	return path + "." + s
}
