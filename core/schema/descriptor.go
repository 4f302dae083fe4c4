package schema

// Descriptor validates a generic parsed tree and builds a T from it.
//
// Validate must be pure and safe for concurrent use. It returns a non-empty
// Diagnostics when the tree does not conform; in that case the returned T is
// ignored by callers.
type Descriptor[T any] interface {
	// Name identifies the record type in diagnostics, e.g. "QAResponse".
	Name() string
	// Validate checks tree and materialises the typed value.
	Validate(tree any) (T, Diagnostics)
}

// Documented is implemented by descriptors that can describe their shape as
// a JSON Schema document.
type Documented interface {
	JSONSchema() *JSONSchema
}

// ValidateFunc is the signature of a standalone validation function.
type ValidateFunc[T any] func(tree any) (T, Diagnostics)

type funcDescriptor[T any] struct {
	name     string
	validate ValidateFunc[T]
	document *JSONSchema
}

// New builds a Descriptor from a name and a validation function. The
// optional document is returned from JSONSchema when non-nil.
//
// Example:
//
//	desc := schema.New("Greeting", func(tree any) (string, schema.Diagnostics) {
//	    c := schema.NewChecker()
//	    obj := c.Object("", tree)
//	    return c.RequiredString(obj, "", "text"), c.Diagnostics()
//	}, nil)
func New[T any](name string, validate ValidateFunc[T], document *JSONSchema) Descriptor[T] {
	return &funcDescriptor[T]{
		name:     name,
		validate: validate,
		document: document,
	}
}

func (d *funcDescriptor[T]) Name() string {
	return d.name
}

func (d *funcDescriptor[T]) Validate(tree any) (T, Diagnostics) {
	return d.validate(tree)
}

func (d *funcDescriptor[T]) JSONSchema() *JSONSchema {
	return d.document
}
