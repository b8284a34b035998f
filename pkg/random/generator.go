package random

import "fmt"

// Generator is a named, zero-argument value source bound to a Context.
// Generator functions must be pure functions of the Context's stream
// position: no other source of non-determinism, or seed reproducibility
// is lost.
type Generator struct {
	name string
	fn   func() any
}

// NewGenerator binds a generator function to a Context.
func NewGenerator(name string, rc *Context, fn func(*Context) any) Generator {
	return Generator{
		name: name,
		fn:   func() any { return fn(rc) },
	}
}

// Name returns the generator's display name.
func (g Generator) Name() string {
	return g.name
}

// Value draws the next value from the generator.
func (g Generator) Value() any {
	return g.fn()
}

// MismatchError reports a generator slot holding a different type than the
// invariant declared for it.
type MismatchError struct {
	Generator string
	Expected  string
	Actual    any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("generator %q produced %T, expected %s", e.Generator, e.Actual, e.Expected)
}

// StringValue draws from the generator and asserts a string result.
func StringValue(g Generator) (string, error) {
	v := g.Value()
	s, ok := v.(string)
	if !ok {
		return "", &MismatchError{Generator: g.name, Expected: "string", Actual: v}
	}
	return s, nil
}

// IntValue draws from the generator and asserts an int result.
func IntValue(g Generator) (int, error) {
	v := g.Value()
	i, ok := v.(int)
	if !ok {
		return 0, &MismatchError{Generator: g.name, Expected: "int", Actual: v}
	}
	return i, nil
}
