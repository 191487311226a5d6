// Package pyfunc models a typed Python function and synthesizes the
// CLI-wrapped entrypoint program that runs it inside a component image.
package pyfunc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFunction reports a function whose signature cannot be
	// synthesized into an entrypoint.
	ErrInvalidFunction = errors.New("pyfunc: invalid function")

	// ErrUnsupportedRuntime reports a runtime outside the supported set.
	ErrUnsupportedRuntime = errors.New("pyfunc: unsupported runtime")
)

// ScalarType is one of the value types the synthesizer can parse from a
// command-line argument and serialize to a file.
type ScalarType string

const (
	Int   ScalarType = "int"
	Float ScalarType = "float"
	Str   ScalarType = "str"
	Bool  ScalarType = "bool"
)

func (t ScalarType) Supported() bool {
	switch t {
	case Int, Float, Str, Bool:
		return true
	}
	return false
}

// Runtime selects the Python major version the generated program targets.
type Runtime string

const (
	Python2 Runtime = "python2"
	Python3 Runtime = "python3"
)

func (r Runtime) Supported() bool { return r == Python2 || r == Python3 }

// Interpreter returns the interpreter binary the image entrypoint invokes.
func (r Runtime) Interpreter() string {
	if r == Python2 {
		return "python"
	}
	return "python3"
}

// Param is one declared function parameter with its scalar annotation.
type Param struct {
	Name string
	Type ScalarType
}

// Field is one named-tuple output field.
type Field struct {
	Name string
	Type ScalarType
}

// ReturnSpec declares the function's return annotation: either a single
// scalar or a named tuple of scalar fields. A nil *ReturnSpec means the
// function declares no return annotation.
type ReturnSpec struct {
	Scalar    ScalarType
	TupleName string
	Fields    []Field
}

// ScalarReturn declares a single scalar return value.
func ScalarReturn(t ScalarType) *ReturnSpec {
	return &ReturnSpec{Scalar: t}
}

// TupleReturn declares a named-tuple return with one output per field.
func TupleReturn(tupleName string, fields ...Field) *ReturnSpec {
	return &ReturnSpec{TupleName: tupleName, Fields: fields}
}

func (r *ReturnSpec) IsNamedTuple() bool {
	return r != nil && (r.TupleName != "" || len(r.Fields) > 0)
}

// Function is the explicit model of a user-authored component function.
// It replaces runtime introspection: the caller declares the signature,
// source, and optional decorator-supplied overrides up front.
type Function struct {
	// Name is the Python function name as it appears after "def".
	Name string
	// Source is the full function source, decorator line(s) included.
	Source string
	// Doc is the function's documentation string, if any.
	Doc string

	// HumanName and Description override the derived component name and
	// description when set.
	HumanName   string
	Description string
	// DefaultBaseImage is the base image the function was declared with,
	// used when the build request supplies none.
	DefaultBaseImage string

	Params  []Param
	Returns *ReturnSpec
}

// Validate checks that every parameter carries a supported scalar
// annotation and that the return annotation, if present, is a supported
// scalar or a named tuple of supported scalars.
func (f Function) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: function name is required", ErrInvalidFunction)
	}
	if strings.TrimSpace(f.Source) == "" {
		return fmt.Errorf("%w: function source is required", ErrInvalidFunction)
	}
	for _, p := range f.Params {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: parameter without a name", ErrInvalidFunction)
		}
		if p.Type == "" {
			return fmt.Errorf("%w: parameter %q has no type annotation", ErrInvalidFunction, p.Name)
		}
		if !p.Type.Supported() {
			return fmt.Errorf("%w: parameter %q has unsupported type %q, supported types are [int, float, str, bool]",
				ErrInvalidFunction, p.Name, p.Type)
		}
	}
	if f.Returns == nil {
		return nil
	}
	if f.Returns.IsNamedTuple() {
		if len(f.Returns.Fields) == 0 {
			return fmt.Errorf("%w: named-tuple return %q has no fields", ErrInvalidFunction, f.Returns.TupleName)
		}
		for _, field := range f.Returns.Fields {
			if strings.TrimSpace(field.Name) == "" {
				return fmt.Errorf("%w: named-tuple field without a name", ErrInvalidFunction)
			}
			if !field.Type.Supported() {
				return fmt.Errorf("%w: output field %q has unsupported type %q, supported types are [int, float, str, bool]",
					ErrInvalidFunction, field.Name, field.Type)
			}
		}
		return nil
	}
	if !f.Returns.Scalar.Supported() {
		return fmt.Errorf("%w: return type %q not supported, supported types are [int, float, str, bool]",
			ErrInvalidFunction, f.Returns.Scalar)
	}
	return nil
}

// OutputNames lists the component's output names: "output" for a scalar
// return, one name per field for a named-tuple return.
func (f Function) OutputNames() []string {
	if !f.Returns.IsNamedTuple() {
		return []string{"output"}
	}
	names := make([]string, 0, len(f.Returns.Fields))
	for _, field := range f.Returns.Fields {
		names = append(names, field.Name)
	}
	return names
}
