// Package component emits the declarative component descriptor a pipeline
// authoring layer consumes, and turns it into a callable task factory.
package component

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/kilnworks/kiln-go/pyfunc"
)

var ErrInvalidSpec = errors.New("component: invalid spec")

// Spec describes a pipeline component: its name, typed interface, and
// container invocation template.
type Spec struct {
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description,omitempty"`
	Inputs         []Port         `yaml:"inputs,omitempty"`
	Outputs        []Port         `yaml:"outputs,omitempty"`
	Implementation Implementation `yaml:"implementation"`
}

// Port is one named input or output.
type Port struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

type Implementation struct {
	Container Container `yaml:"container"`
}

type Container struct {
	Image string     `yaml:"image"`
	Args  []Argument `yaml:"args,omitempty"`
}

// Argument is one positional argument slot in the invocation template.
// Exactly one of InputValue or OutputPath is set: an input placeholder is
// substituted with the input's runtime value, an output placeholder with a
// runtime-assigned file path.
type Argument struct {
	InputValue string `yaml:"inputValue,omitempty"`
	OutputPath string `yaml:"outputPath,omitempty"`
}

// FromFunction derives the component descriptor for a function pushed to
// targetImage: name from the explicit override or the humanized function
// name, description from the override or the doc string, one input per
// parameter, one output per return value, and a positional argument
// template of all inputs followed by all outputs.
func FromFunction(fn pyfunc.Function, targetImage string) (Spec, error) {
	if strings.TrimSpace(fn.Name) == "" {
		return Spec{}, fmt.Errorf("%w: function name is required", ErrInvalidSpec)
	}
	if strings.TrimSpace(targetImage) == "" {
		return Spec{}, fmt.Errorf("%w: target image is required", ErrInvalidSpec)
	}

	name := strings.TrimSpace(fn.HumanName)
	if name == "" {
		name = humanizeName(fn.Name)
	}
	description := strings.TrimSpace(fn.Description)
	if description == "" {
		description = strings.TrimSpace(fn.Doc)
	}

	spec := Spec{
		Name:        name,
		Description: description,
		Implementation: Implementation{
			Container: Container{Image: strings.TrimSpace(targetImage)},
		},
	}
	for _, p := range fn.Params {
		// Port types are recorded generically; the generated program
		// performs the per-type coercion itself.
		spec.Inputs = append(spec.Inputs, Port{Name: p.Name, Type: "str"})
		spec.Implementation.Container.Args = append(spec.Implementation.Container.Args, Argument{InputValue: p.Name})
	}
	for _, out := range fn.OutputNames() {
		spec.Outputs = append(spec.Outputs, Port{Name: out, Type: "str"})
		spec.Implementation.Container.Args = append(spec.Implementation.Container.Args, Argument{OutputPath: out})
	}
	return spec, nil
}

// humanizeName turns a function name into a readable component name:
// underscores become spaces and the first letter is capitalized.
func humanizeName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Marshal renders the descriptor as YAML.
func (s Spec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// WriteFile persists the descriptor as a YAML file at path.
func (s Spec) WriteFile(path string) error {
	out, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
