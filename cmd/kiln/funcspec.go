package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilnworks/kiln-go/deps"
	"github.com/kilnworks/kiln-go/internal/schema"
	"github.com/kilnworks/kiln-go/pyfunc"
)

// functionSpecDoc is the YAML shape of a function spec file.
type functionSpecDoc struct {
	Name         string          `yaml:"name"`
	Source       string          `yaml:"source"`
	Doc          string          `yaml:"doc"`
	HumanName    string          `yaml:"humanName"`
	Description  string          `yaml:"description"`
	BaseImage    string          `yaml:"baseImage"`
	Params       []typedNameDoc  `yaml:"params"`
	Returns      *returnsDoc     `yaml:"returns"`
	Dependencies []dependencyDoc `yaml:"dependencies"`
}

type typedNameDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type returnsDoc struct {
	Scalar string    `yaml:"scalar"`
	Tuple  *tupleDoc `yaml:"tuple"`
}

type tupleDoc struct {
	Name   string         `yaml:"name"`
	Fields []typedNameDoc `yaml:"fields"`
}

type dependencyDoc struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	MinVersion string `yaml:"minVersion"`
	MaxVersion string `yaml:"maxVersion"`
}

// loadFunctionSpec reads a function spec file, checks it against the
// embedded schema, and decodes it into the function model.
func loadFunctionSpec(path string) (pyfunc.Function, []deps.VersionedDependency, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pyfunc.Function{}, nil, fmt.Errorf("read function spec: %w", err)
	}
	if err := schema.ValidateFunctionSpec(raw); err != nil {
		return pyfunc.Function{}, nil, err
	}

	var doc functionSpecDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return pyfunc.Function{}, nil, fmt.Errorf("decode function spec: %w", err)
	}

	fn := pyfunc.Function{
		Name:             doc.Name,
		Source:           doc.Source,
		Doc:              doc.Doc,
		HumanName:        doc.HumanName,
		Description:      doc.Description,
		DefaultBaseImage: doc.BaseImage,
	}
	for _, p := range doc.Params {
		fn.Params = append(fn.Params, pyfunc.Param{Name: p.Name, Type: pyfunc.ScalarType(p.Type)})
	}
	if doc.Returns != nil {
		if doc.Returns.Tuple != nil {
			fields := make([]pyfunc.Field, 0, len(doc.Returns.Tuple.Fields))
			for _, f := range doc.Returns.Tuple.Fields {
				fields = append(fields, pyfunc.Field{Name: f.Name, Type: pyfunc.ScalarType(f.Type)})
			}
			fn.Returns = pyfunc.TupleReturn(doc.Returns.Tuple.Name, fields...)
		} else if doc.Returns.Scalar != "" {
			fn.Returns = pyfunc.ScalarReturn(pyfunc.ScalarType(doc.Returns.Scalar))
		}
	}

	dependencies := make([]deps.VersionedDependency, 0, len(doc.Dependencies))
	for _, d := range doc.Dependencies {
		if d.Version != "" {
			dependencies = append(dependencies, deps.NewVersionedDependency(d.Name, d.Version))
			continue
		}
		dependencies = append(dependencies, deps.NewVersionedDependencyRange(d.Name, d.MinVersion, d.MaxVersion))
	}
	if err := fn.Validate(); err != nil {
		return pyfunc.Function{}, nil, err
	}
	return fn, dependencies, nil
}
