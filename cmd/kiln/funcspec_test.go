package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kilnworks/kiln-go/pyfunc"
)

func writeSpec(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "function.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() err=%v", err)
	}
	return path
}

func TestLoadFunctionSpec(t *testing.T) {
	path := writeSpec(t, `
name: add
source: |
  def add(a: int, b: str) -> float:
      return a + len(b)
doc: Adds a number and a string length.
baseImage: python:3.7
params:
  - name: a
    type: int
  - name: b
    type: str
returns:
  scalar: float
dependencies:
  - name: pandas
    version: "0.24"
  - name: numpy
    minVersion: "1.16"
`)

	fn, dependencies, err := loadFunctionSpec(path)
	if err != nil {
		t.Fatalf("loadFunctionSpec() err=%v", err)
	}
	if fn.Name != "add" || fn.DefaultBaseImage != "python:3.7" {
		t.Fatalf("fn=%+v", fn)
	}
	if len(fn.Params) != 2 || fn.Params[0].Type != pyfunc.Int || fn.Params[1].Type != pyfunc.Str {
		t.Fatalf("Params=%+v", fn.Params)
	}
	if fn.Returns == nil || fn.Returns.Scalar != pyfunc.Float {
		t.Fatalf("Returns=%+v", fn.Returns)
	}

	if len(dependencies) != 2 {
		t.Fatalf("dependencies=%+v", dependencies)
	}
	if dependencies[0].MinVersion() != "0.24" || dependencies[0].MaxVersion() != "0.24" {
		t.Fatalf("pinned dependency=%+v", dependencies[0])
	}
	if dependencies[1].MinVersion() != "1.16" || dependencies[1].HasMaxVersion() {
		t.Fatalf("range dependency=%+v", dependencies[1])
	}
}

func TestLoadFunctionSpec_TupleReturn(t *testing.T) {
	path := writeSpec(t, `
name: split
source: "def split(total: int): ..."
params:
  - name: total
    type: int
returns:
  tuple:
    name: Parts
    fields:
      - name: left
        type: int
      - name: right
        type: int
`)

	fn, _, err := loadFunctionSpec(path)
	if err != nil {
		t.Fatalf("loadFunctionSpec() err=%v", err)
	}
	if !fn.Returns.IsNamedTuple() || fn.Returns.TupleName != "Parts" || len(fn.Returns.Fields) != 2 {
		t.Fatalf("Returns=%+v", fn.Returns)
	}
}

func TestLoadFunctionSpec_SchemaRejection(t *testing.T) {
	path := writeSpec(t, "name: add\nextra: true\n")
	if _, _, err := loadFunctionSpec(path); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestLoadFunctionSpec_MissingFile(t *testing.T) {
	_, _, err := loadFunctionSpec(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected read error")
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Fatalf("exitCode(generic)=%d", got)
	}
	if got := exitCode(pyfunc.ErrInvalidFunction); got != 2 {
		t.Fatalf("exitCode(invalid function)=%d", got)
	}
}
