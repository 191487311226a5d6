package schema

import "testing"

func TestValidateFunctionSpec_Valid(t *testing.T) {
	doc := []byte(`
name: add
source: |
  @component
  def add(a: int, b: str) -> float:
      return a + len(b)
params:
  - name: a
    type: int
  - name: b
    type: str
returns:
  scalar: float
baseImage: python:3.7
dependencies:
  - name: pandas
    version: "0.24"
`)
	if err := ValidateFunctionSpec(doc); err != nil {
		t.Fatalf("ValidateFunctionSpec() err=%v", err)
	}
}

func TestValidateFunctionSpec_TupleReturn(t *testing.T) {
	doc := []byte(`
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
	if err := ValidateFunctionSpec(doc); err != nil {
		t.Fatalf("ValidateFunctionSpec() err=%v", err)
	}
}

func TestValidateFunctionSpec_Invalid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing source", "name: add\n"},
		{"bad param type", "name: add\nsource: x\nparams:\n  - name: a\n    type: dict\n"},
		{"empty tuple fields", "name: add\nsource: x\nreturns:\n  tuple:\n    fields: []\n"},
		{"unknown field", "name: add\nsource: x\nextra: true\n"},
		{"not yaml", ":\n  - ]["},
	}
	for _, tc := range cases {
		if err := ValidateFunctionSpec([]byte(tc.doc)); err == nil {
			t.Fatalf("ValidateFunctionSpec() expected error for %s", tc.name)
		}
	}
}
