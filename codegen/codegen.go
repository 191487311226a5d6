// Package codegen provides a minimal indentation-aware line emitter used to
// assemble generated program source deterministically.
package codegen

import (
	"errors"
	"strings"
)

var ErrDedentUnderflow = errors.New("codegen: dedent below zero")

// Generator buffers lines at the current indentation level. It is reusable
// across independent generation passes: call Begin between passes to reset
// the buffer and the level.
type Generator struct {
	indentUnit string
	lines      []string
	level      int
}

// NewGenerator returns a generator that prefixes each line with level
// repetitions of indentUnit. An empty unit defaults to a tab.
func NewGenerator(indentUnit string) *Generator {
	if indentUnit == "" {
		indentUnit = "\t"
	}
	return &Generator{indentUnit: indentUnit}
}

// Begin discards buffered lines and resets the level to zero.
func (g *Generator) Begin() {
	g.lines = nil
	g.level = 0
}

func (g *Generator) Indent() { g.level++ }

func (g *Generator) Dedent() error {
	if g.level == 0 {
		return ErrDedentUnderflow
	}
	g.level--
	return nil
}

// Writeln appends line prefixed by the current indentation.
func (g *Generator) Writeln(line string) {
	g.lines = append(g.lines, strings.Repeat(g.indentUnit, g.level)+line)
}

// String joins the buffered lines, one trailing newline per line. The buffer
// is left intact; use Begin to start a fresh pass.
func (g *Generator) String() string {
	return strings.Join(g.lines, "\n") + "\n"
}
