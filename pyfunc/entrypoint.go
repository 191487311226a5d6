package pyfunc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kilnworks/kiln-go/codegen"
)

// firstIndent captures the indentation of the first indented line, so the
// generated blocks match the style (tabs vs. spaces) of the original body.
var firstIndent = regexp.MustCompile(`\n([ \t]+)\w`)

// Synthesize converts a validated function into a standalone entrypoint
// program: the de-decorated original source, a wrapper that coerces
// arguments and serializes each output value to a file, and a CLI driver
// that exposes the wrapper as the program entrypoint.
func Synthesize(fn Function, runtime Runtime) (string, error) {
	if !runtime.Supported() {
		return "", fmt.Errorf("%w: %q, must be python2 or python3", ErrUnsupportedRuntime, runtime)
	}
	if err := fn.Validate(); err != nil {
		return "", err
	}

	multiOutput := fn.Returns.IsNamedTuple()

	indentUnit := "\t"
	if m := firstIndent.FindStringSubmatch(fn.Source); m != nil {
		indentUnit = m[1]
	}
	gen := codegen.NewGenerator(indentUnit)

	// Wrapper: parse-free body that coerces each argument via its scalar
	// constructor, invokes the function, and writes each output value.
	wrapperName := "wrapper_" + fn.Name
	gen.Begin()
	signature := "def " + wrapperName + "("
	for _, p := range fn.Params {
		signature += p.Name + ","
	}
	if multiOutput {
		signature += "_output_files"
	} else {
		signature += "_output_file"
	}
	signature += "):"
	gen.Writeln(signature)

	gen.Indent()
	resultVar := "output"
	if multiOutput {
		resultVar = "outputs"
	}
	call := resultVar + " = " + fn.Name + "("
	for _, p := range fn.Params {
		call += string(p.Type) + "(" + p.Name + "),"
	}
	call = strings.TrimSuffix(call, ",") + ")"
	gen.Writeln(call)

	gen.Writeln("import os")
	if multiOutput {
		gen.Writeln("for _output_file, output in zip(_output_files, outputs):")
		gen.Indent()
	}
	gen.Writeln("os.makedirs(os.path.dirname(_output_file))")
	gen.Writeln(`with open(_output_file, "w") as data:`)
	gen.Indent()
	gen.Writeln("data.write(str(output))")
	wrapperCode := gen.String()

	// CLI driver: one typed positional per parameter in declared order,
	// then the output path positional(s).
	gen.Begin()
	gen.Writeln("import argparse")
	gen.Writeln(`parser = argparse.ArgumentParser(description="Parsing arguments")`)
	for _, p := range fn.Params {
		gen.Writeln(`parser.add_argument("` + p.Name + `", type=` + string(p.Type) + `)`)
	}
	if multiOutput {
		gen.Writeln(fmt.Sprintf(`parser.add_argument("_output_files", type=str, nargs=%d)`, len(fn.Returns.Fields)))
	} else {
		gen.Writeln(`parser.add_argument("_output_file", type=str)`)
	}
	gen.Writeln("args = vars(parser.parse_args())")
	gen.Writeln("")
	gen.Writeln(`if __name__ == "__main__":`)
	gen.Indent()
	gen.Writeln(wrapperName + "(**args)")
	cliCode := gen.String()

	source, err := dedecoratedSource(fn, runtime)
	if err != nil {
		return "", err
	}
	if multiOutput {
		source = "from typing import NamedTuple\n" + source
	}

	return source + "\n" + wrapperCode + "\n" + cliCode, nil
}

// dedecoratedSource strips everything above the function's "def" line. For
// python2 the declaration line is additionally rewritten without type
// annotations, since that runtime cannot execute an annotated signature.
func dedecoratedSource(fn Function, runtime Runtime) (string, error) {
	lines := strings.Split(fn.Source, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "def ") {
			start = i
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("%w: source has no top-level def line", ErrInvalidFunction)
	}
	if runtime == Python2 {
		names := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			names = append(names, p.Name)
		}
		lines[start] = "def " + fn.Name + "(" + strings.Join(names, ", ") + "):"
	}
	return strings.Join(lines[start:], "\n"), nil
}
