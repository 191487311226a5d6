package component

import (
	"fmt"
	"path"
	"strings"
)

// TaskFactory turns a component descriptor into concrete pipeline tasks.
type TaskFactory struct {
	spec Spec
}

func NewTaskFactory(spec Spec) *TaskFactory {
	return &TaskFactory{spec: spec}
}

func (f *TaskFactory) Spec() Spec { return f.spec }

// Task is one resolved container invocation: the descriptor's argument
// template with every input placeholder substituted by its value and every
// output placeholder by its assigned file path.
type Task struct {
	Name        string
	Image       string
	Args        []string
	OutputPaths map[string]string
}

// Task resolves the invocation template. Every declared input must be
// supplied; output paths are assigned under outputDir, one file per output.
func (f *TaskFactory) Task(inputs map[string]string, outputDir string) (Task, error) {
	outputDir = strings.TrimSpace(outputDir)
	if len(f.spec.Outputs) > 0 && outputDir == "" {
		return Task{}, fmt.Errorf("%w: output directory is required", ErrInvalidSpec)
	}
	for _, in := range f.spec.Inputs {
		if _, ok := inputs[in.Name]; !ok {
			return Task{}, fmt.Errorf("%w: missing value for input %q", ErrInvalidSpec, in.Name)
		}
	}

	task := Task{
		Name:        f.spec.Name,
		Image:       f.spec.Implementation.Container.Image,
		OutputPaths: make(map[string]string, len(f.spec.Outputs)),
	}
	for _, arg := range f.spec.Implementation.Container.Args {
		switch {
		case arg.InputValue != "":
			task.Args = append(task.Args, inputs[arg.InputValue])
		case arg.OutputPath != "":
			p := path.Join(outputDir, arg.OutputPath)
			task.OutputPaths[arg.OutputPath] = p
			task.Args = append(task.Args, p)
		}
	}
	return task, nil
}
