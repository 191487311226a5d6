package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuildPythonComponent(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{}
	opts := Options{
		TargetImage: "registry.local/add:v1",
		BaseImage:   "python:3.7",
		StagingPath: "s3://staging",
	}

	factory, err := BuildPythonComponent(context.Background(), buildFunction(), opts, store, runner, nil)
	if err != nil {
		t.Fatalf("BuildPythonComponent() err=%v", err)
	}
	if factory == nil {
		t.Fatalf("factory is nil")
	}
	if len(runner.jobs) != 1 {
		t.Fatalf("jobs=%d, want 1", len(runner.jobs))
	}
	if runner.jobs[0].Namespace != DefaultNamespace {
		t.Fatalf("Namespace=%q, want %q", runner.jobs[0].Namespace, DefaultNamespace)
	}

	spec := factory.Spec()
	if spec.Implementation.Container.Image != "registry.local/add:v1" {
		t.Fatalf("spec image=%q", spec.Implementation.Container.Image)
	}
	if len(spec.Inputs) != 2 || len(spec.Outputs) != 1 {
		t.Fatalf("spec ports=%+v / %+v", spec.Inputs, spec.Outputs)
	}
}

func TestBuildPythonComponent_SkipBuild(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{}
	opts := Options{
		TargetImage: "registry.local/add:v1",
		SkipBuild:   true,
	}

	factory, err := BuildPythonComponent(context.Background(), buildFunction(), opts, store, runner, nil)
	if err != nil {
		t.Fatalf("BuildPythonComponent() err=%v", err)
	}
	if factory == nil {
		t.Fatalf("factory is nil")
	}
	if len(runner.jobs) != 0 || len(store.objects) != 0 || len(store.deletes) != 0 {
		t.Fatalf("remote side effects with SkipBuild set")
	}
}

func TestBuildPythonComponent_BaseImageFallback(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{}
	fn := buildFunction()
	fn.DefaultBaseImage = "python:3.6-slim"
	opts := Options{
		TargetImage: "registry.local/add:v1",
		StagingPath: "s3://staging",
	}

	if _, err := BuildPythonComponent(context.Background(), fn, opts, store, runner, nil); err != nil {
		t.Fatalf("BuildPythonComponent() err=%v", err)
	}
	if len(runner.jobs) != 1 {
		t.Fatalf("jobs=%d, want 1", len(runner.jobs))
	}
}

func TestBuildPythonComponent_MissingBaseImage(t *testing.T) {
	opts := Options{
		TargetImage: "registry.local/add:v1",
		StagingPath: "s3://staging",
	}
	_, err := BuildPythonComponent(context.Background(), buildFunction(), opts, newFakeStore(), &fakeRunner{}, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err=%v, want ErrInvalidArgument", err)
	}
}

func TestBuildPythonComponent_MissingTargetImage(t *testing.T) {
	_, err := BuildPythonComponent(context.Background(), buildFunction(), Options{SkipBuild: true}, newFakeStore(), &fakeRunner{}, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err=%v, want ErrInvalidArgument", err)
	}
}

func TestBuildPythonComponent_WritesComponentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "component.yaml")
	opts := Options{
		TargetImage:   "registry.local/add:v1",
		SkipBuild:     true,
		ComponentFile: path,
	}

	if _, err := BuildPythonComponent(context.Background(), buildFunction(), opts, newFakeStore(), &fakeRunner{}, nil); err != nil {
		t.Fatalf("BuildPythonComponent() err=%v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if !strings.Contains(string(data), "image: registry.local/add:v1") {
		t.Fatalf("descriptor file=%q", string(data))
	}
}

func TestBuildDockerImage(t *testing.T) {
	store := newFakeStore()
	runner := &fakeRunner{}

	err := BuildDockerImage(context.Background(), "s3://staging", "registry.local/app:v1", testDockerfile(t), 0, "", store, runner, nil)
	if err != nil {
		t.Fatalf("BuildDockerImage() err=%v", err)
	}
	if len(runner.jobs) != 1 {
		t.Fatalf("jobs=%d, want 1", len(runner.jobs))
	}
	if runner.jobs[0].Namespace != DefaultNamespace {
		t.Fatalf("Namespace=%q, want default", runner.jobs[0].Namespace)
	}
}

func TestOptionsNormalize(t *testing.T) {
	var opts Options
	opts.normalize()
	if opts.Timeout != DefaultTimeout {
		t.Fatalf("Timeout=%v", opts.Timeout)
	}
	if opts.Namespace != DefaultNamespace {
		t.Fatalf("Namespace=%q", opts.Namespace)
	}
	if opts.Runtime != "python3" {
		t.Fatalf("Runtime=%q", opts.Runtime)
	}
	var second Options
	second.Timeout = time.Minute
	second.Namespace = "builds"
	second.Runtime = "python2"
	second.normalize()
	if second.Timeout != time.Minute || second.Namespace != "builds" || second.Runtime != "python2" {
		t.Fatalf("normalize overwrote explicit values: %+v", second)
	}
}
