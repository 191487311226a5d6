package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kilnworks/kiln-go/component"
	"github.com/kilnworks/kiln-go/deps"
	"github.com/kilnworks/kiln-go/pyfunc"
)

const (
	DefaultTimeout   = 600 * time.Second
	DefaultNamespace = "kubeflow"
)

// Options configures a component build. The zero value builds the image
// with the default timeout, namespace, and Python 3 runtime.
type Options struct {
	// TargetImage is the full reference the built image is pushed to.
	TargetImage string
	// BaseImage overrides the function's default base image.
	BaseImage string
	// Dependencies are rendered into the image's requirements listing.
	Dependencies []deps.VersionedDependency
	// StagingPath is the object-storage location for build archives,
	// required unless SkipBuild is set.
	StagingPath string
	// SkipBuild emits the component descriptor without building the image.
	SkipBuild bool
	Timeout   time.Duration
	Namespace string
	// ComponentFile, when set, is where the component descriptor is
	// persisted as YAML.
	ComponentFile string
	Runtime       pyfunc.Runtime
}

func (o *Options) normalize() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(o.Namespace) == "" {
		o.Namespace = DefaultNamespace
	}
	if o.Runtime == "" {
		o.Runtime = pyfunc.Python3
	}
}

// BuildPythonComponent builds a container image for fn, pushes it to the
// target image, and returns the task factory the pipeline DSL consumes.
// When opts.SkipBuild is set the image build is skipped and only the
// descriptor is emitted.
func BuildPythonComponent(ctx context.Context, fn pyfunc.Function, opts Options, store ObjectStore, jobs JobRunner, logger *slog.Logger) (*component.TaskFactory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts.normalize()

	if strings.TrimSpace(fn.Name) == "" {
		return nil, fmt.Errorf("%w: component function is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(opts.TargetImage) == "" {
		return nil, fmt.Errorf("%w: target image is required", ErrInvalidArgument)
	}
	if !opts.Runtime.Supported() {
		return nil, fmt.Errorf("%w: runtime %q, must be python2 or python3", ErrInvalidArgument, opts.Runtime)
	}

	if !opts.SkipBuild {
		baseImage := strings.TrimSpace(opts.BaseImage)
		if baseImage == "" {
			baseImage = strings.TrimSpace(fn.DefaultBaseImage)
		}
		if baseImage == "" {
			return nil, fmt.Errorf("%w: base image is required", ErrInvalidArgument)
		}

		logger.Info("building component image", "base", baseImage, "destination", opts.TargetImage)
		b, err := NewImageBuilder(opts.StagingPath, opts.TargetImage, store, jobs, logger)
		if err != nil {
			return nil, err
		}
		if err := b.BuildFromFunction(ctx, fn, opts.Namespace, baseImage, opts.Timeout, opts.Dependencies, opts.Runtime); err != nil {
			return nil, err
		}
		logger.Info("component image built", "destination", opts.TargetImage)
	}

	spec, err := component.FromFunction(fn, opts.TargetImage)
	if err != nil {
		return nil, err
	}
	if opts.ComponentFile != "" {
		if err := spec.WriteFile(opts.ComponentFile); err != nil {
			return nil, err
		}
		logger.Info("component descriptor written", "path", opts.ComponentFile)
	}
	return component.NewTaskFactory(spec), nil
}

// BuildDockerImage builds and pushes an image from an existing local
// Dockerfile, staging the build context at stagingPath.
func BuildDockerImage(ctx context.Context, stagingPath, targetImage, dockerfilePath string, timeout time.Duration, namespace string, store ObjectStore, jobs JobRunner, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if strings.TrimSpace(namespace) == "" {
		namespace = DefaultNamespace
	}

	b, err := NewImageBuilder(stagingPath, targetImage, store, jobs, logger)
	if err != nil {
		return err
	}
	if err := b.BuildFromDockerfile(ctx, dockerfilePath, namespace, timeout); err != nil {
		return err
	}
	logger.Info("image built", "destination", targetImage)
	return nil
}
