// Package builder packages a build context, stages it to object storage,
// and drives a cluster-side builder job that produces a container image.
package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilnworks/kiln-go/deps"
	"github.com/kilnworks/kiln-go/pyfunc"
)

// Builder-job constants consumed by the cluster-side executor.
const (
	builderJobPrefix = "kaniko-"
	builderImage     = "gcr.io/kaniko-project/executor@sha256:78d44ec4e9cb5545d7f85c1924695c89503ded86a59f92c7ae658afa3cff5400"

	credentialSecretName = "kiln-build-credentials"
	credentialMountPath  = "/secret/build-credentials"
	credentialEnvVar     = "AWS_SHARED_CREDENTIALS_FILE"
	credentialFileName   = "credentials"
)

// ObjectStore is the staging-storage collaborator. Implementations stage
// the archived build context where the builder job can read it.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
	Delete(ctx context.Context, bucket, key string) error
}

// BuildJob describes a single builder-job submission to the cluster
// job-runner collaborator.
type BuildJob struct {
	NamePrefix     string
	Namespace      string
	Image          string
	Args           []string
	Env            map[string]string
	SecretName     string
	SecretMount    string
	RestartPolicy  string
	ServiceAccount string
}

// JobRunner submits a builder job and blocks until it completes, fails, or
// the timeout elapses.
type JobRunner interface {
	RunJob(ctx context.Context, job BuildJob, timeout time.Duration) error
}

// ImageBuilder drives one build attempt: package, upload, run the builder
// job, and clean the staged archive up on every exit path.
type ImageBuilder struct {
	staging     StagingPath
	targetImage string
	tarballName string
	store       ObjectStore
	jobs        JobRunner
	logger      *slog.Logger
}

// NewImageBuilder validates the staging location and target image up front;
// a malformed staging path fails here, before any remote call. Each builder
// owns a uniquely named archive so concurrent builds do not collide.
func NewImageBuilder(stagingPath, targetImage string, store ObjectStore, jobs JobRunner, logger *slog.Logger) (*ImageBuilder, error) {
	staging, err := ParseStagingPath(stagingPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(targetImage) == "" {
		return nil, fmt.Errorf("%w: target image is required", ErrInvalidArgument)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: object store is required", ErrInvalidArgument)
	}
	if jobs == nil {
		return nil, fmt.Errorf("%w: job runner is required", ErrInvalidArgument)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageBuilder{
		staging:     staging,
		targetImage: strings.TrimSpace(targetImage),
		tarballName: uuid.NewString() + archiveSuffix,
		store:       store,
		jobs:        jobs,
		logger:      logger,
	}, nil
}

// BuildFromFunction synthesizes the entrypoint program, renders the
// requirements listing and Dockerfile into a scratch directory, packages
// them, and runs the remote build. The scratch directory is removed on
// every exit path.
func (b *ImageBuilder) BuildFromFunction(ctx context.Context, fn pyfunc.Function, namespace, baseImage string, timeout time.Duration, dependencies []deps.VersionedDependency, runtime pyfunc.Runtime) error {
	if strings.TrimSpace(baseImage) == "" {
		return fmt.Errorf("%w: base image is required", ErrInvalidArgument)
	}

	dir, err := os.MkdirTemp("", "kiln-build-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	b.logger.Info("generating entrypoint program", "function", fn.Name, "runtime", string(runtime))
	program, err := pyfunc.Synthesize(fn, runtime)
	if err != nil {
		return err
	}
	programPath := filepath.Join(dir, archiveProgramName)
	if err := os.WriteFile(programPath, []byte(program), 0o644); err != nil {
		return err
	}

	b.logger.Info("rendering requirements listing", "dependencies", len(dependencies))
	ledger := deps.NewLedger()
	for _, dep := range dependencies {
		ledger.Add(dep, true)
	}
	requirementsPath := filepath.Join(dir, archiveRequirementsName)
	if err := ledger.RenderFile(requirementsPath); err != nil {
		return err
	}

	dockerfilePath := filepath.Join(dir, archiveDockerfileName)
	if err := writeDockerfile(dockerfilePath, baseImage, archiveProgramName, runtime, archiveRequirementsName); err != nil {
		return err
	}

	b.logger.Info("packaging build context")
	tarballPath := filepath.Join(dir, "docker.tmp"+archiveSuffix)
	if err := prepareBuildFiles(tarballPath, dockerfilePath, programPath, requirementsPath); err != nil {
		return err
	}
	return b.buildImage(ctx, tarballPath, namespace, timeout)
}

// BuildFromDockerfile packages an existing recipe, with no program or
// requirements file, and runs the remote build.
func (b *ImageBuilder) BuildFromDockerfile(ctx context.Context, dockerfilePath, namespace string, timeout time.Duration) error {
	if strings.TrimSpace(dockerfilePath) == "" {
		return fmt.Errorf("%w: dockerfile path is required", ErrInvalidArgument)
	}

	dir, err := os.MkdirTemp("", "kiln-build-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	b.logger.Info("packaging build context", "dockerfile", dockerfilePath)
	tarballPath := filepath.Join(dir, "docker.tmp"+archiveSuffix)
	if err := prepareBuildFiles(tarballPath, dockerfilePath, "", ""); err != nil {
		return err
	}
	return b.buildImage(ctx, tarballPath, namespace, timeout)
}

// buildImage uploads the archive, runs the builder job, and removes the
// staged archive whether the job succeeded or not. Cleanup failure is
// logged, never returned, so it cannot mask the build outcome.
func (b *ImageBuilder) buildImage(ctx context.Context, tarballPath, namespace string, timeout time.Duration) error {
	key := b.staging.Key(b.tarballName)

	f, err := os.Open(tarballPath)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	b.logger.Info("uploading build context", "bucket", b.staging.Bucket, "key", key, "bytes", info.Size())
	err = b.store.Put(ctx, b.staging.Bucket, key, f, info.Size(), "application/gzip")
	f.Close()
	if err != nil {
		b.logger.Error("build context upload failed", "key", key, "error", err)
		return &BuildError{Phase: "upload", Image: b.targetImage, Err: err}
	}

	b.logger.Info("starting builder job", "namespace", namespace, "destination", b.targetImage)
	runErr := b.jobs.RunJob(ctx, b.builderJob(namespace), timeout)

	// The archive was staged, so exactly one removal attempt happens here
	// regardless of the job outcome, even when ctx is already done.
	if err := b.store.Delete(context.WithoutCancel(ctx), b.staging.Bucket, key); err != nil {
		b.logger.Error("failed to remove staged build context", "bucket", b.staging.Bucket, "key", key, "error", err)
	}

	if runErr != nil {
		b.logger.Error("builder job failed", "destination", b.targetImage, "error", runErr)
		return &BuildError{Phase: "job", Image: b.targetImage, Err: runErr}
	}
	b.logger.Info("builder job complete", "destination", b.targetImage)
	return nil
}

func (b *ImageBuilder) builderJob(namespace string) BuildJob {
	return BuildJob{
		NamePrefix: builderJobPrefix,
		Namespace:  namespace,
		Image:      builderImage,
		Args: []string{
			"--cache=true",
			"--dockerfile=" + archiveDockerfileName,
			"--context=" + b.staging.URL(b.tarballName),
			"--destination=" + b.targetImage,
		},
		Env: map[string]string{
			credentialEnvVar: credentialMountPath + "/" + credentialFileName,
		},
		SecretName:     credentialSecretName,
		SecretMount:    credentialMountPath,
		RestartPolicy:  "Never",
		ServiceAccount: "default",
	}
}
