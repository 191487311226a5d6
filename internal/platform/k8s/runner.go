package k8s

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/kilnworks/kiln-go/builder"
)

const credentialVolumeName = "build-credentials"

// BuilderJobRunner runs builder jobs on the cluster: submit, block until
// the job concludes or the timeout elapses, then delete the finished job
// on a best-effort basis.
type BuilderJobRunner struct {
	client       *Client
	pollInterval time.Duration
}

func NewBuilderJobRunner(client *Client, pollInterval time.Duration) (*BuilderJobRunner, error) {
	if client == nil {
		return nil, errors.New("k8s client is required")
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &BuilderJobRunner{client: client, pollInterval: pollInterval}, nil
}

func (r *BuilderJobRunner) RunJob(ctx context.Context, job builder.BuildJob, timeout time.Duration) error {
	created, err := r.client.CreateJob(ctx, job.Namespace, renderJob(job))
	if err != nil {
		return err
	}

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	waitErr := r.client.WaitForJob(waitCtx, job.Namespace, created.Metadata.Name, r.pollInterval)

	// Finished or abandoned either way; leave no job behind.
	_ = r.client.DeleteJob(context.WithoutCancel(ctx), job.Namespace, created.Metadata.Name)

	return waitErr
}

// renderJob translates the neutral build-job descriptor into a batch/v1 Job.
func renderJob(job builder.BuildJob) Job {
	backoff := int32(0)

	container := Container{
		Name:  "builder",
		Image: job.Image,
		Args:  job.Args,
	}
	keys := make([]string, 0, len(job.Env))
	for name := range job.Env {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		container.Env = append(container.Env, EnvVar{Name: name, Value: job.Env[name]})
	}

	podSpec := PodSpec{
		RestartPolicy:      job.RestartPolicy,
		ServiceAccountName: job.ServiceAccount,
		Containers:         []Container{container},
	}
	if job.SecretName != "" {
		podSpec.Containers[0].VolumeMounts = []VolumeMount{
			{Name: credentialVolumeName, MountPath: job.SecretMount, ReadOnly: true},
		}
		podSpec.Volumes = []Volume{
			{Name: credentialVolumeName, Secret: &SecretVolumeSource{SecretName: job.SecretName}},
		}
	}

	return Job{
		Metadata: ObjectMeta{
			GenerateName: job.NamePrefix,
			Namespace:    job.Namespace,
		},
		Spec: JobSpec{
			BackoffLimit: &backoff,
			Template: PodTemplateSpec{
				Spec: podSpec,
			},
		},
	}
}
