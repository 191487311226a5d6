package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kilnworks/kiln-go/builder"
	"github.com/kilnworks/kiln-go/internal/platform/env"
	"github.com/kilnworks/kiln-go/internal/platform/k8s"
	"github.com/kilnworks/kiln-go/internal/platform/objectstore"
)

// newCollaborators wires the object store and job runner from the
// environment. With no KILN_K8S_API_URL set the in-cluster serviceaccount
// credentials are used.
func newCollaborators(ctx context.Context) (builder.ObjectStore, builder.JobRunner, error) {
	cfg, err := objectstore.ConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}
	client, err := objectstore.NewMinIOClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("object store: %w", err)
	}
	if err := objectstore.EnsureBucket(ctx, client, cfg); err != nil {
		return nil, nil, fmt.Errorf("object store: %w", err)
	}
	store, err := objectstore.NewMinioStoreWithClient(client)
	if err != nil {
		return nil, nil, fmt.Errorf("object store: %w", err)
	}

	var k8sClient *k8s.Client
	apiURL := env.String("KILN_K8S_API_URL", "")
	if apiURL != "" {
		k8sClient, err = k8s.NewClient(apiURL, env.String("KILN_K8S_TOKEN", ""), env.String("KILN_K8S_NAMESPACE", ""))
	} else {
		k8sClient, err = k8s.NewInClusterClient()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("kubernetes client: %w", err)
	}

	pollInterval, err := env.Duration("KILN_BUILD_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, nil, err
	}
	jobs, err := k8s.NewBuilderJobRunner(k8sClient, pollInterval)
	if err != nil {
		return nil, nil, err
	}
	return store, jobs, nil
}
