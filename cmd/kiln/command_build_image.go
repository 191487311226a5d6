package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilnworks/kiln-go/builder"
)

var buildImageCmd = &cobra.Command{
	Use:   "build-image",
	Short: "Build and push an image from a Dockerfile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return buildImage(cmd)
	},
}

func registerBuildImageCommand(root *cobra.Command) {
	root.AddCommand(buildImageCmd)

	buildImageCmd.Flags().StringVarP(&dockerfile, "dockerfile", "d", "", "Dockerfile path")
	buildImageCmd.Flags().StringVarP(&targetImage, "target-image", "t", "", "Image reference the built image is pushed to")
	buildImageCmd.Flags().StringVar(&stagingPath, "staging", "", "Object-storage staging location (s3://bucket[/prefix])")
	buildImageCmd.Flags().StringVar(&namespace, "namespace", builder.DefaultNamespace, "Namespace the builder job runs in")
	buildImageCmd.Flags().StringVar(&buildTimeout, "timeout", "", "Build timeout (e.g. 10m)")

	buildImageCmd.MarkFlagRequired("dockerfile")
	buildImageCmd.MarkFlagRequired("target-image")
	buildImageCmd.MarkFlagRequired("staging")
}

func buildImage(cmd *cobra.Command) error {
	var timeout time.Duration
	if buildTimeout != "" {
		parsed, err := time.ParseDuration(buildTimeout)
		if err != nil {
			return fmt.Errorf("%w: timeout %q: %v", builder.ErrInvalidArgument, buildTimeout, err)
		}
		timeout = parsed
	}

	store, jobs, err := newCollaborators(cmd.Context())
	if err != nil {
		return err
	}

	err = builder.BuildDockerImage(cmd.Context(), stagingPath, targetImage, dockerfile, timeout, namespace, store, jobs, slog.Default())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Image pushed to %s\n", targetImage)
	return nil
}
