package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilnworks/kiln-go/builder"
	"github.com/kilnworks/kiln-go/pyfunc"
)

var buildComponentCmd = &cobra.Command{
	Use:   "build-component",
	Short: "Build a component image from a function spec",
	Long:  "Reads a YAML function spec, synthesizes the entrypoint program, builds and pushes the component image, and emits the component descriptor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return buildComponent(cmd)
	},
}

func registerBuildComponentCommand(root *cobra.Command) {
	root.AddCommand(buildComponentCmd)

	buildComponentCmd.Flags().StringVarP(&functionFile, "function", "f", "", "Function spec file path (YAML)")
	buildComponentCmd.Flags().StringVarP(&targetImage, "target-image", "t", "", "Image reference the built image is pushed to")
	buildComponentCmd.Flags().StringVar(&baseImage, "base-image", "", "Base image (defaults to the spec's baseImage)")
	buildComponentCmd.Flags().StringVar(&stagingPath, "staging", "", "Object-storage staging location (s3://bucket[/prefix])")
	buildComponentCmd.Flags().StringVar(&namespace, "namespace", builder.DefaultNamespace, "Namespace the builder job runs in")
	buildComponentCmd.Flags().StringVar(&buildTimeout, "timeout", "", "Build timeout (e.g. 10m)")
	buildComponentCmd.Flags().StringVarP(&componentFile, "component-out", "o", "", "Where to write the component descriptor YAML")
	buildComponentCmd.Flags().BoolVar(&skipBuild, "no-build", false, "Emit the descriptor without building the image")
	buildComponentCmd.Flags().BoolVar(&python2, "python2", false, "Target the Python 2 runtime")

	buildComponentCmd.MarkFlagRequired("function")
	buildComponentCmd.MarkFlagRequired("target-image")
}

func buildComponent(cmd *cobra.Command) error {
	fn, dependencies, err := loadFunctionSpec(functionFile)
	if err != nil {
		return err
	}

	opts := builder.Options{
		TargetImage:   targetImage,
		BaseImage:     baseImage,
		Dependencies:  dependencies,
		StagingPath:   stagingPath,
		SkipBuild:     skipBuild,
		Namespace:     namespace,
		ComponentFile: componentFile,
		Runtime:       pyfunc.Python3,
	}
	if python2 {
		opts.Runtime = pyfunc.Python2
	}
	if buildTimeout != "" {
		timeout, err := time.ParseDuration(buildTimeout)
		if err != nil {
			return fmt.Errorf("%w: timeout %q: %v", builder.ErrInvalidArgument, buildTimeout, err)
		}
		opts.Timeout = timeout
	}

	var store builder.ObjectStore
	var jobs builder.JobRunner
	if !skipBuild {
		store, jobs, err = newCollaborators(cmd.Context())
		if err != nil {
			return err
		}
	}

	factory, err := builder.BuildPythonComponent(cmd.Context(), fn, opts, store, jobs, slog.Default())
	if err != nil {
		return err
	}

	spec := factory.Spec()
	fmt.Printf("✓ Component %q ready (image %s)\n", spec.Name, spec.Implementation.Container.Image)
	if componentFile != "" {
		fmt.Printf("✓ Descriptor written to %s\n", componentFile)
	}
	return nil
}
