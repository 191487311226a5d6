package main

import "github.com/spf13/cobra"

var (
	functionFile  string
	targetImage   string
	baseImage     string
	stagingPath   string
	namespace     string
	buildTimeout  string
	componentFile string
	skipBuild     bool
	python2       bool
	dockerfile    string
)

var rootCmd = &cobra.Command{
	Use:          "kiln",
	Short:        "Container-image builder for pipeline components",
	Long:         "kiln packages a typed Python function or a Dockerfile into a build context, stages it to object storage, and drives a cluster-side builder job that pushes the resulting image",
	SilenceUsage: true,
}

func init() {
	registerBuildComponentCommand(rootCmd)
	registerBuildImageCommand(rootCmd)
}
