package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kilnworks/kiln-go/builder"
	"github.com/kilnworks/kiln-go/internal/platform/logging"
	"github.com/kilnworks/kiln-go/pyfunc"
)

func main() {
	logging.Setup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates caller mistakes (2) from build failures (1) so
// scripts can tell a bad invocation from a broken build.
func exitCode(err error) int {
	if errors.Is(err, builder.ErrInvalidArgument) ||
		errors.Is(err, pyfunc.ErrInvalidFunction) ||
		errors.Is(err, pyfunc.ErrUnsupportedRuntime) {
		return 2
	}
	return 1
}
