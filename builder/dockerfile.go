package builder

import (
	"fmt"
	"io"
	"os"

	"github.com/kilnworks/kiln-go/pyfunc"
)

// generateDockerfile emits the flat single-stage recipe the remote builder
// consumes: base image, runtime bootstrap, optional dependency install,
// entrypoint copy, and the unbuffered interpreter entrypoint. No layer
// caching or multi-stage tricks; the remote builder caches on its own.
func generateDockerfile(w io.Writer, baseImage, entrypointName string, runtime pyfunc.Runtime, requirementsName string) error {
	if !runtime.Supported() {
		return fmt.Errorf("%w: runtime %q, must be python2 or python3", ErrInvalidArgument, runtime)
	}

	if _, err := fmt.Fprintf(w, "FROM %s\n", baseImage); err != nil {
		return err
	}
	bootstrap := "RUN apt-get update -y && apt-get install --no-install-recommends -y -q python python-pip python-setuptools\n"
	if runtime == pyfunc.Python3 {
		bootstrap = "RUN apt-get update -y && apt-get install --no-install-recommends -y -q python3 python3-pip python3-setuptools\n"
	}
	if _, err := io.WriteString(w, bootstrap); err != nil {
		return err
	}
	if requirementsName != "" {
		if _, err := fmt.Fprintf(w, "ADD %s /ml/requirements.txt\n", requirementsName); err != nil {
			return err
		}
		install := "RUN pip install -r /ml/requirements.txt\n"
		if runtime == pyfunc.Python3 {
			install = "RUN pip3 install -r /ml/requirements.txt\n"
		}
		if _, err := io.WriteString(w, install); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "ADD %s /ml/main.py\n", entrypointName); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "ENTRYPOINT [%q, \"-u\", \"/ml/main.py\"]", runtime.Interpreter())
	return err
}

// writeDockerfile renders the recipe to path.
func writeDockerfile(path, baseImage, entrypointName string, runtime pyfunc.Runtime, requirementsName string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := generateDockerfile(f, baseImage, entrypointName, runtime, requirementsName); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
