package builder

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilnworks/kiln-go/pyfunc"
)

func TestGenerateDockerfile_Python3WithRequirements(t *testing.T) {
	var b strings.Builder
	err := generateDockerfile(&b, "python:3.7", "main.py", pyfunc.Python3, "requirements.txt")
	if err != nil {
		t.Fatalf("generateDockerfile() err=%v", err)
	}
	want := "FROM python:3.7\n" +
		"RUN apt-get update -y && apt-get install --no-install-recommends -y -q python3 python3-pip python3-setuptools\n" +
		"ADD requirements.txt /ml/requirements.txt\n" +
		"RUN pip3 install -r /ml/requirements.txt\n" +
		"ADD main.py /ml/main.py\n" +
		`ENTRYPOINT ["python3", "-u", "/ml/main.py"]`
	if b.String() != want {
		t.Fatalf("dockerfile=%q, want %q", b.String(), want)
	}
}

func TestGenerateDockerfile_Python2(t *testing.T) {
	var b strings.Builder
	err := generateDockerfile(&b, "ubuntu:18.04", "main.py", pyfunc.Python2, "requirements.txt")
	if err != nil {
		t.Fatalf("generateDockerfile() err=%v", err)
	}
	got := b.String()
	for _, want := range []string{
		"RUN apt-get update -y && apt-get install --no-install-recommends -y -q python python-pip python-setuptools\n",
		"RUN pip install -r /ml/requirements.txt\n",
		`ENTRYPOINT ["python", "-u", "/ml/main.py"]`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("dockerfile missing %q:\n%s", want, got)
		}
	}
}

func TestGenerateDockerfile_NoRequirements(t *testing.T) {
	var b strings.Builder
	if err := generateDockerfile(&b, "python:3.7", "main.py", pyfunc.Python3, ""); err != nil {
		t.Fatalf("generateDockerfile() err=%v", err)
	}
	if strings.Contains(b.String(), "requirements.txt") {
		t.Fatalf("dockerfile references requirements without any:\n%s", b.String())
	}
}

func TestGenerateDockerfile_UnsupportedRuntime(t *testing.T) {
	var b strings.Builder
	err := generateDockerfile(&b, "python:3.7", "main.py", "ruby", "")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("generateDockerfile() err=%v, want ErrInvalidArgument", err)
	}
}
