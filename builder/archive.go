package builder

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Fixed in-archive names the remote builder expects.
const (
	archiveDockerfileName   = "dockerfile"
	archiveProgramName      = "main.py"
	archiveRequirementsName = "requirements.txt"
)

const archiveSuffix = ".tar.gz"

// archiveFiles writes a deterministic tar.gz at tarballPath containing each
// source file under its given archive name. Headers carry fixed modes and a
// zero timestamp so packaging the same context twice is byte-identical.
func archiveFiles(tarballPath string, files map[string]string) error {
	if !strings.HasSuffix(tarballPath, archiveSuffix) {
		return fmt.Errorf("%w: archive path must end with %s, got %q", ErrInvalidArgument, archiveSuffix, tarballPath)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	out, err := os.Create(tarballPath)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	write := func() error {
		for _, name := range names {
			src, err := os.Open(files[name])
			if err != nil {
				return err
			}
			info, err := src.Stat()
			if err != nil {
				src.Close()
				return err
			}
			hdr := &tar.Header{
				Name:     name,
				Mode:     0o644,
				Size:     info.Size(),
				Typeflag: tar.TypeReg,
			}
			if err := tw.WriteHeader(hdr); err != nil {
				src.Close()
				return err
			}
			if _, err := io.Copy(tw, src); err != nil {
				src.Close()
				return err
			}
			src.Close()
		}
		return nil
	}

	if err := write(); err != nil {
		tw.Close()
		gz.Close()
		out.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		gz.Close()
		out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// prepareBuildFiles archives the build context under the fixed names the
// remote builder consumes. The Dockerfile is always included; the program
// and requirements files only when supplied.
func prepareBuildFiles(tarballPath, dockerfilePath, programPath, requirementsPath string) error {
	files := map[string]string{archiveDockerfileName: dockerfilePath}
	if programPath != "" {
		files[archiveProgramName] = programPath
	}
	if requirementsPath != "" {
		files[archiveRequirementsName] = requirementsPath
	}
	return archiveFiles(tarballPath, files)
}
