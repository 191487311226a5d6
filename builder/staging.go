package builder

import (
	"fmt"
	"path"
	"strings"
)

const stagingScheme = "s3://"

// StagingPath locates the object-storage area where build archives are
// staged for the remote builder, e.g. "s3://kiln-staging/contexts".
type StagingPath struct {
	Bucket string
	Prefix string
}

// ParseStagingPath validates and splits a staging location. A malformed
// path is rejected here, before any remote call is attempted.
func ParseStagingPath(raw string) (StagingPath, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StagingPath{}, fmt.Errorf("%w: staging path is required", ErrInvalidArgument)
	}
	if !strings.HasPrefix(raw, stagingScheme) {
		return StagingPath{}, fmt.Errorf("%w: staging path %q must start with %s", ErrInvalidArgument, raw, stagingScheme)
	}
	rest := strings.TrimPrefix(raw, stagingScheme)
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return StagingPath{}, fmt.Errorf("%w: staging path %q has no bucket", ErrInvalidArgument, raw)
	}
	return StagingPath{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// Key returns the object key for an archive name under the staging prefix.
func (p StagingPath) Key(name string) string {
	if p.Prefix == "" {
		return name
	}
	return path.Join(p.Prefix, name)
}

// URL returns the full staged-object location the builder job reads from.
func (p StagingPath) URL(name string) string {
	return stagingScheme + path.Join(p.Bucket, p.Key(name))
}
