package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// SupportedMajor is the backend API major version this console speaks.
const SupportedMajor = "v1"

// ErrIncompatibleBackend is returned when the backend major version differs
// from SupportedMajor.
var ErrIncompatibleBackend = errors.New("incompatible backend version")

type versionResponse struct {
	Version string `json:"version"`
}

// Version returns the backend version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out versionResponse
	if err := c.get(ctx, "/api/version", &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// CheckCompatibility verifies that version shares SupportedMajor. Versions
// may omit the leading "v".
func CheckCompatibility(version string) error {
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("backend version %q is not a semantic version", version)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: backend %s, console supports %s.x", ErrIncompatibleBackend, v, SupportedMajor)
	}
	return nil
}
