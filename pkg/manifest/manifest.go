// Package manifest builds and persists the build_info.json record that
// gets embedded into the device's filesystem image.
package manifest

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// BuildInfo describes the revision and content-hash state of a build.
// Fields are declared in json-key order so the serialized object always
// has sorted keys.
type BuildInfo struct {
	BuiltAtUtc      string `json:"builtAtUtc"`
	Dirty           bool   `json:"dirty"`
	FsContentSha256 string `json:"fsContentSha256"`
	GitCommit       string `json:"gitCommit"`
	GitDescribe     string `json:"gitDescribe"`
}

// SameSource reports whether every field except the timestamp matches
// prev. When it does, the previous BuiltAtUtc is kept verbatim so no-op
// rebuilds produce a byte-identical manifest.
func (b BuildInfo) SameSource(prev BuildInfo) bool {
	return b.GitCommit == prev.GitCommit &&
		b.GitDescribe == prev.GitDescribe &&
		b.Dirty == prev.Dirty &&
		b.FsContentSha256 == prev.FsContentSha256
}

// Load parses a previously written manifest. Callers treat any error as
// "no usable previous manifest".
func Load(path string) (*BuildInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var info BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "parsing previous manifest")
	}

	return &info, nil
}

// Encode renders the manifest as pretty-printed JSON with a trailing
// newline.
func Encode(info BuildInfo) ([]byte, error) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}

	return append(data, '\n'), nil
}

// WriteIfChanged writes data to path unless the file already holds
// exactly those bytes. An unchanged manifest keeps its mtime, which the
// downstream filesystem-image step uses to skip repacking.
func WriteIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, errors.Wrap(err, "writing manifest")
	}

	return true, nil
}
