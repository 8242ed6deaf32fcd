// Package fshash produces a deterministic digest over a directory tree,
// used as a change-detection fingerprint for the bundled filesystem
// image content.
package fshash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// TreeSHA256 digests every regular file under root, keyed by its
// relative slash-separated path. Files are folded in lexicographic path
// order, so the result is independent of filesystem enumeration order.
// Relative paths listed in exclude are skipped. A missing root hashes
// to the empty string.
func TreeSHA256(root string, exclude ...string) (string, error) {
	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "reading data directory")
	}
	if !stat.IsDir() {
		return "", errors.Errorf("%s is not a directory", root)
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, p := range exclude {
		skip[filepath.ToSlash(p)] = struct{}{}
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)
		if _, ok := skip[rel]; ok {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "walking data directory")
	}

	sort.Strings(paths)

	tree := sha256.New()
	for _, rel := range paths {
		sum, err := fileSHA256(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}

		// NUL keeps the path unambiguous from the digest that follows.
		fmt.Fprintf(tree, "%s\x00%s\n", rel, sum)
	}

	return hex.EncodeToString(tree.Sum(nil)), nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "hashing %s", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "hashing %s", path)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
