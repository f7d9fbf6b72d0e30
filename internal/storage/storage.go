// Package storage keeps the raw bytes of uploaded career assets on the local filesystem.
package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// DefaultDir is the asset root used when none is configured
const DefaultDir = "assets"

// BlobStore saves raw asset bytes and returns the location they were written to.
type BlobStore interface {
	Save(ctx context.Context, userID string, kind types.AssetKind, filename string, data []byte) (string, error)
}

// LocalStore writes assets to <root>/<user dir>/<kind>_<filename>. See UserDir.
type LocalStore struct {
	root string
}

var _ BlobStore = (*LocalStore)(nil)

// NewLocalStore returns a store rooted at dir, or DefaultDir when dir is empty.
func NewLocalStore(dir string) *LocalStore {
	if dir == "" {
		dir = DefaultDir
	}
	return &LocalStore{root: dir}
}

// Root returns the directory assets are written under
func (s *LocalStore) Root() string {
	return s.root
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName reduces a user-supplied name to a single safe path component.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

var plainUserID = regexp.MustCompile(`^[a-z0-9_-]+$`)

// UserDir maps a user id to its directory name. Ids made only of lowercase
// letters, digits, '_' and '-' are used as is; any other id is hex encoded
// behind a '~' prefix, which plain ids can never contain. Distinct ids always
// map to distinct names, also on case-insensitive filesystems.
func UserDir(userID string) string {
	if plainUserID.MatchString(userID) {
		return userID
	}
	return "~" + hex.EncodeToString([]byte(userID))
}

// Save writes data and returns its path. An existing file for the same kind and
// name is replaced.
func (s *LocalStore) Save(ctx context.Context, userID string, kind types.AssetKind, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, UserDir(userID))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	path := filepath.Join(dir, string(kind)+"_"+SanitizeName(filename))
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close asset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to store asset: %w", err)
	}
	return path, nil
}
