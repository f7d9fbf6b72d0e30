package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "resume.pdf"},
		{"My Resume (final).pdf", "My_Resume_final_.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\cv.pdf`, "cv.pdf"},
		{"..", "file"},
		{"", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestUserDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user-1", "user-1"},
		{"alice_2", "alice_2"},
		{"alice!", "~616c69636521"},
		{"Alice", "~416c696365"},
		{"..", "~2e2e"},
		{"", "~"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, UserDir(tt.in))
		})
	}
}

func TestLocalStore_DistinctUsersNeverShareFiles(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	ids := []string{"alice!", "alice?", "alice", "Alice", "~616c69636521"}
	paths := make(map[string]string, len(ids))
	for _, id := range ids {
		path, err := s.Save(ctx, id, types.AssetResume, "cv.txt", []byte(id+" resume"))
		require.NoError(t, err)
		for other, otherPath := range paths {
			assert.NotEqual(t, otherPath, path, "%q and %q share a file", id, other)
		}
		paths[id] = path
	}

	for id, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, id+" resume", string(data))
	}
}

func TestLocalStore_Save(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root)
	ctx := context.Background()

	path, err := s.Save(ctx, "user-1", types.AssetResume, "cv.pdf", []byte("%PDF-1.4 data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "user-1", "resume_cv.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 data", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "user-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocalStore_SaveReplaces(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	_, err := s.Save(ctx, "u", types.AssetExperience, "notes.txt", []byte("old"))
	require.NoError(t, err)
	path, err := s.Save(ctx, "u", types.AssetExperience, "notes.txt", []byte("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestLocalStore_CancelledContext(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "u", types.AssetResume, "cv.pdf", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalStore_DefaultDir(t *testing.T) {
	assert.Equal(t, DefaultDir, NewLocalStore("").Root())
}
