package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	hash1 := computeHash([]byte("test content"))
	hash2 := computeHash([]byte("test content"))
	hash3 := computeHash([]byte("different content"))

	assert.Equal(t, hash1, hash2, "Same content should produce same hash")
	assert.NotEqual(t, hash1, hash3, "Different content should produce different hash")
	assert.Len(t, hash1, 64, "SHA256 hex should be 64 characters")
}

func TestNewMetadata(t *testing.T) {
	data := []byte("%PDF-1.4 fake")
	metadata := NewMetadata("cv.pdf", data)

	assert.Equal(t, "cv.pdf", metadata.Name)
	assert.Equal(t, FormatPDF, metadata.Format)
	assert.Equal(t, len(data), metadata.Bytes)
	assert.Equal(t, computeHash(data), metadata.Hash)

	ts, err := time.Parse(time.RFC3339, metadata.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
