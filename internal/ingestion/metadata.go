package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes one ingested document.
type Metadata struct {
	Name      string `json:"filename"`
	Format    Format `json:"format"`
	Bytes     int    `json:"bytes"`
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw upload
	Timestamp string `json:"timestamp"` // RFC3339 format
}

// NewMetadata creates Metadata for a raw upload with the current timestamp.
func NewMetadata(name string, data []byte) *Metadata {
	return &Metadata{
		Name:      name,
		Format:    DetectFormat(name, data),
		Bytes:     len(data),
		Hash:      computeHash(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
