package storage

import (
	"time"
)

// VaultRecord describes a known vault file
type VaultRecord struct {
	Path       string    `json:"path"`
	ID         string    `json:"id"`
	Format     string    `json:"format"`
	Iterations int       `json:"iterations,omitempty"`
	Created    time.Time `json:"created"`
	LastOpened time.Time `json:"lastOpened"`
}

// newRecord creates a record for a vault registered now
func newRecord(path, id, format string, iterations int) *VaultRecord {
	now := time.Now()
	return &VaultRecord{
		Path:       path,
		ID:         id,
		Format:     format,
		Iterations: iterations,
		Created:    now,
		LastOpened: now,
	}
}
