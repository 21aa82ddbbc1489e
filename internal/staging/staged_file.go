// Package staging tracks discovered media files and dispatches them to import.
package staging

import (
	"errors"
	"time"

	"github.com/slipstream/mediascan/internal/status"
)

var (
	ErrStagedFileNotFound = errors.New("staged file not found")
	ErrInvalidTransition  = errors.New("invalid staged file status transition")
)

// StagedFile is a file discovered on disk awaiting import.
type StagedFile struct {
	ID         int64            `json:"id"`
	MediaType  status.MediaType `json:"mediaType"`
	Status     status.Status    `json:"status"`
	Path       string           `json:"path"`
	Size       int64            `json:"size"`
	ModifiedAt *time.Time       `json:"modifiedAt,omitempty"`
	Attempts   int              `json:"attempts"`
	LastError  string           `json:"lastError,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// CreateInput describes a newly discovered file.
type CreateInput struct {
	Path       string
	MediaType  status.MediaType
	Size       int64
	ModifiedAt *time.Time
}

// TrackedFile is the minimal view discovery needs to detect vanished files.
type TrackedFile struct {
	ID     int64
	Path   string
	Status status.Status
}
