package dto

import (
	"io"
	"time"

	"fieldserve_backend/internal/models"
)

// UploadInput carries one incoming file. Reader is consumed exactly once.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AttachmentView is what callers see: a metadata row joined with its
// freshly resolved public URL. URL is derived per read and must not be
// stored anywhere.
type AttachmentView struct {
	ID           string            `json:"id,omitempty"`
	OwnerType    string            `json:"owner_type"`
	OwnerID      string            `json:"owner_id"`
	StorageKey   string            `json:"storage_key"`
	DisplayName  string            `json:"display_name"`
	MediaClass   models.MediaClass `json:"media_class"`
	MimeType     string            `json:"mime_type,omitempty"`
	Size         int64             `json:"size"`
	UploadedByID string            `json:"uploaded_by_id,omitempty"`
	UploadedAt   time.Time         `json:"uploaded_at"`
	URL          string            `json:"url"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
}
