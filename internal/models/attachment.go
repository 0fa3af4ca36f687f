package models

import (
	"path/filepath"
	"strings"

	"gorm.io/datatypes"
)

// MediaClass is the coarse content category used to pick a preview strategy.
type MediaClass string

const (
	MediaClassImage    MediaClass = "image"
	MediaClassDocument MediaClass = "document"
	MediaClassOther    MediaClass = "other"
)

// Attachment is one metadata row per stored blob. StorageKey is the path in
// the object store; DisplayName is the user's original file name. The public
// URL is derived from StorageKey on every read and never persisted.
type Attachment struct {
	BaseModel
	OwnerType    string         `gorm:"type:varchar(50);not null;index:idx_attachments_owner,priority:1" json:"owner_type"`
	OwnerID      string         `gorm:"type:uuid;not null;index:idx_attachments_owner,priority:2" json:"owner_id"`
	StorageKey   string         `gorm:"type:text;not null;uniqueIndex" json:"storage_key"`
	DisplayName  string         `gorm:"type:varchar(255);not null" json:"display_name"`
	MimeType     string         `gorm:"type:varchar(100)" json:"mime_type"`
	Size         int64          `json:"size"`
	UploadedByID string         `gorm:"type:uuid;not null;index" json:"uploaded_by_id"`
	Extra        datatypes.JSON `gorm:"type:jsonb" json:"extra,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// MediaClass classifies from the persisted MIME type when present, falling
// back to extension matching for rows that predate MIME capture.
func (a *Attachment) MediaClass() MediaClass {
	if a.MimeType != "" {
		return ClassifyMime(a.MimeType)
	}
	return ClassifyFilename(a.DisplayName)
}

func ClassifyMime(mimeType string) MediaClass {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaClassImage
	case mimeType == "application/pdf":
		return MediaClassDocument
	}
	return MediaClassOther
}

// ClassifyFilename is the read-time heuristic: case-insensitive extension
// matching. A mislabeled extension misclassifies, which is accepted.
func ClassifyFilename(name string) MediaClass {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "jpg", "jpeg", "png", "gif":
		return MediaClassImage
	case "pdf":
		return MediaClassDocument
	}
	return MediaClassOther
}
