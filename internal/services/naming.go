package services

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage keys are `{namespace}/{ownerId}/{randomId}-{originalName}`. The
// random prefix is the sole collision-avoidance mechanism and also defuses
// user-supplied names; sanitizeFileName stops path traversal.

func makeStorageKey(namespace, ownerID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s-%s", namespace, ownerID, uuid.NewString(), sanitizeFileName(fileName))
}

func fixedStorageKey(namespace, ownerID, fixedName string) string {
	return fmt.Sprintf("%s/%s/%s", namespace, ownerID, fixedName)
}

func ownerPrefix(namespace, ownerID string) string {
	return fmt.Sprintf("%s/%s/", namespace, ownerID)
}

// displayNameFromKey recovers the original file name by dropping the path
// and stripping the random prefix. Keys without a recognizable prefix pass
// through unchanged.
func displayNameFromKey(key string) string {
	base := path.Base(key)

	if idx := strings.Index(base, "-"); idx > 0 {
		// prefix is a UUID: 36 chars followed by the joining dash
		if len(base) > 37 {
			if _, err := uuid.Parse(base[:36]); err == nil && base[36] == '-' {
				return base[37:]
			}
		}
	}
	return base
}

// sanitizeFileName reduces a user-supplied name to its base component and
// strips characters that are unsafe in storage keys.
func sanitizeFileName(name string) string {
	base := filepath.Base(filepath.Clean(name))
	base = strings.ReplaceAll(base, "\\", "_")
	base = strings.ReplaceAll(base, "/", "_")
	if base == "." || base == ".." || base == "" {
		return "file"
	}
	return base
}

// thumbnailKey derives where an image attachment's thumbnail lives.
func thumbnailKey(storageKey string) string {
	ext := path.Ext(storageKey)
	return strings.TrimSuffix(storageKey, ext) + "_thumb" + ext
}
