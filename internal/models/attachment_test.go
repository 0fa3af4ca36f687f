package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MediaClassImage, ClassifyMime("image/jpeg"))
	assert.Equal(t, MediaClassImage, ClassifyMime("image/webp"))
	assert.Equal(t, MediaClassDocument, ClassifyMime("application/pdf"))
	assert.Equal(t, MediaClassOther, ClassifyMime("application/zip"))
	assert.Equal(t, MediaClassOther, ClassifyMime(""))
}

func TestClassifyFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MediaClassImage, ClassifyFilename("photo.jpg"))
	assert.Equal(t, MediaClassImage, ClassifyFilename("PHOTO.JPEG"))
	assert.Equal(t, MediaClassImage, ClassifyFilename("scan.png"))
	assert.Equal(t, MediaClassImage, ClassifyFilename("anim.gif"))
	assert.Equal(t, MediaClassDocument, ClassifyFilename("manual.pdf"))
	assert.Equal(t, MediaClassOther, ClassifyFilename("notes.txt"))
	assert.Equal(t, MediaClassOther, ClassifyFilename("noextension"))
}

func TestAttachmentMediaClass_PrefersMime(t *testing.T) {
	t.Parallel()

	// persisted MIME wins over a contradicting extension
	a := &Attachment{MimeType: "application/pdf", DisplayName: "mislabeled.jpg"}
	assert.Equal(t, MediaClassDocument, a.MediaClass())

	// rows without a stored MIME fall back to the name
	a = &Attachment{DisplayName: "photo.jpg"}
	assert.Equal(t, MediaClassImage, a.MediaClass())
}
