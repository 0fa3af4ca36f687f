package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"fieldserve_backend/internal/storage"
	"fieldserve_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler streams blobs straight from the object store. It only gets
// mounted when the store is local; remote backends serve their own
// public URLs.
type FileHandler struct {
	*BaseHandler
	storage storage.ObjectStorage
}

func NewFileHandler(base *BaseHandler, store storage.ObjectStorage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     store,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/files/*path", h.ServeFile)
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	if key == "" || strings.Contains(key, "..") {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), key)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")

	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}
