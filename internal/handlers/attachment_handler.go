package handlers

import (
	"net/http"

	"fieldserve_backend/internal/middleware"
	"fieldserve_backend/internal/services"
	"fieldserve_backend/internal/services/dto"
	"fieldserve_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	*BaseHandler
	attachments services.AttachmentService
}

func NewAttachmentHandler(base *BaseHandler, attachments services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		BaseHandler: base,
		attachments: attachments,
	}
}

func (h *AttachmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	owners := r.Group("/owners/:ownerKind/:ownerId")
	owners.Use(middleware.AuthMiddleware())
	{
		owners.POST("/attachments", h.Upload)
		owners.GET("/attachments", h.List)
		owners.GET("/attachments/count", h.Count)

		// Single-slot kinds have no metadata row and therefore no id;
		// they delete at the collection path.
		owners.DELETE("/attachments", h.Delete)
		owners.DELETE("/attachments/:attachmentId", h.Delete)
	}
}

// resolveKind maps the route segment to a registered owner kind.
func (h *AttachmentHandler) resolveKind(c *gin.Context) (services.OwnerKind, bool) {
	name := c.Param("ownerKind")
	kind, ok := services.OwnerKindByName(name)
	if !ok {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown attachment owner kind: "+name))
		return services.OwnerKind{}, false
	}
	return kind, true
}

// Upload stores one file for the owner. The blob is written first; the
// metadata row follows once the write is confirmed.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	kind, ok := h.resolveKind(c)
	if !ok {
		return
	}
	ownerID := c.Param("ownerId")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing 'file' form field: "+err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	view, err := h.attachments.Create(c.Request.Context(), kind, ownerID, userID, dto.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *AttachmentHandler) List(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	kind, ok := h.resolveKind(c)
	if !ok {
		return
	}

	views, err := h.attachments.List(c.Request.Context(), kind, c.Param("ownerId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachments": views, "count": len(views)})
}

func (h *AttachmentHandler) Count(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	kind, ok := h.resolveKind(c)
	if !ok {
		return
	}

	count, err := h.attachments.Count(c.Request.Context(), kind, c.Param("ownerId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Delete removes the metadata row first, then best-effort deletes the
// blob. The storage_key query parameter names the blob to clean up.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	kind, ok := h.resolveKind(c)
	if !ok {
		return
	}

	attachmentID := c.Param("attachmentId")
	storageKey := c.Query("storage_key")

	if !kind.SingleSlot && attachmentID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing attachment id"))
		return
	}

	err := h.attachments.Delete(c.Request.Context(), kind, attachmentID, storageKey, c.Param("ownerId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
