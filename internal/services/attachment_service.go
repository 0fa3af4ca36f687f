package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"fieldserve_backend/internal/cache"
	"fieldserve_backend/internal/imageprocessor"
	"fieldserve_backend/internal/logger"
	"fieldserve_backend/internal/models"
	"fieldserve_backend/internal/repositories"
	"fieldserve_backend/internal/services/dto"
	"fieldserve_backend/internal/storage"
	"fieldserve_backend/pkg/apperrors"
)

// AttachmentService orchestrates attachment create/list/delete across the
// object store and the metadata store. The two stores share no transaction;
// consistency is best-effort and deliberately asymmetric:
//
//   - Create writes blob first, metadata second, and compensates a failed
//     metadata write with a best-effort blob delete. Worst case is an
//     orphaned blob, which is invisible to users.
//   - Delete removes metadata first and treats it as authoritative; a
//     failed blob delete afterwards is logged and still reported as
//     success. A metadata row pointing at nothing must never survive.
//
// The acting user is passed explicitly into every call (uploader
// attribution, delete authorization) so the service is testable without
// ambient session state.
type AttachmentService interface {
	Create(ctx context.Context, kind OwnerKind, ownerID, actorID string, upload dto.UploadInput) (*dto.AttachmentView, error)
	List(ctx context.Context, kind OwnerKind, ownerID string) ([]dto.AttachmentView, error)
	Count(ctx context.Context, kind OwnerKind, ownerID string) (int64, error)
	Delete(ctx context.Context, kind OwnerKind, attachmentID, storageKey, ownerID, actorID string) error
}

// AttachmentConfig tunes upload validation and optional processing.
type AttachmentConfig struct {
	MaxFileSize int64
	Thumbnails  bool
}

type attachmentService struct {
	repo      repositories.AttachmentRepository
	storage   storage.ObjectStorage
	cache     *cache.AttachmentCache
	processor *imageprocessor.Processor
	config    AttachmentConfig
}

func NewAttachmentService(
	repo repositories.AttachmentRepository,
	store storage.ObjectStorage,
	attachmentCache *cache.AttachmentCache,
	processor *imageprocessor.Processor,
	config AttachmentConfig,
) AttachmentService {
	if config.MaxFileSize == 0 {
		config.MaxFileSize = 20 * 1024 * 1024
	}
	return &attachmentService{
		repo:      repo,
		storage:   store,
		cache:     attachmentCache,
		processor: processor,
		config:    config,
	}
}

func (s *attachmentService) Create(ctx context.Context, kind OwnerKind, ownerID, actorID string, upload dto.UploadInput) (*dto.AttachmentView, error) {
	if upload.Size <= 0 {
		return nil, apperrors.ErrEmptyFile
	}
	if upload.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	if kind.SingleSlot {
		return s.createSingleSlot(ctx, kind, ownerID, upload)
	}

	storageKey := makeStorageKey(kind.Namespace, ownerID, upload.FileName)
	displayName := displayNameFromKey(storageKey)

	mimeType := upload.ContentType
	mediaClass := models.ClassifyMime(mimeType)
	if mimeType == "" {
		mediaClass = models.ClassifyFilename(displayName)
	}

	// Images are buffered so dimensions can be captured and a thumbnail
	// rendered without a second fetch; everything else streams through.
	var imageData []byte
	var extra []byte
	body := upload.Reader
	if mediaClass == models.MediaClassImage {
		data, err := io.ReadAll(upload.Reader)
		if err != nil {
			return nil, apperrors.ErrUploadFailed(err)
		}
		imageData = data
		body = bytes.NewReader(data)

		if w, h, err := imageprocessor.GetImageDimensions(bytes.NewReader(data)); err == nil {
			extra, _ = json.Marshal(map[string]int{"width": w, "height": h})
		}
	}

	// Step 1: blob. Non-overwrite mode; an occupied key is rejected, the
	// random prefix makes that effectively unreachable.
	if err := s.storage.Put(ctx, storageKey, body, upload.Size, mimeType, false); err != nil {
		return nil, apperrors.ErrUploadFailed(err)
	}

	// Step 2: metadata. On failure, compensate with a best-effort blob
	// delete; its own failure is logged and the original error returned.
	attachment := &models.Attachment{
		OwnerType:    kind.Name,
		OwnerID:      ownerID,
		StorageKey:   storageKey,
		DisplayName:  displayName,
		MimeType:     mimeType,
		Size:         upload.Size,
		UploadedByID: actorID,
		Extra:        extra,
	}
	if err := s.repo.Insert(ctx, attachment); err != nil {
		if compErr := s.storage.Delete(ctx, storageKey); compErr != nil {
			logger.CtxError(ctx, "compensating blob delete failed, orphaned blob remains",
				"storage_key", storageKey,
				"error", compErr.Error(),
			)
		}
		return nil, apperrors.ErrMetadataWriteFailed(err)
	}

	s.cache.Invalidate(ctx, kind.Name, ownerID)

	if s.config.Thumbnails && mediaClass == models.MediaClassImage && s.processor != nil {
		go s.generateThumbnail(storageKey, imageData)
	}

	view := s.buildView(attachment)
	if view.URL == "" {
		// Resolution is a pure derivation and should not fail for a key
		// we just wrote; treat an empty URL as a resolve failure anyway.
		return nil, apperrors.ErrResolveFailed(nil)
	}
	return view, nil
}

func (s *attachmentService) createSingleSlot(ctx context.Context, kind OwnerKind, ownerID string, upload dto.UploadInput) (*dto.AttachmentView, error) {
	storageKey := fixedStorageKey(kind.Namespace, ownerID, kind.FixedFileName)

	// Overwrite mode: replacing the photo is one idempotent put, no
	// delete-then-create race.
	if err := s.storage.Put(ctx, storageKey, upload.Reader, upload.Size, upload.ContentType, true); err != nil {
		return nil, apperrors.ErrUploadFailed(err)
	}

	s.cache.Invalidate(ctx, kind.Name, ownerID)

	return &dto.AttachmentView{
		OwnerType:   kind.Name,
		OwnerID:     ownerID,
		StorageKey:  storageKey,
		DisplayName: kind.FixedFileName,
		MediaClass:  models.ClassifyFilename(kind.FixedFileName),
		MimeType:    upload.ContentType,
		Size:        upload.Size,
		URL:         s.storage.PublicURL(storageKey),
	}, nil
}

// List returns the owner's attachments newest-first, fully materialized.
// Rows whose URL cannot be resolved are hidden rather than shown broken.
// Attachment counts per owner are small; pagination is out of scope.
func (s *attachmentService) List(ctx context.Context, kind OwnerKind, ownerID string) ([]dto.AttachmentView, error) {
	if kind.SingleSlot {
		return s.listSingleSlot(ctx, kind, ownerID)
	}

	rows, err := s.repo.FindByOwner(ctx, kind.Name, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.AttachmentView, 0, len(rows))
	for i := range rows {
		view := s.buildView(&rows[i])
		if view.URL == "" {
			logger.CtxWarn(ctx, "hiding attachment with unresolvable URL",
				"attachment_id", rows[i].ID,
				"storage_key", rows[i].StorageKey,
			)
			continue
		}
		views = append(views, *view)
	}
	return views, nil
}

// listSingleSlot determines existence by listing the owner's folder. A
// direct fetch cannot distinguish "never uploaded" from a transient failure;
// the folder listing is authoritative.
func (s *attachmentService) listSingleSlot(ctx context.Context, kind OwnerKind, ownerID string) ([]dto.AttachmentView, error) {
	storageKey := fixedStorageKey(kind.Namespace, ownerID, kind.FixedFileName)

	entries, err := s.storage.List(ctx, ownerPrefix(kind.Namespace, ownerID))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, entry := range entries {
		if entry.Key != storageKey {
			continue
		}
		return []dto.AttachmentView{{
			OwnerType:   kind.Name,
			OwnerID:     ownerID,
			StorageKey:  storageKey,
			DisplayName: kind.FixedFileName,
			MediaClass:  models.ClassifyFilename(kind.FixedFileName),
			Size:        entry.Size,
			UploadedAt:  entry.LastModified,
			URL:         s.storage.PublicURL(storageKey),
		}}, nil
	}
	return []dto.AttachmentView{}, nil
}

func (s *attachmentService) Count(ctx context.Context, kind OwnerKind, ownerID string) (int64, error) {
	if kind.SingleSlot {
		views, err := s.listSingleSlot(ctx, kind, ownerID)
		if err != nil {
			return 0, err
		}
		return int64(len(views)), nil
	}

	if count, ok := s.cache.GetCount(ctx, kind.Name, ownerID); ok {
		return count, nil
	}

	count, err := s.repo.CountByOwner(ctx, kind.Name, ownerID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	s.cache.SetCount(ctx, kind.Name, ownerID, count)
	return count, nil
}

func (s *attachmentService) Delete(ctx context.Context, kind OwnerKind, attachmentID, storageKey, ownerID, actorID string) error {
	if kind.SingleSlot {
		key := fixedStorageKey(kind.Namespace, ownerID, kind.FixedFileName)
		if err := s.storage.Delete(ctx, key); err != nil {
			return apperrors.ErrObjectDeleteFailed(err)
		}
		s.cache.Invalidate(ctx, kind.Name, ownerID)
		return nil
	}

	// Step 1: metadata, scoped by the requester. Zero affected rows means
	// already deleted (or not the requester's row) and is a no-op, which
	// makes double-delete safe.
	affected, err := s.repo.DeleteByID(ctx, attachmentID, actorID)
	if err != nil {
		return apperrors.ErrMetadataDeleteFailed(err)
	}

	// Step 2: blob, best-effort. The metadata row is authoritative for
	// existence; a stray blob is an accepted, non-user-visible leak.
	if affected > 0 && storageKey != "" {
		if err := s.storage.Delete(ctx, storageKey, thumbnailKey(storageKey)); err != nil {
			logger.CtxWarn(ctx, "blob delete failed after metadata delete, stray blob remains",
				"attachment_id", attachmentID,
				"storage_key", storageKey,
				"error", err.Error(),
			)
		}
	}

	s.cache.Invalidate(ctx, kind.Name, ownerID)
	return nil
}

func (s *attachmentService) buildView(a *models.Attachment) *dto.AttachmentView {
	view := &dto.AttachmentView{
		ID:           a.ID,
		OwnerType:    a.OwnerType,
		OwnerID:      a.OwnerID,
		StorageKey:   a.StorageKey,
		DisplayName:  a.DisplayName,
		MediaClass:   a.MediaClass(),
		MimeType:     a.MimeType,
		Size:         a.Size,
		UploadedByID: a.UploadedByID,
		UploadedAt:   a.CreatedAt,
		URL:          s.storage.PublicURL(a.StorageKey),
	}
	if view.MediaClass == models.MediaClassImage && s.config.Thumbnails {
		view.ThumbnailURL = s.storage.PublicURL(thumbnailKey(a.StorageKey))
	}
	return view
}

// generateThumbnail renders and stores a downscaled variant. Purely
// best-effort: the thumbnail is a derived artifact, never authoritative,
// and its absence only means the client falls back to the original.
func (s *attachmentService) generateThumbnail(storageKey string, data []byte) {
	ctx := context.Background()

	thumb, contentType, err := s.processor.Thumbnail(bytes.NewReader(data), imageprocessor.SizeThumbnail)
	if err != nil {
		logger.Warn("thumbnail generation failed", "storage_key", storageKey, "error", err.Error())
		return
	}

	buf, err := io.ReadAll(thumb)
	if err != nil {
		logger.Warn("thumbnail encoding failed", "storage_key", storageKey, "error", err.Error())
		return
	}

	key := thumbnailKey(storageKey)
	if err := s.storage.Put(ctx, key, bytes.NewReader(buf), int64(len(buf)), contentType, true); err != nil {
		logger.Warn("thumbnail upload failed", "storage_key", key, "error", err.Error())
	}
}
