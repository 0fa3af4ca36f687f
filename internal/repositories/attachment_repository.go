package repositories

import (
	"context"

	"fieldserve_backend/internal/models"

	"gorm.io/gorm"
)

// AttachmentRepository is the metadata-store adapter for attachments.
// Authorization for deletes is enforced here via requester scoping, not
// re-validated by the service layer.
type AttachmentRepository interface {
	Insert(ctx context.Context, attachment *models.Attachment) error
	FindByID(ctx context.Context, id string) (*models.Attachment, error)
	FindByOwner(ctx context.Context, ownerType, ownerID string) ([]models.Attachment, error)
	CountByOwner(ctx context.Context, ownerType, ownerID string) (int64, error)
	// DeleteByID removes the row only when it belongs to a blob the
	// requester uploaded (or the requester is privileged at a higher
	// layer). Returns the number of rows affected; zero is not an error,
	// which makes double-delete a no-op.
	DeleteByID(ctx context.Context, id, requesterID string) (int64, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Insert(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) FindByID(ctx context.Context, id string) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) FindByOwner(ctx context.Context, ownerType, ownerID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("created_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *attachmentRepository) CountByOwner(ctx context.Context, ownerType, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attachment{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Count(&count).Error
	return count, err
}

func (r *attachmentRepository) DeleteByID(ctx context.Context, id, requesterID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND uploaded_by_id = ?", id, requesterID).
		Delete(&models.Attachment{})
	return result.RowsAffected, result.Error
}
