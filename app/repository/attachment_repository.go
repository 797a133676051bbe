package repository

import (
	"context"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
)

// AttachmentRepository menangani baris attachment hasil ingest content-addressed.
// Hash SHA-256 unik global adalah kunci dedup-nya.
type AttachmentRepository interface {
	// FindByHash mengembalikan attachment dengan hash tersebut, atau ErrNotFound.
	FindByHash(ctx context.Context, hash string) (*model.Attachment, error)

	// Create menyimpan attachment baru. Kalau hash sudah ada (race dua upload
	// identik), error-nya ConstraintViolation unique pada idx_attachment_hash:
	// pemanggil wajib fallback membaca ulang baris pemenang.
	Create(ctx context.Context, attachment *model.Attachment) error

	FindByID(ctx context.Context, id string) (*model.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository membuat instance repository attachment.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) FindByHash(ctx context.Context, hash string) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, "hash = ?", hash).Error; err != nil {
		return nil, translateError(err)
	}
	return &attachment, nil
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	return translateError(r.db.WithContext(ctx).Create(attachment).Error)
}

func (r *attachmentRepository) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &attachment, nil
}
