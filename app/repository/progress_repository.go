package repository

import (
	"context"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository menangani catatan progress agenda + link lampirannya.
type ProgressRepository interface {
	Create(ctx context.Context, progress *model.Progress) error
	FindByID(ctx context.Context, id string) (*model.Progress, error)
	FindByAgenda(ctx context.Context, agendaID string) ([]model.Progress, error)

	// LinkAttachments me-link progress ke attachment yang sudah ter-ingest.
	// Insert-or-ignore: submit ulang file yang sama ke progress yang sama
	// tidak menduplikasi junction.
	LinkAttachments(ctx context.Context, progressID string, attachmentIDs []string) error

	// Delete melakukan soft-delete progress dan hard-delete junction lampirannya.
	Delete(ctx context.Context, id string) error
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository membuat instance repository progress.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, progress *model.Progress) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(progress).Error)
}

func (r *progressRepository) FindByID(ctx context.Context, id string) (*model.Progress, error) {
	var progress model.Progress
	err := r.db.WithContext(ctx).
		Preload("Attachment").
		First(&progress, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &progress, nil
}

func (r *progressRepository) FindByAgenda(ctx context.Context, agendaID string) ([]model.Progress, error) {
	var daftar []model.Progress
	err := r.db.WithContext(ctx).
		Preload("Attachment").
		Where("agenda_id = ?", agendaID).
		Order("created_at ASC").
		Find(&daftar).Error
	return daftar, translateError(err)
}

func (r *progressRepository) LinkAttachments(ctx context.Context, progressID string, attachmentIDs []string) error {
	if len(attachmentIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(attachmentIDs))
	for _, aid := range attachmentIDs {
		rows = append(rows, map[string]interface{}{
			"progress_id":   progressID,
			"attachment_id": aid,
		})
	}
	err := r.db.WithContext(ctx).Table("progress_attachments").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
	return translateError(err)
}

func (r *progressRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM progress_attachments WHERE progress_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Progress{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err)
}
