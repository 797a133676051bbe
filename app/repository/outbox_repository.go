package repository

import (
	"context"
	"time"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
)

// OutboxRepository membaca/menandai intent sinkronisasi chat yang ditulis
// repository kegiatan di dalam transaksi relasionalnya.
type OutboxRepository interface {
	FindUnprocessed(ctx context.Context, limit int) ([]model.ChatOutbox, error)
	MarkProcessed(ctx context.Context, id uint) error
}

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository membuat instance repository outbox.
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) FindUnprocessed(ctx context.Context, limit int) ([]model.ChatOutbox, error) {
	var entries []model.ChatOutbox
	err := r.db.WithContext(ctx).
		Where("processed_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, translateError(err)
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uint) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.ChatOutbox{}).
		Where("id = ? AND processed_at IS NULL", id).
		Update("processed_at", now)
	if res.Error != nil {
		return translateError(res.Error)
	}
	return nil
}
