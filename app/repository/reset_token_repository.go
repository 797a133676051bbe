package repository

import (
	"context"
	"time"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
)

// ResetTokenRepository menangani token reset password.
// Satu token aktif per user: request baru menghapus token lama dulu
// (delete-then-insert) dalam satu transaksi.
type ResetTokenRepository interface {
	Replace(ctx context.Context, token *model.PasswordResetToken) error

	// Consume mencari token berdasarkan hash-nya, menghapusnya, dan
	// mengembalikan userId pemiliknya. Token kedaluwarsa diperlakukan
	// sama dengan token tidak ada (ErrNotFound).
	Consume(ctx context.Context, tokenHash string) (string, error)
}

type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository membuat instance repository token reset.
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Replace(ctx context.Context, token *model.PasswordResetToken) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).
			Delete(&model.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	return translateError(err)
}

func (r *resetTokenRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token model.PasswordResetToken
		if err := tx.Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
			return err
		}
		if time.Now().After(token.ExpiresAt) {
			// Token kedaluwarsa tetap dihapus supaya tidak menumpuk.
			_ = tx.Delete(&token).Error
			return gorm.ErrRecordNotFound
		}
		if err := tx.Delete(&token).Error; err != nil {
			return err
		}
		userID = token.UserID
		return nil
	})
	if err != nil {
		return "", translateError(err)
	}
	return userID, nil
}
