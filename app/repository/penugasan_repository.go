package repository

import (
	"context"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ukuran batch insert junction user_to_kegiatan. Membatasi panjang statement
// dan durasi lock, bukan untuk correctness.
const ukuranBatchPenugasan = 10

// PenugasanRepository menangani junction user<->kegiatan (sumber otorisasi
// per-kegiatan) beserta master jabatan.
type PenugasanRepository interface {
	// FindAnggota mengambil baris unik (kegiatan, user) + jabatannya.
	// Mengembalikan ErrNotFound bila user bukan anggota kegiatan.
	FindAnggota(ctx context.Context, kegiatanID, userID string) (*model.UserToKegiatan, error)

	FindAnggotaByKegiatan(ctx context.Context, kegiatanID string) ([]model.UserToKegiatan, error)

	// UpsertBatch menyimpan penugasan per batch; pasangan (user, kegiatan)
	// yang sudah ada di-update jabatannya, bukan error.
	UpsertBatch(ctx context.Context, rows []model.UserToKegiatan) error

	Unassign(ctx context.Context, kegiatanID, userID string) error

	FindJabatanByID(ctx context.Context, id string) (*model.JabatanAnggota, error)
}

type penugasanRepository struct {
	db *gorm.DB
}

// NewPenugasanRepository membuat instance repository penugasan.
func NewPenugasanRepository(db *gorm.DB) PenugasanRepository {
	return &penugasanRepository{db: db}
}

func (r *penugasanRepository) FindAnggota(ctx context.Context, kegiatanID, userID string) (*model.UserToKegiatan, error) {
	var anggota model.UserToKegiatan
	err := r.db.WithContext(ctx).
		Preload("Jabatan").
		Where("kegiatan_id = ? AND user_id = ?", kegiatanID, userID).
		First(&anggota).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &anggota, nil
}

func (r *penugasanRepository) FindAnggotaByKegiatan(ctx context.Context, kegiatanID string) ([]model.UserToKegiatan, error) {
	var daftar []model.UserToKegiatan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Jabatan").
		Where("kegiatan_id = ?", kegiatanID).
		Find(&daftar).Error
	return daftar, translateError(err)
}

func (r *penugasanRepository) UpsertBatch(ctx context.Context, rows []model.UserToKegiatan) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kegiatan_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"jabatan_id", "updated_at"}),
		}).
		CreateInBatches(rows, ukuranBatchPenugasan).Error
	return translateError(err)
}

func (r *penugasanRepository) Unassign(ctx context.Context, kegiatanID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("kegiatan_id = ? AND user_id = ?", kegiatanID, userID).
		Delete(&model.UserToKegiatan{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *penugasanRepository) FindJabatanByID(ctx context.Context, id string) (*model.JabatanAnggota, error) {
	var jabatan model.JabatanAnggota
	if err := r.db.WithContext(ctx).First(&jabatan, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &jabatan, nil
}
