package repository

import (
	"context"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
)

// MasterRepository menangani master data: jenis kegiatan, jabatan anggota,
// dan kompetensi. Semuanya unik pada nama; duplikat muncul sebagai
// ConstraintViolation unique.
type MasterRepository interface {
	CreateJenisKegiatan(ctx context.Context, jenis *model.JenisKegiatan) error
	FindAllJenisKegiatan(ctx context.Context) ([]model.JenisKegiatan, error)
	DeleteJenisKegiatan(ctx context.Context, id string) error

	CreateJabatan(ctx context.Context, jabatan *model.JabatanAnggota) error
	FindAllJabatan(ctx context.Context) ([]model.JabatanAnggota, error)
	DeleteJabatan(ctx context.Context, id string) error

	CreateKompetensi(ctx context.Context, kompetensi *model.Kompetensi) error
	FindAllKompetensi(ctx context.Context) ([]model.Kompetensi, error)
	DeleteKompetensi(ctx context.Context, id string) error
}

type masterRepository struct {
	db *gorm.DB
}

// NewMasterRepository membuat instance repository master data.
func NewMasterRepository(db *gorm.DB) MasterRepository {
	return &masterRepository{db: db}
}

func (r *masterRepository) CreateJenisKegiatan(ctx context.Context, jenis *model.JenisKegiatan) error {
	return translateError(r.db.WithContext(ctx).Create(jenis).Error)
}

func (r *masterRepository) FindAllJenisKegiatan(ctx context.Context) ([]model.JenisKegiatan, error) {
	var daftar []model.JenisKegiatan
	err := r.db.WithContext(ctx).Order("nama ASC").Find(&daftar).Error
	return daftar, translateError(err)
}

func (r *masterRepository) DeleteJenisKegiatan(ctx context.Context, id string) error {
	return r.deleteByID(ctx, &model.JenisKegiatan{}, id)
}

func (r *masterRepository) CreateJabatan(ctx context.Context, jabatan *model.JabatanAnggota) error {
	return translateError(r.db.WithContext(ctx).Create(jabatan).Error)
}

func (r *masterRepository) FindAllJabatan(ctx context.Context) ([]model.JabatanAnggota, error) {
	var daftar []model.JabatanAnggota
	err := r.db.WithContext(ctx).Order("nama ASC").Find(&daftar).Error
	return daftar, translateError(err)
}

func (r *masterRepository) DeleteJabatan(ctx context.Context, id string) error {
	return r.deleteByID(ctx, &model.JabatanAnggota{}, id)
}

func (r *masterRepository) CreateKompetensi(ctx context.Context, kompetensi *model.Kompetensi) error {
	return translateError(r.db.WithContext(ctx).Create(kompetensi).Error)
}

func (r *masterRepository) FindAllKompetensi(ctx context.Context) ([]model.Kompetensi, error) {
	var daftar []model.Kompetensi
	err := r.db.WithContext(ctx).Order("nama ASC").Find(&daftar).Error
	return daftar, translateError(err)
}

func (r *masterRepository) DeleteKompetensi(ctx context.Context, id string) error {
	return r.deleteByID(ctx, &model.Kompetensi{}, id)
}

// deleteByID soft-delete generik untuk master data.
// Master yang masih direferensikan kegiatan/penugasan ditolak FK (RESTRICT)
// dan muncul sebagai ConstraintViolation foreign key.
func (r *masterRepository) deleteByID(ctx context.Context, target interface{}, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(target)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
