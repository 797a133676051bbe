package repository

import (
	"kegiatan-backend/app/model"

	"gorm.io/gorm"
)

// UserRepository mendefinisikan kontrak operasi database untuk entity User
// yang dibutuhkan alur autentikasi (login, reset password, profil).
type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByNIDN(nidn string) (*model.User, error)
	FindByID(id string) (*model.User, error)
	UpdatePassword(id string, passwordHash string) error
	UpdateFotoProfil(id string, url string) error
}

// userRepository adalah implementasi konkret UserRepository berbasis GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository membuat instance baru userRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

// FindByEmail mencari user berdasarkan email (digunakan saat login).
// User yang sudah di-soft-delete otomatis tersaring oleh gorm.DeletedAt.
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.
		Preload("Kompetensi").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByNIDN mencari user berdasarkan NIDN.
func (r *userRepository) FindByNIDN(nidn string) (*model.User, error) {
	var user model.User
	err := r.db.
		Preload("Kompetensi").
		Where("nidn = ?", nidn).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByID mengambil user berdasarkan ID (dipakai untuk endpoint profile).
func (r *userRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.
		Preload("Kompetensi").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpdatePassword mengganti hash password user (dipakai alur reset password).
func (r *userRepository) UpdatePassword(id string, passwordHash string) error {
	res := r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFotoProfil menyimpan URL foto profil hasil ingest content-addressed.
func (r *userRepository) UpdateFotoProfil(id string, url string) error {
	res := r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("foto_profil", url)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
