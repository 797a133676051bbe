package repository

import (
	"kegiatan-backend/app/model"

	"gorm.io/gorm"
)

// UserAdminRepository: khusus untuk fitur manajemen akun oleh admin.
type UserAdminRepository interface {
	CreateUser(user *model.User) error
	UpdateUser(user *model.User) error
	FindAllUsers() ([]model.User, error)
	FindUserByID(id string) (*model.User, error)
	SoftDeleteUser(id string) error

	// SetKompetensi mengganti seluruh kompetensi user (replace association).
	SetKompetensi(userID string, kompetensiIDs []string) error
}

type userAdminRepository struct {
	db *gorm.DB
}

func NewUserAdminRepository(db *gorm.DB) UserAdminRepository {
	return &userAdminRepository{db}
}

// CreateUser → admin membuat akun baru.
// Duplikat email/NIDN muncul sebagai ConstraintViolation unique.
func (r *userAdminRepository) CreateUser(user *model.User) error {
	return translateError(r.db.Create(user).Error)
}

// UpdateUser → admin edit data user.
func (r *userAdminRepository) UpdateUser(user *model.User) error {
	return translateError(r.db.Save(user).Error)
}

// FindAllUsers → list semua user aktif (soft-deleted tersaring otomatis).
func (r *userAdminRepository) FindAllUsers() ([]model.User, error) {
	var users []model.User
	err := r.db.Preload("Kompetensi").Order("nama ASC").Find(&users).Error
	return users, translateError(err)
}

// FindUserByID → ambil detail user.
func (r *userAdminRepository) FindUserByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Kompetensi").First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// SoftDeleteUser → tandai user terhapus (deleted_at terisi, data tetap untuk audit).
func (r *userAdminRepository) SoftDeleteUser(id string) error {
	res := r.db.Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetKompetensi mengganti isi junction user_kompetensi dengan daftar baru.
func (r *userAdminRepository) SetKompetensi(userID string, kompetensiIDs []string) error {
	user := model.User{ID: userID}
	kompetensi := make([]model.Kompetensi, 0, len(kompetensiIDs))
	for _, id := range kompetensiIDs {
		kompetensi = append(kompetensi, model.Kompetensi{ID: id})
	}
	return translateError(r.db.Model(&user).Association("Kompetensi").Replace(kompetensi))
}
