package service

import (
	"context"
	"errors"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/storage"

	"golang.org/x/crypto/bcrypt"
)

// BuatUserInput adalah data pembuatan akun oleh admin.
type BuatUserInput struct {
	NIDN     string
	Nama     string
	Email    string
	Role     string
	Password string
}

// UpdateUserInput: field nil = tidak diubah.
type UpdateUserInput struct {
	Nama  *string
	Email *string
	Role  *string
}

// AdminService: manajemen akun oleh admin.
type AdminService interface {
	CreateUser(ctx context.Context, input BuatUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*model.User, error)

	// DeleteUser men-soft-delete user dan mengembalikan snapshot sebelum hapus.
	DeleteUser(ctx context.Context, id string) (*model.User, error)

	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUserDetail(ctx context.Context, id string) (*model.User, error)

	// SetKompetensi mengganti seluruh kompetensi user.
	SetKompetensi(ctx context.Context, userID string, kompetensiIDs []string) (*model.User, error)

	// UploadFotoProfil meng-ingest foto (kategori profile, dedup hash) dan
	// menyimpan URL-nya di profil user.
	UploadFotoProfil(ctx context.Context, userID string, file FileUpload) (*model.User, error)
}

type adminService struct {
	repo          repository.UserAdminRepository
	userRepo      repository.UserRepository
	attachmentSvc AttachmentService
}

// NewAdminService membuat instance service admin.
func NewAdminService(repo repository.UserAdminRepository, userRepo repository.UserRepository, attachmentSvc AttachmentService) AdminService {
	return &adminService{repo: repo, userRepo: userRepo, attachmentSvc: attachmentSvc}
}

func (s *adminService) CreateUser(ctx context.Context, input BuatUserInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		NIDN:         input.NIDN,
		Nama:         input.Nama,
		Email:        input.Email,
		Role:         input.Role,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindUserByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if input.Nama != nil {
		user.Nama = *input.Nama
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := s.repo.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindUserByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.SoftDeleteUser(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserTidakDitemukan
		}
		return nil, err
	}
	return user, nil
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.FindAllUsers()
}

func (s *adminService) GetUserDetail(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindUserByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserTidakDitemukan
	}
	return user, err
}

func (s *adminService) SetKompetensi(ctx context.Context, userID string, kompetensiIDs []string) (*model.User, error) {
	if _, err := s.repo.FindUserByID(userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserTidakDitemukan
		}
		return nil, err
	}

	if err := s.repo.SetKompetensi(userID, dedupIDs(kompetensiIDs)); err != nil {
		return nil, err
	}
	return s.repo.FindUserByID(userID)
}

func (s *adminService) UploadFotoProfil(ctx context.Context, userID string, file FileUpload) (*model.User, error) {
	if _, err := s.repo.FindUserByID(userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserTidakDitemukan
		}
		return nil, err
	}

	attachments, err := s.attachmentSvc.Ingest(ctx, storage.KategoriProfile, []FileUpload{file})
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFotoProfil(userID, attachments[0].URL); err != nil {
		return nil, err
	}
	return s.repo.FindUserByID(userID)
}
