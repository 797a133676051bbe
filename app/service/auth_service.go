package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
	"kegiatan-backend/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Masa berlaku token reset password.
const umurTokenReset = time.Hour

// AuthService menangani login dan alur reset password.
type AuthService interface {
	// Login memeriksa email + password. Kegagalan apa pun (email tidak ada,
	// password salah) dilaporkan sebagai ErrEmailAtauPasswordSalah tanpa
	// membedakan penyebabnya.
	Login(ctx context.Context, email, password string) (*model.User, error)

	// ForgotPassword menerbitkan token reset baru untuk email tersebut dan
	// mengirimkannya lewat mailer. Token lama user langsung hangus
	// (delete-then-insert). Email yang tidak terdaftar TIDAK dilaporkan
	// error ke pemanggil (jangan bocorkan akun mana yang ada).
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword menukar token (sekali pakai, belum kedaluwarsa) dengan
	// penggantian password.
	ResetPassword(ctx context.Context, token, passwordBaru string) error
}

type authService struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	mailer    utils.Mailer
}

// NewAuthService menghubungkan service autentikasi dengan dependensinya.
func NewAuthService(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository, mailer utils.Mailer) AuthService {
	return &authService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmailAtauPasswordSalah
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrEmailAtauPasswordSalah
	}
	return user, nil
}

// hashTokenReset: token yang DIKIRIM ke user berbeda dengan yang DISIMPAN;
// database hanya memegang SHA-256 hex-nya.
func hashTokenReset(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		// Sukses semu: respons ke klien sama persis dengan email terdaftar.
		log.Printf("[AUTH] permintaan reset utk email tak terdaftar diabaikan")
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	record := &model.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashTokenReset(token),
		ExpiresAt: time.Now().Add(umurTokenReset),
	}
	if err := s.resetRepo.Replace(ctx, record); err != nil {
		return err
	}

	return s.mailer.KirimResetPassword(user.Email, user.Nama, token)
}

func (s *authService) ResetPassword(ctx context.Context, token, passwordBaru string) error {
	userID, err := s.resetRepo.Consume(ctx, hashTokenReset(token))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTokenResetTidakValid
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwordBaru), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(userID, string(hash)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserTidakDitemukan
		}
		return err
	}
	return nil
}
