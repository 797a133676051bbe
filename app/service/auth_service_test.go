package service

import (
	"context"
	"testing"
	"time"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User

	passwordDiubah map[string]string // userID -> hash baru
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:        make(map[string]*model.User),
		byID:           make(map[string]*model.User),
		passwordDiubah: make(map[string]string),
	}
}

func (f *fakeUserRepo) tambah(user *model.User) {
	if user.ID == "" {
		user.ID = model.NewID()
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByNIDN(nidn string) (*model.User, error) {
	for _, u := range f.byID {
		if u.NIDN == nidn {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByID(id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdatePassword(id string, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	f.passwordDiubah[id] = passwordHash
	return nil
}

func (f *fakeUserRepo) UpdateFotoProfil(id string, url string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FotoProfil = url
	return nil
}

type fakeResetRepo struct {
	token *model.PasswordResetToken
}

func (f *fakeResetRepo) Replace(ctx context.Context, token *model.PasswordResetToken) error {
	f.token = token
	return nil
}

func (f *fakeResetRepo) Consume(ctx context.Context, tokenHash string) (string, error) {
	if f.token == nil || f.token.TokenHash != tokenHash {
		return "", repository.ErrNotFound
	}
	if time.Now().After(f.token.ExpiresAt) {
		f.token = nil
		return "", repository.ErrNotFound
	}
	userID := f.token.UserID
	f.token = nil
	return userID, nil
}

type fakeMailer struct {
	kirimKe    string
	tokenKirim string
}

func (f *fakeMailer) KirimResetPassword(email, nama, token string) error {
	f.kirimKe = email
	f.tokenKirim = token
	return nil
}

func buatUserLogin(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		NIDN:         "0000000009",
		Nama:         "Dosen Uji",
		Email:        email,
		Role:         model.RoleDosen,
		PasswordHash: string(hash),
	}
}

func TestLoginPesanErrorSeragam(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.tambah(buatUserLogin(t, "dosen@kampus.ac.id", "rahasia-sekali"))

	svc := NewAuthService(userRepo, &fakeResetRepo{}, &fakeMailer{})

	t.Run("kredensial benar", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "dosen@kampus.ac.id", "rahasia-sekali")
		require.NoError(t, err)
		assert.Equal(t, "dosen@kampus.ac.id", user.Email)
	})

	// Email absen dan password salah harus sama persis error-nya.
	t.Run("email tidak terdaftar", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "tidakada@kampus.ac.id", "apa-saja")
		assert.ErrorIs(t, err, ErrEmailAtauPasswordSalah)
	})
	t.Run("password salah", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "dosen@kampus.ac.id", "salah")
		assert.ErrorIs(t, err, ErrEmailAtauPasswordSalah)
	})
}

func TestAlurResetPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := buatUserLogin(t, "dosen@kampus.ac.id", "password-lama")
	userRepo.tambah(user)

	resetRepo := &fakeResetRepo{}
	mailer := &fakeMailer{}
	svc := NewAuthService(userRepo, resetRepo, mailer)

	require.NoError(t, svc.ForgotPassword(context.Background(), "dosen@kampus.ac.id"))
	require.NotEmpty(t, mailer.tokenKirim)
	assert.Equal(t, "dosen@kampus.ac.id", mailer.kirimKe)

	// Database tidak menyimpan token mentah, hanya hash-nya.
	require.NotNil(t, resetRepo.token)
	assert.NotEqual(t, mailer.tokenKirim, resetRepo.token.TokenHash)

	// Token yang dikirim bisa ditukar password baru, sekali pakai.
	require.NoError(t, svc.ResetPassword(context.Background(), mailer.tokenKirim, "password-baru"))
	assert.NotEmpty(t, userRepo.passwordDiubah[user.ID])

	err := svc.ResetPassword(context.Background(), mailer.tokenKirim, "password-lain")
	assert.ErrorIs(t, err, ErrTokenResetTidakValid)
}

func TestForgotPasswordEmailTakTerdaftarSenyap(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewAuthService(newFakeUserRepo(), &fakeResetRepo{}, mailer)

	// Sukses semu: tidak error, tidak ada email terkirim.
	require.NoError(t, svc.ForgotPassword(context.Background(), "hantu@kampus.ac.id"))
	assert.Empty(t, mailer.kirimKe)
}

func TestResetPasswordTokenKadaluwarsa(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := buatUserLogin(t, "dosen@kampus.ac.id", "password-lama")
	userRepo.tambah(user)

	resetRepo := &fakeResetRepo{}
	mailer := &fakeMailer{}
	svc := NewAuthService(userRepo, resetRepo, mailer)

	require.NoError(t, svc.ForgotPassword(context.Background(), "dosen@kampus.ac.id"))
	resetRepo.token.ExpiresAt = time.Now().Add(-time.Minute)

	err := svc.ResetPassword(context.Background(), mailer.tokenKirim, "password-baru")
	assert.ErrorIs(t, err, ErrTokenResetTidakValid)
}
