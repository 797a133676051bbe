package service

import (
	"context"
	"errors"
	"log"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
)

// StatusAnggota adalah kedudukan seorang user pada satu kegiatan,
// hasil lookup baris user_to_kegiatan + jabatannya.
type StatusAnggota struct {
	UserToKegiatanID string `json:"userToKegiatanId"`
	JabatanID        string `json:"jabatanId"`
	JabatanNama      string `json:"jabatanNama"`
	IsPIC            bool   `json:"isPic"`
}

// PenugasanService adalah inti penugasan & otorisasi: menjawab
// "apa kedudukan user U pada kegiatan A" dan menjaga gate setiap operasi mutasi.
type PenugasanService interface {
	// RoleOf mengembalikan kedudukan user pada kegiatan, atau ErrBukanAnggota
	// bila tidak ada baris penugasannya.
	RoleOf(ctx context.Context, kegiatanID, userID string) (*StatusAnggota, error)

	// PastikanBolehKelola menegakkan tabel kebijakan:
	// admin/manajemen selalu boleh; dosen wajib anggota DAN jabatannya PIC.
	// Gagal dengan ErrBukanAnggota atau ErrBukanPIC — keduanya terminal.
	PastikanBolehKelola(ctx context.Context, globalRole, kegiatanID, userID string) error

	// AssignUsers meng-upsert penugasan (batch 10) lalu sync membership room
	// chat (tambah saja; pelepasan tidak memangkas membership).
	AssignUsers(ctx context.Context, kegiatanID string, penugasan []PenugasanInput) ([]model.UserToKegiatan, error)

	// UnassignUser melepas user dari kegiatan. Snapshot baris sebelum hapus
	// dikembalikan ke pemanggil.
	UnassignUser(ctx context.Context, kegiatanID, userID string) (*model.UserToKegiatan, error)

	DaftarAnggota(ctx context.Context, kegiatanID string) ([]model.UserToKegiatan, error)
}

// PenugasanInput adalah satu pasangan user + jabatan yang akan ditugaskan.
type PenugasanInput struct {
	UserID    string `json:"userId" binding:"required,objectid"`
	JabatanID string `json:"jabatanId" binding:"required,objectid"`
}

type penugasanService struct {
	penugasanRepo repository.PenugasanRepository
	kegiatanRepo  repository.KegiatanRepository
	chatRepo      repository.ChatRepository
}

// NewPenugasanService membuat instance service penugasan.
func NewPenugasanService(
	penugasanRepo repository.PenugasanRepository,
	kegiatanRepo repository.KegiatanRepository,
	chatRepo repository.ChatRepository,
) PenugasanService {
	return &penugasanService{
		penugasanRepo: penugasanRepo,
		kegiatanRepo:  kegiatanRepo,
		chatRepo:      chatRepo,
	}
}

func (s *penugasanService) RoleOf(ctx context.Context, kegiatanID, userID string) (*StatusAnggota, error) {
	anggota, err := s.penugasanRepo.FindAnggota(ctx, kegiatanID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBukanAnggota
	}
	if err != nil {
		return nil, err
	}
	return &StatusAnggota{
		UserToKegiatanID: anggota.ID,
		JabatanID:        anggota.JabatanID,
		JabatanNama:      anggota.Jabatan.Nama,
		IsPIC:            anggota.Jabatan.IsPIC,
	}, nil
}

func (s *penugasanService) PastikanBolehKelola(ctx context.Context, globalRole, kegiatanID, userID string) error {
	// Role global admin/manajemen mem-bypass pengecekan per-kegiatan.
	if globalRole == model.RoleAdmin || globalRole == model.RoleManajemen {
		return nil
	}

	status, err := s.RoleOf(ctx, kegiatanID, userID)
	if err != nil {
		return err
	}
	if !status.IsPIC {
		return ErrBukanPIC
	}
	return nil
}

func (s *penugasanService) AssignUsers(ctx context.Context, kegiatanID string, penugasan []PenugasanInput) ([]model.UserToKegiatan, error) {
	// Pastikan kegiatannya ada dulu (bukan hanya FK error nantinya).
	if _, err := s.kegiatanRepo.FindByID(ctx, kegiatanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKegiatanTidakDitemukan
		}
		return nil, err
	}

	rows := make([]model.UserToKegiatan, 0, len(penugasan))
	userIDs := make([]string, 0, len(penugasan))
	for _, p := range penugasan {
		rows = append(rows, model.UserToKegiatan{
			UserID:     p.UserID,
			KegiatanID: kegiatanID,
			JabatanID:  p.JabatanID,
		})
		userIDs = append(userIDs, p.UserID)
	}

	if err := s.penugasanRepo.UpsertBatch(ctx, rows); err != nil {
		return nil, err
	}

	// Sync membership room chat. Lintas store dan best-effort: kegagalan di
	// sini tidak membatalkan penugasan relasional yang sudah commit.
	if err := s.chatRepo.AddMembers(ctx, kegiatanID, userIDs); err != nil {
		log.Printf("⚠️  [PENUGASAN] gagal sync member room chat %s: %v", kegiatanID, err)
	}

	return s.penugasanRepo.FindAnggotaByKegiatan(ctx, kegiatanID)
}

func (s *penugasanService) UnassignUser(ctx context.Context, kegiatanID, userID string) (*model.UserToKegiatan, error) {
	anggota, err := s.penugasanRepo.FindAnggota(ctx, kegiatanID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBukanAnggota
	}
	if err != nil {
		return nil, err
	}

	if err := s.penugasanRepo.Unassign(ctx, kegiatanID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBukanAnggota
		}
		return nil, err
	}
	// Membership room chat sengaja TIDAK dipangkas di sini (akses baca
	// grandfathered; lihat DESIGN.md).
	return anggota, nil
}

func (s *penugasanService) DaftarAnggota(ctx context.Context, kegiatanID string) ([]model.UserToKegiatan, error) {
	return s.penugasanRepo.FindAnggotaByKegiatan(ctx, kegiatanID)
}
