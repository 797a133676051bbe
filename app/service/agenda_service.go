package service

import (
	"context"
	"errors"
	"time"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
)

// AgendaInput adalah data pembuatan agenda baru.
type AgendaInput struct {
	KegiatanID string
	Jadwal     time.Time
	Nama       string
	Deskripsi  string
}

// UpdateAgendaInput: field nil = tidak diubah.
type UpdateAgendaInput struct {
	Jadwal    *time.Time
	Nama      *string
	Deskripsi *string
	IsDone    *bool
}

// AgendaService mengelola agenda milik kegiatan + keanggotaannya.
type AgendaService interface {
	Create(ctx context.Context, input AgendaInput) (*model.Agenda, error)
	Update(ctx context.Context, id string, input UpdateAgendaInput) (*model.Agenda, error)
	Delete(ctx context.Context, id string) (*model.Agenda, error)
	Detail(ctx context.Context, id string) (*model.Agenda, error)

	// SetAnggota mengganti keanggotaan agenda. Setiap userId harus sudah
	// anggota kegiatan induk; yang bukan ditolak dengan
	// ErrAnggotaBukanAnggotaKegiatan.
	SetAnggota(ctx context.Context, agendaID string, userIDs []string) (*model.Agenda, error)
}

type agendaService struct {
	agendaRepo    repository.AgendaRepository
	kegiatanRepo  repository.KegiatanRepository
	penugasanRepo repository.PenugasanRepository
}

// NewAgendaService membuat instance service agenda.
func NewAgendaService(
	agendaRepo repository.AgendaRepository,
	kegiatanRepo repository.KegiatanRepository,
	penugasanRepo repository.PenugasanRepository,
) AgendaService {
	return &agendaService{
		agendaRepo:    agendaRepo,
		kegiatanRepo:  kegiatanRepo,
		penugasanRepo: penugasanRepo,
	}
}

func (s *agendaService) Create(ctx context.Context, input AgendaInput) (*model.Agenda, error) {
	if _, err := s.kegiatanRepo.FindByID(ctx, input.KegiatanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKegiatanTidakDitemukan
		}
		return nil, err
	}

	agenda := &model.Agenda{
		KegiatanID: input.KegiatanID,
		Jadwal:     input.Jadwal,
		Nama:       input.Nama,
		Deskripsi:  input.Deskripsi,
	}
	if err := s.agendaRepo.Create(ctx, agenda); err != nil {
		return nil, err
	}
	return agenda, nil
}

func (s *agendaService) Update(ctx context.Context, id string, input UpdateAgendaInput) (*model.Agenda, error) {
	agenda, err := s.agendaRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAgendaTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if input.Jadwal != nil {
		agenda.Jadwal = *input.Jadwal
	}
	if input.Nama != nil {
		agenda.Nama = *input.Nama
	}
	if input.Deskripsi != nil {
		agenda.Deskripsi = *input.Deskripsi
	}
	if input.IsDone != nil {
		agenda.IsDone = *input.IsDone
	}

	if err := s.agendaRepo.Update(ctx, agenda); err != nil {
		return nil, err
	}
	return agenda, nil
}

func (s *agendaService) Delete(ctx context.Context, id string) (*model.Agenda, error) {
	agenda, err := s.agendaRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAgendaTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if err := s.agendaRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAgendaTidakDitemukan
		}
		return nil, err
	}
	return agenda, nil
}

func (s *agendaService) Detail(ctx context.Context, id string) (*model.Agenda, error) {
	agenda, err := s.agendaRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAgendaTidakDitemukan
	}
	return agenda, err
}

func (s *agendaService) SetAnggota(ctx context.Context, agendaID string, userIDs []string) (*model.Agenda, error) {
	agenda, err := s.agendaRepo.FindByID(ctx, agendaID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAgendaTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	// Terjemahkan userId -> id baris user_to_kegiatan pada kegiatan induk.
	// User yang tidak ditugaskan ke kegiatan induk bukan kandidat anggota agenda.
	utkIDs := make([]string, 0, len(userIDs))
	for _, userID := range dedupIDs(userIDs) {
		anggota, err := s.penugasanRepo.FindAnggota(ctx, agenda.KegiatanID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnggotaBukanAnggotaKegiatan
		}
		if err != nil {
			return nil, err
		}
		utkIDs = append(utkIDs, anggota.ID)
	}

	if err := s.agendaRepo.SetAnggota(ctx, agendaID, utkIDs); err != nil {
		return nil, err
	}
	return s.agendaRepo.FindByID(ctx, agendaID)
}
