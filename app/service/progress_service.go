package service

import (
	"context"
	"errors"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/storage"
)

// ProgressService mengelola catatan progress agenda beserta lampirannya.
type ProgressService interface {
	// Create menyimpan progress baru. Berkas lampiran melewati ingest
	// content-addressed (kategori progress); junction baru di-link setelah
	// seluruh batch upload sukses.
	Create(ctx context.Context, agendaID, deskripsi string, files []FileUpload) (*model.Progress, error)

	Detail(ctx context.Context, id string) (*model.Progress, error)
	Delete(ctx context.Context, id string) (*model.Progress, error)

	// TambahLampiran menambah lampiran ke progress yang sudah ada, dengan
	// pipeline ingest yang sama.
	TambahLampiran(ctx context.Context, progressID string, files []FileUpload) (*model.Progress, error)
}

type progressService struct {
	progressRepo  repository.ProgressRepository
	agendaRepo    repository.AgendaRepository
	attachmentSvc AttachmentService
}

// NewProgressService membuat instance service progress.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	agendaRepo repository.AgendaRepository,
	attachmentSvc AttachmentService,
) ProgressService {
	return &progressService{
		progressRepo:  progressRepo,
		agendaRepo:    agendaRepo,
		attachmentSvc: attachmentSvc,
	}
}

func (s *progressService) Create(ctx context.Context, agendaID, deskripsi string, files []FileUpload) (*model.Progress, error) {
	if _, err := s.agendaRepo.FindByID(ctx, agendaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAgendaTidakDitemukan
		}
		return nil, err
	}

	progress := &model.Progress{
		AgendaID:  agendaID,
		Deskripsi: deskripsi,
	}
	if err := s.progressRepo.Create(ctx, progress); err != nil {
		return nil, err
	}

	if len(files) > 0 {
		attachments, err := s.attachmentSvc.Ingest(ctx, storage.KategoriProgress, files)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(attachments))
		for _, a := range attachments {
			ids = append(ids, a.ID)
		}
		if err := s.progressRepo.LinkAttachments(ctx, progress.ID, ids); err != nil {
			return nil, err
		}
	}

	return s.progressRepo.FindByID(ctx, progress.ID)
}

func (s *progressService) Detail(ctx context.Context, id string) (*model.Progress, error) {
	progress, err := s.progressRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProgressTidakDitemukan
	}
	return progress, err
}

func (s *progressService) Delete(ctx context.Context, id string) (*model.Progress, error) {
	progress, err := s.progressRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProgressTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if err := s.progressRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressTidakDitemukan
		}
		return nil, err
	}
	return progress, nil
}

func (s *progressService) TambahLampiran(ctx context.Context, progressID string, files []FileUpload) (*model.Progress, error) {
	if _, err := s.progressRepo.FindByID(ctx, progressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressTidakDitemukan
		}
		return nil, err
	}

	attachments, err := s.attachmentSvc.Ingest(ctx, storage.KategoriProgress, files)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(attachments))
	for _, a := range attachments {
		ids = append(ids, a.ID)
	}
	if err := s.progressRepo.LinkAttachments(ctx, progressID, ids); err != nil {
		return nil, err
	}
	return s.progressRepo.FindByID(ctx, progressID)
}
