package service

import (
	"context"
	"errors"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
)

// MasterService: CRUD master data (jenis kegiatan, jabatan anggota, kompetensi).
// Duplikat nama dibiarkan naik sebagai ConstraintViolation unique dan
// diterjemahkan jadi 422 di layer routes.
type MasterService interface {
	BuatJenisKegiatan(ctx context.Context, nama string, isInstansi bool) (*model.JenisKegiatan, error)
	DaftarJenisKegiatan(ctx context.Context) ([]model.JenisKegiatan, error)
	HapusJenisKegiatan(ctx context.Context, id string) error

	BuatJabatan(ctx context.Context, nama string, isPIC bool) (*model.JabatanAnggota, error)
	DaftarJabatan(ctx context.Context) ([]model.JabatanAnggota, error)
	HapusJabatan(ctx context.Context, id string) error

	BuatKompetensi(ctx context.Context, nama string) (*model.Kompetensi, error)
	DaftarKompetensi(ctx context.Context) ([]model.Kompetensi, error)
	HapusKompetensi(ctx context.Context, id string) error
}

type masterService struct {
	repo repository.MasterRepository
}

// NewMasterService membuat instance service master data.
func NewMasterService(repo repository.MasterRepository) MasterService {
	return &masterService{repo: repo}
}

func (s *masterService) BuatJenisKegiatan(ctx context.Context, nama string, isInstansi bool) (*model.JenisKegiatan, error) {
	jenis := &model.JenisKegiatan{Nama: nama, IsInstansi: isInstansi}
	if err := s.repo.CreateJenisKegiatan(ctx, jenis); err != nil {
		return nil, err
	}
	return jenis, nil
}

func (s *masterService) DaftarJenisKegiatan(ctx context.Context) ([]model.JenisKegiatan, error) {
	return s.repo.FindAllJenisKegiatan(ctx)
}

func (s *masterService) HapusJenisKegiatan(ctx context.Context, id string) error {
	return terjemahkanNotFound(s.repo.DeleteJenisKegiatan(ctx, id), ErrJenisKegiatanTidakDitemukan)
}

func (s *masterService) BuatJabatan(ctx context.Context, nama string, isPIC bool) (*model.JabatanAnggota, error) {
	jabatan := &model.JabatanAnggota{Nama: nama, IsPIC: isPIC}
	if err := s.repo.CreateJabatan(ctx, jabatan); err != nil {
		return nil, err
	}
	return jabatan, nil
}

func (s *masterService) DaftarJabatan(ctx context.Context) ([]model.JabatanAnggota, error) {
	return s.repo.FindAllJabatan(ctx)
}

func (s *masterService) HapusJabatan(ctx context.Context, id string) error {
	return terjemahkanNotFound(s.repo.DeleteJabatan(ctx, id), ErrJabatanTidakDitemukan)
}

func (s *masterService) BuatKompetensi(ctx context.Context, nama string) (*model.Kompetensi, error) {
	kompetensi := &model.Kompetensi{Nama: nama}
	if err := s.repo.CreateKompetensi(ctx, kompetensi); err != nil {
		return nil, err
	}
	return kompetensi, nil
}

func (s *masterService) DaftarKompetensi(ctx context.Context) ([]model.Kompetensi, error) {
	return s.repo.FindAllKompetensi(ctx)
}

func (s *masterService) HapusKompetensi(ctx context.Context, id string) error {
	return terjemahkanNotFound(s.repo.DeleteKompetensi(ctx, id), ErrKompetensiTidakDitemukan)
}

// terjemahkanNotFound memetakan repository.ErrNotFound ke sentinel domain.
func terjemahkanNotFound(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
