package service

import (
	"context"
	"errors"
	"time"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/storage"
)

// KegiatanInput adalah data pembuatan kegiatan baru.
type KegiatanInput struct {
	Judul           string
	JenisKegiatanID string
	TanggalMulai    time.Time
	TanggalSelesai  time.Time
	Lokasi          string
	Deskripsi       string
}

// UpdateKegiatanInput: field nil = tidak diubah (partial update).
type UpdateKegiatanInput struct {
	Judul           *string
	JenisKegiatanID *string
	TanggalMulai    *time.Time
	TanggalSelesai  *time.Time
	Lokasi          *string
	Deskripsi       *string
	IsDone          *bool
}

// Pembuat mengidentifikasi pembuat kegiatan. JabatanID diisi bila pembuat
// dosen ingin sekaligus menetapkan kedudukannya sendiri pada kegiatan baru.
type Pembuat struct {
	UserID    string
	Role      string
	JabatanID string
}

// KegiatanService mengelola aggregate kegiatan: data utamanya, junction
// kompetensi, lampiran, dan baris anggota pembuat — konsisten di bawah
// create/update/delete.
type KegiatanService interface {
	Create(ctx context.Context, input KegiatanInput, kompetensiIDs []string, pembuat Pembuat) (*model.Kegiatan, error)
	Update(ctx context.Context, id string, input UpdateKegiatanInput, kompetensiIDs []string) (*model.Kegiatan, error)

	// Delete mengembalikan snapshot aggregate SEBELUM dihapus (untuk
	// notifikasi/audit pemanggil), bukan sekadar flag sukses.
	Delete(ctx context.Context, id string) (*model.Kegiatan, error)

	Detail(ctx context.Context, id string) (*model.Kegiatan, error)
	List(ctx context.Context) ([]model.Kegiatan, error)

	// TambahLampiran meng-ingest berkas (kategori lampiran, dedup hash) lalu
	// me-link ke kegiatan.
	TambahLampiran(ctx context.Context, kegiatanID string, files []FileUpload) ([]model.Attachment, error)
	HapusLampiran(ctx context.Context, kegiatanID, attachmentID string) (*model.Attachment, error)
}

type kegiatanService struct {
	kegiatanRepo   repository.KegiatanRepository
	attachmentRepo repository.AttachmentRepository
	attachmentSvc  AttachmentService
}

// NewKegiatanService membuat instance service kegiatan.
func NewKegiatanService(
	kegiatanRepo repository.KegiatanRepository,
	attachmentRepo repository.AttachmentRepository,
	attachmentSvc AttachmentService,
) KegiatanService {
	return &kegiatanService{
		kegiatanRepo:   kegiatanRepo,
		attachmentRepo: attachmentRepo,
		attachmentSvc:  attachmentSvc,
	}
}

func (s *kegiatanService) Create(ctx context.Context, input KegiatanInput, kompetensiIDs []string, pembuat Pembuat) (*model.Kegiatan, error) {
	jenis, err := s.kegiatanRepo.FindJenisByID(ctx, input.JenisKegiatanID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrJenisKegiatanTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	// Dosen tidak boleh membuat kegiatan instansi tanpa menetapkan jabatan
	// dirinya sendiri secara atomik dengan pembuatan kegiatan.
	var creator *model.UserToKegiatan
	if pembuat.Role == model.RoleDosen {
		if pembuat.JabatanID == "" {
			if jenis.IsInstansi {
				return nil, ErrJabatanPembuatWajib
			}
		} else {
			creator = &model.UserToKegiatan{
				UserID:    pembuat.UserID,
				JabatanID: pembuat.JabatanID,
			}
		}
	}

	kegiatan := &model.Kegiatan{
		Judul:           input.Judul,
		JenisKegiatanID: input.JenisKegiatanID,
		TanggalMulai:    input.TanggalMulai,
		TanggalSelesai:  input.TanggalSelesai,
		Lokasi:          input.Lokasi,
		Deskripsi:       input.Deskripsi,
	}

	// Insert kegiatan + junction kompetensi + baris pembuat + intent room chat
	// dalam satu transaksi; gagal salah satu, semua rollback.
	if err := s.kegiatanRepo.Create(ctx, kegiatan, dedupIDs(kompetensiIDs), creator); err != nil {
		return nil, err
	}

	return s.kegiatanRepo.FindByID(ctx, kegiatan.ID)
}

func (s *kegiatanService) Update(ctx context.Context, id string, input UpdateKegiatanInput, kompetensiIDs []string) (*model.Kegiatan, error) {
	kegiatan, err := s.kegiatanRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrKegiatanTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if input.Judul != nil {
		kegiatan.Judul = *input.Judul
	}
	if input.JenisKegiatanID != nil {
		if _, err := s.kegiatanRepo.FindJenisByID(ctx, *input.JenisKegiatanID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrJenisKegiatanTidakDitemukan
			}
			return nil, err
		}
		kegiatan.JenisKegiatanID = *input.JenisKegiatanID
	}
	if input.TanggalMulai != nil {
		kegiatan.TanggalMulai = *input.TanggalMulai
	}
	if input.TanggalSelesai != nil {
		kegiatan.TanggalSelesai = *input.TanggalSelesai
	}
	if input.Lokasi != nil {
		kegiatan.Lokasi = *input.Lokasi
	}
	if input.Deskripsi != nil {
		kegiatan.Deskripsi = *input.Deskripsi
	}
	if input.IsDone != nil {
		kegiatan.IsDone = *input.IsDone
	}

	if err := s.kegiatanRepo.Update(ctx, kegiatan, dedupIDs(kompetensiIDs)); err != nil {
		return nil, err
	}
	return s.kegiatanRepo.FindByID(ctx, id)
}

func (s *kegiatanService) Delete(ctx context.Context, id string) (*model.Kegiatan, error) {
	// Snapshot dulu sebelum dihapus.
	kegiatan, err := s.kegiatanRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrKegiatanTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if err := s.kegiatanRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKegiatanTidakDitemukan
		}
		return nil, err
	}
	return kegiatan, nil
}

func (s *kegiatanService) Detail(ctx context.Context, id string) (*model.Kegiatan, error) {
	kegiatan, err := s.kegiatanRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrKegiatanTidakDitemukan
	}
	return kegiatan, err
}

func (s *kegiatanService) List(ctx context.Context) ([]model.Kegiatan, error) {
	return s.kegiatanRepo.FindAll(ctx)
}

func (s *kegiatanService) TambahLampiran(ctx context.Context, kegiatanID string, files []FileUpload) ([]model.Attachment, error) {
	if _, err := s.kegiatanRepo.FindByID(ctx, kegiatanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKegiatanTidakDitemukan
		}
		return nil, err
	}

	// Seluruh batch di-ingest dulu; junction baru di-link kalau semua sukses.
	attachments, err := s.attachmentSvc.Ingest(ctx, storage.KategoriLampiran, files)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(attachments))
	for _, a := range attachments {
		ids = append(ids, a.ID)
	}
	if err := s.kegiatanRepo.AddLampiran(ctx, kegiatanID, ids); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (s *kegiatanService) HapusLampiran(ctx context.Context, kegiatanID, attachmentID string) (*model.Attachment, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLampiranTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	// Hanya junction-nya yang dihapus; baris attachment + blob tetap ada
	// karena bisa masih di-link entitas lain (dedup global by hash).
	if err := s.kegiatanRepo.RemoveLampiran(ctx, kegiatanID, attachmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLampiranTidakDitemukan
		}
		return nil, err
	}
	return attachment, nil
}

// dedupIDs membuang id duplikat sambil mempertahankan urutan.
func dedupIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
