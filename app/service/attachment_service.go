package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/storage"
)

// FileUpload adalah satu berkas mentah dari request multipart.
type FileUpload struct {
	Nama        string
	Data        []byte
	ContentType string
}

// AttachmentService adalah pipeline ingest content-addressed yang dipakai
// seluruh sistem (lampiran progress, lampiran kegiatan, foto profil, chat).
type AttachmentService interface {
	// Ingest memproses satu batch berkas: hash -> dedup -> upload bila perlu.
	// Gagal upload SATU berkas membatalkan seluruh batch (tidak ada junction
	// yang boleh di-link dari hasil parsial); baris attachment yang terlanjur
	// dibuat berkas sebelumnya dibiarkan — inert dan akan di-reuse pada upload
	// identik berikutnya.
	Ingest(ctx context.Context, kategori string, files []FileUpload) ([]model.Attachment, error)
}

type attachmentService struct {
	attachmentRepo repository.AttachmentRepository
	blob           storage.BlobStore
}

// NewAttachmentService membuat instance service ingest attachment.
func NewAttachmentService(attachmentRepo repository.AttachmentRepository, blob storage.BlobStore) AttachmentService {
	return &attachmentService{attachmentRepo: attachmentRepo, blob: blob}
}

func (s *attachmentService) Ingest(ctx context.Context, kategori string, files []FileUpload) ([]model.Attachment, error) {
	hasil := make([]model.Attachment, 0, len(files))
	for _, f := range files {
		att, err := s.ingestSatu(ctx, kategori, f)
		if err != nil {
			return nil, fmt.Errorf("ingest %s gagal: %w", f.Nama, err)
		}
		hasil = append(hasil, *att)
	}
	return hasil, nil
}

// ingestSatu menjalankan algoritma content-addressed untuk satu berkas:
//  1. hitung digest SHA-256 hex
//  2. hash sudah dikenal -> reuse baris + URL lama, tanpa upload ulang
//  3. belum -> upload ke blob store (key {kategori}_{digest}) lalu insert baris
//  4. kalah race unique pada hash -> baca ulang baris pemenang
func (s *attachmentService) ingestSatu(ctx context.Context, kategori string, f FileUpload) (*model.Attachment, error) {
	sum := sha256.Sum256(f.Data)
	digest := hex.EncodeToString(sum[:])

	existing, err := s.attachmentRepo.FindByHash(ctx, digest)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(f.Data)
	}

	url, err := s.blob.Put(ctx, kategori, digest, f.Data, contentType)
	if err != nil {
		return nil, err
	}

	att := &model.Attachment{
		Nama:     f.Nama,
		Hash:     digest,
		URL:      url,
		FileType: contentType,
	}
	err = s.attachmentRepo.Create(ctx, att)
	if repository.IsUniqueViolation(err, "idx_attachment_hash") {
		// Dua upload byte identik balapan: insert yang kalah jatuh ke
		// uniqueness, fallback baca baris pemenang.
		return s.attachmentRepo.FindByHash(ctx, digest)
	}
	if err != nil {
		return nil, err
	}
	return att, nil
}
