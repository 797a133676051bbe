package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"testing"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digestDari(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestIngestHashBaruDiupload(t *testing.T) {
	attachmentRepo := newFakeAttachmentRepo()
	blob := &fakeBlobStore{}
	svc := NewAttachmentService(attachmentRepo, blob)

	isi := []byte("laporan bab 1")
	hasil, err := svc.Ingest(context.Background(), storage.KategoriProgress, []FileUpload{
		{Nama: "laporan.pdf", Data: isi, ContentType: "application/pdf"},
	})
	require.NoError(t, err)
	require.Len(t, hasil, 1)

	assert.Equal(t, digestDari(isi), hasil[0].Hash)
	assert.Equal(t, "laporan.pdf", hasil[0].Nama)
	assert.Equal(t, "application/pdf", hasil[0].FileType)
	assert.Equal(t, 1, blob.putCount)
	assert.Equal(t, []string{storage.KategoriProgress + "_" + digestDari(isi)}, blob.putKeys)
}

func TestIngestContentTypeKosongDisniff(t *testing.T) {
	svc := NewAttachmentService(newFakeAttachmentRepo(), &fakeBlobStore{})

	isi := []byte("catatan rapat biasa")
	hasil, err := svc.Ingest(context.Background(), storage.KategoriChat, []FileUpload{
		{Nama: "catatan.txt", Data: isi},
	})
	require.NoError(t, err)
	require.Len(t, hasil, 1)

	// Request tanpa Content-Type: tipe dideteksi dari isi dan ikut tersimpan.
	assert.Equal(t, http.DetectContentType(isi), hasil[0].FileType)
	assert.NotEmpty(t, hasil[0].FileType)
}

func TestIngestHashDikenalReuseTanpaUpload(t *testing.T) {
	isi := []byte("berkas yang sama")
	lama := &model.Attachment{
		Nama: "asli.png",
		Hash: digestDari(isi),
		URL:  "https://blob.test/progress_sudah-ada",
	}

	attachmentRepo := newFakeAttachmentRepo()
	attachmentRepo.simpan(lama)
	blob := &fakeBlobStore{}
	svc := NewAttachmentService(attachmentRepo, blob)

	// Upload ulang byte identik dengan nama berbeda: baris lama dipakai ulang.
	hasil, err := svc.Ingest(context.Background(), storage.KategoriProgress, []FileUpload{
		{Nama: "salinan.png", Data: isi},
	})
	require.NoError(t, err)
	require.Len(t, hasil, 1)

	assert.Equal(t, lama.ID, hasil[0].ID)
	assert.Equal(t, lama.URL, hasil[0].URL)
	assert.Zero(t, blob.putCount, "hash dikenal tidak boleh upload ulang")
}

func TestIngestKalahRaceBacaUlangPemenang(t *testing.T) {
	isi := []byte("dua upload balapan")
	digest := digestDari(isi)

	pemenang := &model.Attachment{
		ID:   model.NewID(),
		Nama: "pemenang.jpg",
		Hash: digest,
		URL:  "https://blob.test/chat_" + digest,
	}
	svc := NewAttachmentService(&repoRaceSekali{pemenang: pemenang}, &fakeBlobStore{})

	hasil, err := svc.Ingest(context.Background(), storage.KategoriChat, []FileUpload{
		{Nama: "kalah.jpg", Data: isi},
	})
	require.NoError(t, err)
	require.Len(t, hasil, 1)
	assert.Equal(t, pemenang.ID, hasil[0].ID)
	assert.Equal(t, pemenang.URL, hasil[0].URL)
}

// repoRaceSekali mensimulasikan kekalahan race dua upload byte identik:
// FindByHash pertama miss, Create jatuh ke unique violation, FindByHash
// berikutnya menemukan baris pemenang.
type repoRaceSekali struct {
	pemenang  *model.Attachment
	sudahMiss bool
}

func (r *repoRaceSekali) FindByHash(ctx context.Context, hash string) (*model.Attachment, error) {
	if !r.sudahMiss {
		r.sudahMiss = true
		return nil, repository.ErrNotFound
	}
	return r.pemenang, nil
}

func (r *repoRaceSekali) Create(ctx context.Context, attachment *model.Attachment) error {
	return &repository.ConstraintViolation{
		Kind:       repository.ViolationUnique,
		Constraint: "idx_attachment_hash",
	}
}

func (r *repoRaceSekali) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	if r.pemenang != nil && r.pemenang.ID == id {
		return r.pemenang, nil
	}
	return nil, repository.ErrNotFound
}

func TestIngestGagalUploadMembatalkanBatch(t *testing.T) {
	attachmentRepo := newFakeAttachmentRepo()
	blob := &fakeBlobStore{
		gagalPadaPanggilan: 2,
		errGagal:           errors.New("koneksi blob putus"),
	}
	svc := NewAttachmentService(attachmentRepo, blob)

	hasil, err := svc.Ingest(context.Background(), storage.KategoriLampiran, []FileUpload{
		{Nama: "a.txt", Data: []byte("isi a")},
		{Nama: "b.txt", Data: []byte("isi b")},
		{Nama: "c.txt", Data: []byte("isi c")},
	})

	// Gagal di berkas kedua: seluruh batch batal, tidak ada hasil parsial.
	require.Error(t, err)
	assert.Nil(t, hasil)
	// Berkas pertama sudah terlanjur masuk (baris inert, akan di-reuse nanti).
	assert.Equal(t, 1, len(attachmentRepo.byHash))
}
