package service

import (
	"context"
	"net/http"
	"testing"

	"kegiatan-backend/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buatChatService(chatRepo *fakeChatRepo) ChatService {
	attachmentSvc := NewAttachmentService(newFakeAttachmentRepo(), &fakeBlobStore{})
	return NewChatService(chatRepo, attachmentSvc)
}

func TestSendMessageGateMembership(t *testing.T) {
	roomID := model.NewID()
	anggotaID := model.NewID()
	luarID := model.NewID()

	chatRepo := newFakeChatRepo()
	chatRepo.tambahRoom(roomID, anggotaID)
	svc := buatChatService(chatRepo)

	t.Run("anggota boleh kirim", func(t *testing.T) {
		pesan, err := svc.SendMessage(context.Background(), roomID, anggotaID, "halo semua", nil)
		require.NoError(t, err)
		assert.Equal(t, roomID, pesan.RoomID)
		assert.Equal(t, anggotaID, pesan.SenderID)
		assert.False(t, pesan.ID.IsZero())
	})

	t.Run("bukan anggota ditolak", func(t *testing.T) {
		_, err := svc.SendMessage(context.Background(), roomID, luarID, "nyelonong", nil)
		assert.ErrorIs(t, err, ErrBukanAnggota)
	})

	t.Run("room tidak ada", func(t *testing.T) {
		_, err := svc.SendMessage(context.Background(), model.NewID(), anggotaID, "halo", nil)
		assert.ErrorIs(t, err, ErrRoomTidakDitemukan)
	})

	t.Run("teks kosong ditolak", func(t *testing.T) {
		_, err := svc.SendMessage(context.Background(), roomID, anggotaID, "   ", nil)
		assert.ErrorIs(t, err, ErrPesanKosong)
	})
}

func TestEditDanDeleteMessage(t *testing.T) {
	roomID := model.NewID()
	anggotaID := model.NewID()

	chatRepo := newFakeChatRepo()
	chatRepo.tambahRoom(roomID, anggotaID)
	svc := buatChatService(chatRepo)

	pesan, err := svc.SendMessage(context.Background(), roomID, anggotaID, "versi awal", nil)
	require.NoError(t, err)

	t.Run("edit mengganti teks", func(t *testing.T) {
		hasil, err := svc.EditMessage(context.Background(), pesan.ID.Hex(), "versi revisi")
		require.NoError(t, err)
		assert.Equal(t, "versi revisi", hasil.Text)
		// Room pesan tidak berubah: broadcast edit selalu ke room tersimpan.
		assert.Equal(t, roomID, hasil.RoomID)
	})

	t.Run("edit pesan absen", func(t *testing.T) {
		_, err := svc.EditMessage(context.Background(), model.NewID(), "apa saja")
		assert.ErrorIs(t, err, ErrPesanTidakDitemukan)
	})

	t.Run("delete mengembalikan snapshot", func(t *testing.T) {
		snapshot, err := svc.DeleteMessage(context.Background(), pesan.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, pesan.ID, snapshot.ID)
		assert.Equal(t, roomID, snapshot.RoomID)

		_, err = svc.DeleteMessage(context.Background(), pesan.ID.Hex())
		assert.ErrorIs(t, err, ErrPesanTidakDitemukan)
	})
}

func TestFetchHistoryUrutDanTergate(t *testing.T) {
	roomID := model.NewID()
	anggotaID := model.NewID()

	chatRepo := newFakeChatRepo()
	chatRepo.tambahRoom(roomID, anggotaID)
	svc := buatChatService(chatRepo)

	for _, teks := range []string{"pertama", "kedua", "ketiga"} {
		_, err := svc.SendMessage(context.Background(), roomID, anggotaID, teks, nil)
		require.NoError(t, err)
	}

	riwayat, err := svc.FetchHistory(context.Background(), roomID, anggotaID)
	require.NoError(t, err)
	require.Len(t, riwayat, 3)
	assert.Equal(t, "pertama", riwayat[0].Text)
	assert.Equal(t, "ketiga", riwayat[2].Text)

	_, err = svc.FetchHistory(context.Background(), roomID, model.NewID())
	assert.ErrorIs(t, err, ErrBukanAnggota)
}

func TestFetchLatestWithAttachment(t *testing.T) {
	roomID := model.NewID()
	anggotaID := model.NewID()

	chatRepo := newFakeChatRepo()
	chatRepo.tambahRoom(roomID, anggotaID)
	svc := buatChatService(chatRepo)

	t.Run("room ada tapi tanpa pesan berlampiran", func(t *testing.T) {
		_, err := svc.SendMessage(context.Background(), roomID, anggotaID, "teks saja", nil)
		require.NoError(t, err)

		_, err = svc.FetchLatestWithAttachment(context.Background(), roomID, anggotaID)
		// Sinyal berbeda dari room tidak ditemukan.
		assert.ErrorIs(t, err, ErrTidakAdaPesanLampiran)
	})

	t.Run("mengembalikan pesan berlampiran terbaru", func(t *testing.T) {
		lampiranLama := []model.MessageAttachment{{FileName: "lama.pdf", FileURL: "u1", FileType: "application/pdf"}}
		lampiranBaru := []model.MessageAttachment{{FileName: "baru.pdf", FileURL: "u2", FileType: "application/pdf"}}

		_, err := svc.SendMessage(context.Background(), roomID, anggotaID, "lampiran lama", lampiranLama)
		require.NoError(t, err)
		_, err = svc.SendMessage(context.Background(), roomID, anggotaID, "lampiran baru", lampiranBaru)
		require.NoError(t, err)
		_, err = svc.SendMessage(context.Background(), roomID, anggotaID, "teks lagi", nil)
		require.NoError(t, err)

		pesan, err := svc.FetchLatestWithAttachment(context.Background(), roomID, anggotaID)
		require.NoError(t, err)
		assert.Equal(t, "lampiran baru", pesan.Text)
	})

	t.Run("room absen", func(t *testing.T) {
		_, err := svc.FetchLatestWithAttachment(context.Background(), model.NewID(), anggotaID)
		assert.ErrorIs(t, err, ErrRoomTidakDitemukan)
	})
}

func TestIngestAttachmentsMenjadiReferensiPesan(t *testing.T) {
	chatRepo := newFakeChatRepo()
	svc := buatChatService(chatRepo)

	hasil, err := svc.IngestAttachments(context.Background(), []FileUpload{
		{Nama: "notulen.docx", Data: []byte("isi notulen"), ContentType: "application/msword"},
		{Nama: "tanpa-tipe.txt", Data: []byte("isi polos tanpa header")},
	})
	require.NoError(t, err)
	require.Len(t, hasil, 2)
	assert.Equal(t, "notulen.docx", hasil[0].FileName)
	assert.NotEmpty(t, hasil[0].FileURL)
	assert.Equal(t, "application/msword", hasil[0].FileType)

	// Berkas tanpa Content-Type tetap membawa tipe hasil sniffing ingest.
	assert.Equal(t, http.DetectContentType([]byte("isi polos tanpa header")), hasil[1].FileType)
	assert.NotEmpty(t, hasil[1].FileType)
}
