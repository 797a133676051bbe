package service

import (
	"context"
	"errors"
	"strings"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
	"kegiatan-backend/app/storage"
)

// ChatService adalah gerbang chat ber-scope kegiatan: setiap operasi dijaga
// membership room (assignedUsers), dicek ulang per panggilan — bukan di-cache
// di koneksi, karena membership bisa berubah di tengah sesi.
type ChatService interface {
	// BolehJoin memastikan room ada dan caller anggotanya.
	BolehJoin(ctx context.Context, roomID, userID string) error

	// SendMessage menyimpan pesan (teks wajib non-kosong) lalu mengembalikannya
	// untuk di-broadcast ke subscriber room.
	SendMessage(ctx context.Context, roomID, senderID, text string, attachments []model.MessageAttachment) (*model.Message, error)

	// EditMessage mengubah teks pesan. Room tujuan broadcast diambil dari
	// referensi room yang TERSIMPAN di pesan (edit tidak bisa memindahkan
	// pesan ke room lain).
	EditMessage(ctx context.Context, messageID, text string) (*model.Message, error)

	// DeleteMessage menghapus pesan dan mengembalikan snapshot-nya
	// (pemanggil butuh roomId + id untuk broadcast penghapusan).
	DeleteMessage(ctx context.Context, messageID string) (*model.Message, error)

	// FetchHistory mengembalikan seluruh pesan room urut waktu naik.
	FetchHistory(ctx context.Context, roomID, callerID string) ([]model.Message, error)

	// FetchLatestWithAttachment mengembalikan pesan terbaru yang berlampiran.
	// ErrTidakAdaPesanLampiran dibedakan dari ErrRoomTidakDitemukan.
	FetchLatestWithAttachment(ctx context.Context, roomID, callerID string) (*model.Message, error)

	// IngestAttachments memproses berkas lampiran chat lewat pipeline
	// content-addressed (kategori chat).
	IngestAttachments(ctx context.Context, files []FileUpload) ([]model.MessageAttachment, error)
}

type chatService struct {
	chatRepo      repository.ChatRepository
	attachmentSvc AttachmentService
}

// NewChatService membuat instance service chat.
func NewChatService(chatRepo repository.ChatRepository, attachmentSvc AttachmentService) ChatService {
	return &chatService{chatRepo: chatRepo, attachmentSvc: attachmentSvc}
}

// pastikanAnggotaRoom adalah gate membership bersama seluruh operasi room.
func (s *chatService) pastikanAnggotaRoom(ctx context.Context, roomID, userID string) error {
	room, err := s.chatRepo.FindRoom(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRoomTidakDitemukan
	}
	if err != nil {
		return err
	}
	for _, id := range room.AssignedUsers {
		if id == userID {
			return nil
		}
	}
	return ErrBukanAnggota
}

func (s *chatService) BolehJoin(ctx context.Context, roomID, userID string) error {
	return s.pastikanAnggotaRoom(ctx, roomID, userID)
}

func (s *chatService) SendMessage(ctx context.Context, roomID, senderID, text string, attachments []model.MessageAttachment) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrPesanKosong
	}
	if err := s.pastikanAnggotaRoom(ctx, roomID, senderID); err != nil {
		return nil, err
	}

	pesan := &model.Message{
		RoomID:      roomID,
		SenderID:    senderID,
		Text:        text,
		Attachments: attachments,
	}
	if err := s.chatRepo.InsertMessage(ctx, pesan); err != nil {
		return nil, err
	}
	return pesan, nil
}

func (s *chatService) EditMessage(ctx context.Context, messageID, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrPesanKosong
	}
	pesan, err := s.chatRepo.UpdateMessageText(ctx, messageID, text)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPesanTidakDitemukan
	}
	return pesan, err
}

func (s *chatService) DeleteMessage(ctx context.Context, messageID string) (*model.Message, error) {
	pesan, err := s.chatRepo.FindMessageByID(ctx, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPesanTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	if err := s.chatRepo.DeleteMessage(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPesanTidakDitemukan
		}
		return nil, err
	}
	return pesan, nil
}

func (s *chatService) FetchHistory(ctx context.Context, roomID, callerID string) ([]model.Message, error) {
	if err := s.pastikanAnggotaRoom(ctx, roomID, callerID); err != nil {
		return nil, err
	}
	return s.chatRepo.FindMessagesByRoom(ctx, roomID)
}

func (s *chatService) FetchLatestWithAttachment(ctx context.Context, roomID, callerID string) (*model.Message, error) {
	if err := s.pastikanAnggotaRoom(ctx, roomID, callerID); err != nil {
		return nil, err
	}
	pesan, err := s.chatRepo.FindLatestWithAttachment(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTidakAdaPesanLampiran
	}
	return pesan, err
}

func (s *chatService) IngestAttachments(ctx context.Context, files []FileUpload) ([]model.MessageAttachment, error) {
	attachments, err := s.attachmentSvc.Ingest(ctx, storage.KategoriChat, files)
	if err != nil {
		return nil, err
	}
	hasil := make([]model.MessageAttachment, 0, len(attachments))
	for _, a := range attachments {
		hasil = append(hasil, model.MessageAttachment{
			FileName: a.Nama,
			FileURL:  a.URL,
			// FileType diambil dari baris attachment, bukan header request:
			// ingest sudah men-sniff tipe untuk berkas tanpa Content-Type.
			FileType: a.FileType,
		})
	}
	return hasil, nil
}
