package service

import (
	"context"
	"log"
	"time"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"
)

const (
	intervalOutbox = 5 * time.Second
	batchOutbox    = 50
)

// OutboxWorker mengalirkan intent chat_outbox (ditulis di dalam transaksi
// relasional kegiatan) ke MongoDB: create room saat kegiatan dibuat, hapus
// room + pesan saat kegiatan dihapus. Operasi Mongo-nya idempoten, jadi entry
// yang gagal mark-processed aman diproses ulang — crash di antara dua store
// berujung retry, bukan inkonsistensi diam-diam.
type OutboxWorker struct {
	outboxRepo repository.OutboxRepository
	chatRepo   repository.ChatRepository
}

// NewOutboxWorker membuat worker outbox chat.
func NewOutboxWorker(outboxRepo repository.OutboxRepository, chatRepo repository.ChatRepository) *OutboxWorker {
	return &OutboxWorker{outboxRepo: outboxRepo, chatRepo: chatRepo}
}

// Run memproses outbox secara periodik sampai ctx dibatalkan.
// Jalankan sebagai goroutine dari main.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(intervalOutbox)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProsesSekali(ctx); err != nil {
				log.Printf("⚠️  [OUTBOX] gagal memproses batch: %v", err)
			}
		}
	}
}

// ProsesSekali mengambil satu batch entry yang belum diproses dan
// mengeksekusinya berurutan. Entry yang gagal dibiarkan unprocessed untuk
// dicoba lagi tick berikutnya.
func (w *OutboxWorker) ProsesSekali(ctx context.Context) error {
	entries, err := w.outboxRepo.FindUnprocessed(ctx, batchOutbox)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := w.eksekusi(ctx, entry); err != nil {
			log.Printf("⚠️  [OUTBOX] entry %d (%s %s) gagal: %v", entry.ID, entry.Action, entry.KegiatanID, err)
			continue
		}
		if err := w.outboxRepo.MarkProcessed(ctx, entry.ID); err != nil {
			log.Printf("⚠️  [OUTBOX] gagal menandai entry %d: %v", entry.ID, err)
		}
	}
	return nil
}

func (w *OutboxWorker) eksekusi(ctx context.Context, entry model.ChatOutbox) error {
	switch entry.Action {
	case model.OutboxCreateRoom:
		return w.chatRepo.EnsureRoom(ctx, entry.KegiatanID)
	case model.OutboxDeleteRoom:
		return w.chatRepo.DeleteRoomWithMessages(ctx, entry.KegiatanID)
	default:
		log.Printf("⚠️  [OUTBOX] action tidak dikenal: %s", entry.Action)
		return nil
	}
}
