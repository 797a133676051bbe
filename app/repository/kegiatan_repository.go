package repository

import (
	"context"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KegiatanRepository menangani aggregate Kegiatan beserta junction-nya
// (kompetensi, lampiran, anggota pembuat) secara transaksional.
type KegiatanRepository interface {
	// Create menyimpan kegiatan + junction kompetensi + baris anggota pembuat
	// (jika ada) + intent outbox create_room dalam SATU transaksi.
	Create(ctx context.Context, kegiatan *model.Kegiatan, kompetensiIDs []string, creator *model.UserToKegiatan) error

	FindByID(ctx context.Context, id string) (*model.Kegiatan, error)
	FindAll(ctx context.Context) ([]model.Kegiatan, error)

	// Update memperbarui field skalar + re-link kompetensi (upsert, tidak
	// menduplikasi) dalam satu transaksi.
	Update(ctx context.Context, kegiatan *model.Kegiatan, kompetensiIDs []string) error

	// Delete melakukan soft-delete kegiatan + agenda + progress miliknya,
	// hard-delete seluruh junction, dan menulis intent outbox delete_room,
	// semuanya dalam satu transaksi.
	Delete(ctx context.Context, id string) error

	FindJenisByID(ctx context.Context, id string) (*model.JenisKegiatan, error)

	// AddLampiran me-link attachment ke kegiatan (insert-or-ignore:
	// submit ulang file yang sama ke kegiatan yang sama idempoten).
	AddLampiran(ctx context.Context, kegiatanID string, attachmentIDs []string) error
	RemoveLampiran(ctx context.Context, kegiatanID string, attachmentID string) error
}

type kegiatanRepository struct {
	db *gorm.DB
}

// NewKegiatanRepository membuat instance repository kegiatan.
func NewKegiatanRepository(db *gorm.DB) KegiatanRepository {
	return &kegiatanRepository{db: db}
}

// linkKompetensi meng-upsert junction kegiatan_kompetensi.
// Duplikat (kegiatan, kompetensi) di-skip lewat ON CONFLICT DO NOTHING.
func linkKompetensi(tx *gorm.DB, kegiatanID string, kompetensiIDs []string) error {
	if len(kompetensiIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(kompetensiIDs))
	for _, kid := range kompetensiIDs {
		rows = append(rows, map[string]interface{}{
			"kegiatan_id":   kegiatanID,
			"kompetensi_id": kid,
		})
	}
	return tx.Table("kegiatan_kompetensi").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
}

func (r *kegiatanRepository) Create(ctx context.Context, kegiatan *model.Kegiatan, kompetensiIDs []string, creator *model.UserToKegiatan) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(kegiatan).Error; err != nil {
			return err
		}
		if err := linkKompetensi(tx, kegiatan.ID, kompetensiIDs); err != nil {
			return err
		}
		if creator != nil {
			creator.KegiatanID = kegiatan.ID
			if err := tx.Omit(clause.Associations).Create(creator).Error; err != nil {
				return err
			}
		}
		// Room chat pasangan dibuat di Mongo oleh outbox worker, bukan di sini:
		// lintas store tidak ikut transaksi relasional.
		return tx.Create(&model.ChatOutbox{
			Action:     model.OutboxCreateRoom,
			KegiatanID: kegiatan.ID,
		}).Error
	})
	return translateError(err)
}

func (r *kegiatanRepository) FindByID(ctx context.Context, id string) (*model.Kegiatan, error) {
	var kegiatan model.Kegiatan
	err := r.db.WithContext(ctx).
		Preload("JenisKegiatan").
		Preload("Kompetensi").
		Preload("Lampiran").
		Preload("Agenda").
		Preload("Agenda.Progress").
		Preload("Anggota").
		Preload("Anggota.User").
		Preload("Anggota.Jabatan").
		First(&kegiatan, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &kegiatan, nil
}

func (r *kegiatanRepository) FindAll(ctx context.Context) ([]model.Kegiatan, error) {
	var daftar []model.Kegiatan
	err := r.db.WithContext(ctx).
		Preload("JenisKegiatan").
		Order("tanggal_mulai DESC").
		Find(&daftar).Error
	return daftar, translateError(err)
}

func (r *kegiatanRepository) Update(ctx context.Context, kegiatan *model.Kegiatan, kompetensiIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(kegiatan).Error; err != nil {
			return err
		}
		return linkKompetensi(tx, kegiatan.ID, kompetensiIDs)
	})
	return translateError(err)
}

func (r *kegiatanRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Junction dulu (hard delete), lalu anak (soft delete), terakhir induk.
		// Progress attachment & agenda_anggota mengacu lewat agenda, jadi pakai subquery.
		if err := tx.Exec(`DELETE FROM progress_attachments WHERE progress_id IN (
				SELECT p.id FROM progress p JOIN agenda a ON a.id = p.agenda_id WHERE a.kegiatan_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM agenda_anggota WHERE agenda_id IN (
				SELECT id FROM agenda WHERE kegiatan_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM kegiatan_lampiran WHERE kegiatan_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM kegiatan_kompetensi WHERE kegiatan_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM user_to_kegiatan WHERE kegiatan_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`UPDATE progress SET deleted_at = NOW() WHERE deleted_at IS NULL AND agenda_id IN (
				SELECT id FROM agenda WHERE kegiatan_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Agenda{}, "kegiatan_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Kegiatan{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		// Penghapusan room + pesan di Mongo dikerjakan outbox worker.
		return tx.Create(&model.ChatOutbox{
			Action:     model.OutboxDeleteRoom,
			KegiatanID: id,
		}).Error
	})
	return translateError(err)
}

func (r *kegiatanRepository) FindJenisByID(ctx context.Context, id string) (*model.JenisKegiatan, error) {
	var jenis model.JenisKegiatan
	if err := r.db.WithContext(ctx).First(&jenis, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &jenis, nil
}

func (r *kegiatanRepository) AddLampiran(ctx context.Context, kegiatanID string, attachmentIDs []string) error {
	if len(attachmentIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(attachmentIDs))
	for _, aid := range attachmentIDs {
		rows = append(rows, map[string]interface{}{
			"kegiatan_id":   kegiatanID,
			"attachment_id": aid,
		})
	}
	err := r.db.WithContext(ctx).Table("kegiatan_lampiran").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
	return translateError(err)
}

func (r *kegiatanRepository) RemoveLampiran(ctx context.Context, kegiatanID string, attachmentID string) error {
	res := r.db.WithContext(ctx).
		Exec(`DELETE FROM kegiatan_lampiran WHERE kegiatan_id = ? AND attachment_id = ?`, kegiatanID, attachmentID)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
