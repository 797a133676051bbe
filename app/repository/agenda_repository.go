package repository

import (
	"context"

	"kegiatan-backend/app/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AgendaRepository menangani agenda milik kegiatan + keanggotaan agendanya.
type AgendaRepository interface {
	Create(ctx context.Context, agenda *model.Agenda) error
	FindByID(ctx context.Context, id string) (*model.Agenda, error)
	FindByKegiatan(ctx context.Context, kegiatanID string) ([]model.Agenda, error)
	Update(ctx context.Context, agenda *model.Agenda) error

	// Delete melakukan soft-delete agenda + progress-nya dan membersihkan
	// junction keanggotaan dalam satu transaksi.
	Delete(ctx context.Context, id string) error

	// SetAnggota mengganti keanggotaan agenda dengan daftar baris
	// user_to_kegiatan baru. Junction agenda_anggota mengacu ke
	// user_to_kegiatan (bukan langsung user), jadi FK-nya yang menjamin
	// anggota agenda adalah anggota kegiatan induk.
	SetAnggota(ctx context.Context, agendaID string, userToKegiatanIDs []string) error
}

type agendaRepository struct {
	db *gorm.DB
}

// NewAgendaRepository membuat instance repository agenda.
func NewAgendaRepository(db *gorm.DB) AgendaRepository {
	return &agendaRepository{db: db}
}

func (r *agendaRepository) Create(ctx context.Context, agenda *model.Agenda) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(agenda).Error)
}

func (r *agendaRepository) FindByID(ctx context.Context, id string) (*model.Agenda, error) {
	var agenda model.Agenda
	err := r.db.WithContext(ctx).
		Preload("Progress").
		Preload("Progress.Attachment").
		Preload("Anggota").
		Preload("Anggota.User").
		Preload("Anggota.Jabatan").
		First(&agenda, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &agenda, nil
}

func (r *agendaRepository) FindByKegiatan(ctx context.Context, kegiatanID string) ([]model.Agenda, error) {
	var daftar []model.Agenda
	err := r.db.WithContext(ctx).
		Preload("Anggota").
		Where("kegiatan_id = ?", kegiatanID).
		Order("jadwal ASC").
		Find(&daftar).Error
	return daftar, translateError(err)
}

func (r *agendaRepository) Update(ctx context.Context, agenda *model.Agenda) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(agenda).Error)
}

func (r *agendaRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM progress_attachments WHERE progress_id IN (
				SELECT id FROM progress WHERE agenda_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM agenda_anggota WHERE agenda_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Progress{}, "agenda_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Agenda{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err)
}

func (r *agendaRepository) SetAnggota(ctx context.Context, agendaID string, userToKegiatanIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM agenda_anggota WHERE agenda_id = ?`, agendaID).Error; err != nil {
			return err
		}
		if len(userToKegiatanIDs) == 0 {
			return nil
		}
		rows := make([]map[string]interface{}, 0, len(userToKegiatanIDs))
		for _, utkID := range userToKegiatanIDs {
			rows = append(rows, map[string]interface{}{
				"agenda_id":          agendaID,
				"user_to_kegiatan_id": utkID,
			})
		}
		return tx.Table("agenda_anggota").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(rows).Error
	})
	return translateError(err)
}
