package service

import (
	"context"
	"testing"
	"time"

	"kegiatan-backend/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAgendaKegiatanHarusAda(t *testing.T) {
	kegiatanRepo := newFakeKegiatanRepo()
	kegiatanID := model.NewID()
	kegiatanRepo.kegiatan[kegiatanID] = &model.Kegiatan{ID: kegiatanID}

	svc := NewAgendaService(newFakeAgendaRepo(), kegiatanRepo, newFakePenugasanRepo())

	agenda, err := svc.Create(context.Background(), AgendaInput{
		KegiatanID: kegiatanID,
		Jadwal:     time.Now().Add(24 * time.Hour),
		Nama:       "Rapat Persiapan",
	})
	require.NoError(t, err)
	assert.Equal(t, kegiatanID, agenda.KegiatanID)

	_, err = svc.Create(context.Background(), AgendaInput{
		KegiatanID: model.NewID(),
		Nama:       "Agenda Yatim",
	})
	assert.ErrorIs(t, err, ErrKegiatanTidakDitemukan)
}

func TestSetAnggotaAgendaHarusSubsetKegiatan(t *testing.T) {
	kegiatanID := model.NewID()
	jabatan := &model.JabatanAnggota{ID: model.NewID(), Nama: "Anggota"}

	kegiatanRepo := newFakeKegiatanRepo()
	kegiatanRepo.kegiatan[kegiatanID] = &model.Kegiatan{ID: kegiatanID}

	penugasanRepo := newFakePenugasanRepo()
	anggotaA := penugasanRepo.tambahAnggota(kegiatanID, model.NewID(), jabatan)
	anggotaB := penugasanRepo.tambahAnggota(kegiatanID, model.NewID(), jabatan)

	agendaRepo := newFakeAgendaRepo()
	agendaID := model.NewID()
	agendaRepo.agenda[agendaID] = &model.Agenda{ID: agendaID, KegiatanID: kegiatanID, Nama: "Rapat"}

	svc := NewAgendaService(agendaRepo, kegiatanRepo, penugasanRepo)

	t.Run("anggota kegiatan diterima", func(t *testing.T) {
		_, err := svc.SetAnggota(context.Background(), agendaID,
			[]string{anggotaA.UserID, anggotaB.UserID})
		require.NoError(t, err)

		// Junction diisi id baris user_to_kegiatan, bukan id user.
		assert.ElementsMatch(t, []string{anggotaA.ID, anggotaB.ID}, agendaRepo.anggotaSet[agendaID])
	})

	t.Run("user di luar kegiatan ditolak", func(t *testing.T) {
		_, err := svc.SetAnggota(context.Background(), agendaID,
			[]string{anggotaA.UserID, model.NewID()})
		assert.ErrorIs(t, err, ErrAnggotaBukanAnggotaKegiatan)
	})

	t.Run("agenda absen", func(t *testing.T) {
		_, err := svc.SetAnggota(context.Background(), model.NewID(), []string{anggotaA.UserID})
		assert.ErrorIs(t, err, ErrAgendaTidakDitemukan)
	})
}

func TestUpdateAgendaPartial(t *testing.T) {
	agendaRepo := newFakeAgendaRepo()
	agendaID := model.NewID()
	agendaRepo.agenda[agendaID] = &model.Agenda{
		ID:        agendaID,
		Nama:      "Nama Lama",
		Deskripsi: "Deskripsi tetap",
	}

	svc := NewAgendaService(agendaRepo, newFakeKegiatanRepo(), newFakePenugasanRepo())

	namaBaru := "Nama Baru"
	selesai := true
	hasil, err := svc.Update(context.Background(), agendaID, UpdateAgendaInput{
		Nama:   &namaBaru,
		IsDone: &selesai,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nama Baru", hasil.Nama)
	assert.True(t, hasil.IsDone)
	assert.Equal(t, "Deskripsi tetap", hasil.Deskripsi)
}

func TestDeleteAgendaMengembalikanSnapshot(t *testing.T) {
	agendaRepo := newFakeAgendaRepo()
	agendaID := model.NewID()
	agendaRepo.agenda[agendaID] = &model.Agenda{ID: agendaID, Nama: "Akan Dihapus"}

	svc := NewAgendaService(agendaRepo, newFakeKegiatanRepo(), newFakePenugasanRepo())

	snapshot, err := svc.Delete(context.Background(), agendaID)
	require.NoError(t, err)
	assert.Equal(t, "Akan Dihapus", snapshot.Nama)

	_, err = svc.Delete(context.Background(), agendaID)
	assert.ErrorIs(t, err, ErrAgendaTidakDitemukan)
}
