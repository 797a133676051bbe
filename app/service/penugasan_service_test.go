package service

import (
	"context"
	"errors"
	"testing"

	"kegiatan-backend/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPastikanBolehKelola(t *testing.T) {
	kegiatanID := model.NewID()
	ketua := &model.JabatanAnggota{ID: model.NewID(), Nama: "Ketua", IsPIC: true}
	anggotaBiasa := &model.JabatanAnggota{ID: model.NewID(), Nama: "Anggota", IsPIC: false}

	picUserID := model.NewID()
	memberUserID := model.NewID()
	luarUserID := model.NewID()

	penugasanRepo := newFakePenugasanRepo()
	penugasanRepo.tambahAnggota(kegiatanID, picUserID, ketua)
	penugasanRepo.tambahAnggota(kegiatanID, memberUserID, anggotaBiasa)

	svc := NewPenugasanService(penugasanRepo, newFakeKegiatanRepo(), newFakeChatRepo())

	tests := []struct {
		name    string
		role    string
		userID  string
		wantErr error
	}{
		{name: "admin selalu boleh", role: model.RoleAdmin, userID: luarUserID},
		{name: "manajemen selalu boleh", role: model.RoleManajemen, userID: luarUserID},
		{name: "dosen PIC boleh", role: model.RoleDosen, userID: picUserID},
		{name: "dosen anggota non-PIC ditolak", role: model.RoleDosen, userID: memberUserID, wantErr: ErrBukanPIC},
		{name: "dosen bukan anggota ditolak", role: model.RoleDosen, userID: luarUserID, wantErr: ErrBukanAnggota},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.PastikanBolehKelola(context.Background(), tt.role, kegiatanID, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoleOfBukanAnggota(t *testing.T) {
	svc := NewPenugasanService(newFakePenugasanRepo(), newFakeKegiatanRepo(), newFakeChatRepo())

	_, err := svc.RoleOf(context.Background(), model.NewID(), model.NewID())
	assert.ErrorIs(t, err, ErrBukanAnggota)
}

func TestAssignUsersUpsertDanSyncRoom(t *testing.T) {
	kegiatanID := model.NewID()
	ketua := &model.JabatanAnggota{ID: model.NewID(), Nama: "Ketua", IsPIC: true}
	anggotaBiasa := &model.JabatanAnggota{ID: model.NewID(), Nama: "Anggota", IsPIC: false}

	penugasanRepo := newFakePenugasanRepo()
	penugasanRepo.jabatan[ketua.ID] = ketua
	penugasanRepo.jabatan[anggotaBiasa.ID] = anggotaBiasa

	kegiatanRepo := newFakeKegiatanRepo()
	kegiatanRepo.kegiatan[kegiatanID] = &model.Kegiatan{ID: kegiatanID, Judul: "Akreditasi 2026"}

	chatRepo := newFakeChatRepo()
	chatRepo.tambahRoom(kegiatanID)

	svc := NewPenugasanService(penugasanRepo, kegiatanRepo, chatRepo)

	userA := model.NewID()
	userB := model.NewID()

	hasil, err := svc.AssignUsers(context.Background(), kegiatanID, []PenugasanInput{
		{UserID: userA, JabatanID: ketua.ID},
		{UserID: userB, JabatanID: anggotaBiasa.ID},
	})
	require.NoError(t, err)
	assert.Len(t, hasil, 2)

	// Membership room chat ikut tersinkron.
	assert.ElementsMatch(t, []string{userA, userB}, chatRepo.rooms[kegiatanID].AssignedUsers)

	// Pasangan (user, kegiatan) yang sudah ada di-update jabatannya, bukan error.
	_, err = svc.AssignUsers(context.Background(), kegiatanID, []PenugasanInput{
		{UserID: userB, JabatanID: ketua.ID},
	})
	require.NoError(t, err)
	status, err := svc.RoleOf(context.Background(), kegiatanID, userB)
	require.NoError(t, err)
	assert.Equal(t, ketua.ID, status.JabatanID)
}

func TestAssignUsersKegiatanTidakAda(t *testing.T) {
	svc := NewPenugasanService(newFakePenugasanRepo(), newFakeKegiatanRepo(), newFakeChatRepo())

	_, err := svc.AssignUsers(context.Background(), model.NewID(), []PenugasanInput{
		{UserID: model.NewID(), JabatanID: model.NewID()},
	})
	assert.ErrorIs(t, err, ErrKegiatanTidakDitemukan)
}

func TestAssignUsersGagalSyncChatTidakMembatalkan(t *testing.T) {
	kegiatanID := model.NewID()
	jabatanID := model.NewID()

	penugasanRepo := newFakePenugasanRepo()
	penugasanRepo.jabatan[jabatanID] = &model.JabatanAnggota{ID: jabatanID, Nama: "Anggota"}

	kegiatanRepo := newFakeKegiatanRepo()
	kegiatanRepo.kegiatan[kegiatanID] = &model.Kegiatan{ID: kegiatanID}

	chatRepo := newFakeChatRepo()
	chatRepo.addMembersErr = errors.New("mongo down")

	svc := NewPenugasanService(penugasanRepo, kegiatanRepo, chatRepo)

	userID := model.NewID()
	hasil, err := svc.AssignUsers(context.Background(), kegiatanID, []PenugasanInput{
		{UserID: userID, JabatanID: jabatanID},
	})

	// Penugasan relasional tetap sukses meski sync chat gagal (best-effort).
	require.NoError(t, err)
	assert.Len(t, hasil, 1)
}

func TestUnassignUserMengembalikanSnapshot(t *testing.T) {
	kegiatanID := model.NewID()
	userID := model.NewID()
	jabatan := &model.JabatanAnggota{ID: model.NewID(), Nama: "Sekretaris"}

	penugasanRepo := newFakePenugasanRepo()
	baris := penugasanRepo.tambahAnggota(kegiatanID, userID, jabatan)

	svc := NewPenugasanService(penugasanRepo, newFakeKegiatanRepo(), newFakeChatRepo())

	snapshot, err := svc.UnassignUser(context.Background(), kegiatanID, userID)
	require.NoError(t, err)
	assert.Equal(t, baris.ID, snapshot.ID)

	// Setelah dilepas, user bukan anggota lagi.
	_, err = svc.RoleOf(context.Background(), kegiatanID, userID)
	assert.ErrorIs(t, err, ErrBukanAnggota)
}
