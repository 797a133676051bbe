package service

import (
	"context"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fake repository in-memory untuk menguji service tanpa database.
// Perilaku error mengikuti kontrak repository: ErrNotFound untuk baris absen,
// ConstraintViolation untuk pelanggaran unique.

func kunciAnggota(kegiatanID, userID string) string {
	return kegiatanID + "|" + userID
}

// ---------- PenugasanRepository ----------

type fakePenugasanRepo struct {
	anggota map[string]*model.UserToKegiatan // key: kegiatanID|userID
	jabatan map[string]*model.JabatanAnggota

	upsertErr error
}

func newFakePenugasanRepo() *fakePenugasanRepo {
	return &fakePenugasanRepo{
		anggota: make(map[string]*model.UserToKegiatan),
		jabatan: make(map[string]*model.JabatanAnggota),
	}
}

func (f *fakePenugasanRepo) tambahAnggota(kegiatanID, userID string, jabatan *model.JabatanAnggota) *model.UserToKegiatan {
	row := &model.UserToKegiatan{
		ID:         model.NewID(),
		UserID:     userID,
		KegiatanID: kegiatanID,
		JabatanID:  jabatan.ID,
		Jabatan:    *jabatan,
	}
	f.anggota[kunciAnggota(kegiatanID, userID)] = row
	return row
}

func (f *fakePenugasanRepo) FindAnggota(ctx context.Context, kegiatanID, userID string) (*model.UserToKegiatan, error) {
	row, ok := f.anggota[kunciAnggota(kegiatanID, userID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return row, nil
}

func (f *fakePenugasanRepo) FindAnggotaByKegiatan(ctx context.Context, kegiatanID string) ([]model.UserToKegiatan, error) {
	var daftar []model.UserToKegiatan
	for _, row := range f.anggota {
		if row.KegiatanID == kegiatanID {
			daftar = append(daftar, *row)
		}
	}
	return daftar, nil
}

func (f *fakePenugasanRepo) UpsertBatch(ctx context.Context, rows []model.UserToKegiatan) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, row := range rows {
		key := kunciAnggota(row.KegiatanID, row.UserID)
		if existing, ok := f.anggota[key]; ok {
			existing.JabatanID = row.JabatanID
			continue
		}
		salinan := row
		if salinan.ID == "" {
			salinan.ID = model.NewID()
		}
		if jab, ok := f.jabatan[salinan.JabatanID]; ok {
			salinan.Jabatan = *jab
		}
		f.anggota[key] = &salinan
	}
	return nil
}

func (f *fakePenugasanRepo) Unassign(ctx context.Context, kegiatanID, userID string) error {
	key := kunciAnggota(kegiatanID, userID)
	if _, ok := f.anggota[key]; !ok {
		return repository.ErrNotFound
	}
	delete(f.anggota, key)
	return nil
}

func (f *fakePenugasanRepo) FindJabatanByID(ctx context.Context, id string) (*model.JabatanAnggota, error) {
	jab, ok := f.jabatan[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return jab, nil
}

// ---------- KegiatanRepository ----------

type createKegiatanCall struct {
	kompetensiIDs []string
	creator       *model.UserToKegiatan
}

type fakeKegiatanRepo struct {
	kegiatan map[string]*model.Kegiatan
	jenis    map[string]*model.JenisKegiatan

	createCalls []createKegiatanCall
	lampiran    map[string][]string // kegiatanID -> attachmentIDs
}

func newFakeKegiatanRepo() *fakeKegiatanRepo {
	return &fakeKegiatanRepo{
		kegiatan: make(map[string]*model.Kegiatan),
		jenis:    make(map[string]*model.JenisKegiatan),
		lampiran: make(map[string][]string),
	}
}

func (f *fakeKegiatanRepo) Create(ctx context.Context, kegiatan *model.Kegiatan, kompetensiIDs []string, creator *model.UserToKegiatan) error {
	if kegiatan.ID == "" {
		kegiatan.ID = model.NewID()
	}
	f.kegiatan[kegiatan.ID] = kegiatan
	f.createCalls = append(f.createCalls, createKegiatanCall{
		kompetensiIDs: kompetensiIDs,
		creator:       creator,
	})
	return nil
}

func (f *fakeKegiatanRepo) FindByID(ctx context.Context, id string) (*model.Kegiatan, error) {
	k, ok := f.kegiatan[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return k, nil
}

func (f *fakeKegiatanRepo) FindAll(ctx context.Context) ([]model.Kegiatan, error) {
	var daftar []model.Kegiatan
	for _, k := range f.kegiatan {
		daftar = append(daftar, *k)
	}
	return daftar, nil
}

func (f *fakeKegiatanRepo) Update(ctx context.Context, kegiatan *model.Kegiatan, kompetensiIDs []string) error {
	if _, ok := f.kegiatan[kegiatan.ID]; !ok {
		return repository.ErrNotFound
	}
	f.kegiatan[kegiatan.ID] = kegiatan
	return nil
}

func (f *fakeKegiatanRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.kegiatan[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.kegiatan, id)
	return nil
}

func (f *fakeKegiatanRepo) FindJenisByID(ctx context.Context, id string) (*model.JenisKegiatan, error) {
	j, ok := f.jenis[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return j, nil
}

func (f *fakeKegiatanRepo) AddLampiran(ctx context.Context, kegiatanID string, attachmentIDs []string) error {
	f.lampiran[kegiatanID] = append(f.lampiran[kegiatanID], attachmentIDs...)
	return nil
}

func (f *fakeKegiatanRepo) RemoveLampiran(ctx context.Context, kegiatanID string, attachmentID string) error {
	sisa := f.lampiran[kegiatanID][:0]
	found := false
	for _, id := range f.lampiran[kegiatanID] {
		if id == attachmentID {
			found = true
			continue
		}
		sisa = append(sisa, id)
	}
	if !found {
		return repository.ErrNotFound
	}
	f.lampiran[kegiatanID] = sisa
	return nil
}

// ---------- ChatRepository ----------

type fakeChatRepo struct {
	rooms    map[string]*model.ChatRoom
	messages []*model.Message

	addMembersCalls map[string][]string
	addMembersErr   error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:           make(map[string]*model.ChatRoom),
		addMembersCalls: make(map[string][]string),
	}
}

func (f *fakeChatRepo) tambahRoom(roomID string, userIDs ...string) {
	f.rooms[roomID] = &model.ChatRoom{ID: roomID, AssignedUsers: userIDs}
}

func (f *fakeChatRepo) EnsureRoom(ctx context.Context, kegiatanID string) error {
	if _, ok := f.rooms[kegiatanID]; !ok {
		f.rooms[kegiatanID] = &model.ChatRoom{ID: kegiatanID, AssignedUsers: []string{}}
	}
	return nil
}

func (f *fakeChatRepo) DeleteRoomWithMessages(ctx context.Context, roomID string) error {
	delete(f.rooms, roomID)
	sisa := f.messages[:0]
	for _, m := range f.messages {
		if m.RoomID != roomID {
			sisa = append(sisa, m)
		}
	}
	f.messages = sisa
	return nil
}

func (f *fakeChatRepo) AddMembers(ctx context.Context, roomID string, userIDs []string) error {
	if f.addMembersErr != nil {
		return f.addMembersErr
	}
	f.addMembersCalls[roomID] = append(f.addMembersCalls[roomID], userIDs...)
	room, ok := f.rooms[roomID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, id := range userIDs {
		ada := false
		for _, existing := range room.AssignedUsers {
			if existing == id {
				ada = true
				break
			}
		}
		if !ada {
			room.AssignedUsers = append(room.AssignedUsers, id)
		}
	}
	return nil
}

func (f *fakeChatRepo) FindRoom(ctx context.Context, roomID string) (*model.ChatRoom, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return room, nil
}

func (f *fakeChatRepo) InsertMessage(ctx context.Context, pesan *model.Message) error {
	if pesan.ID.IsZero() {
		pesan.ID = primitive.NewObjectID()
	}
	f.messages = append(f.messages, pesan)
	return nil
}

func (f *fakeChatRepo) FindMessageByID(ctx context.Context, id string) (*model.Message, error) {
	for _, m := range f.messages {
		if m.ID.Hex() == id {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeChatRepo) UpdateMessageText(ctx context.Context, id string, text string) (*model.Message, error) {
	m, err := f.FindMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Text = text
	return m, nil
}

func (f *fakeChatRepo) DeleteMessage(ctx context.Context, id string) error {
	for i, m := range f.messages {
		if m.ID.Hex() == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeChatRepo) FindMessagesByRoom(ctx context.Context, roomID string) ([]model.Message, error) {
	var daftar []model.Message
	for _, m := range f.messages {
		if m.RoomID == roomID {
			daftar = append(daftar, *m)
		}
	}
	return daftar, nil
}

func (f *fakeChatRepo) FindLatestWithAttachment(ctx context.Context, roomID string) (*model.Message, error) {
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if m.RoomID == roomID && len(m.Attachments) > 0 {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ---------- AttachmentRepository ----------

type fakeAttachmentRepo struct {
	byHash map[string]*model.Attachment
	byID   map[string]*model.Attachment

	// createErrSekali: error yang dikembalikan SATU kali pada Create berikutnya
	// (untuk mensimulasikan kalah race unique).
	createErrSekali error
	createCount     int
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{
		byHash: make(map[string]*model.Attachment),
		byID:   make(map[string]*model.Attachment),
	}
}

func (f *fakeAttachmentRepo) simpan(att *model.Attachment) {
	if att.ID == "" {
		att.ID = model.NewID()
	}
	f.byHash[att.Hash] = att
	f.byID[att.ID] = att
}

func (f *fakeAttachmentRepo) FindByHash(ctx context.Context, hash string) (*model.Attachment, error) {
	att, ok := f.byHash[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return att, nil
}

func (f *fakeAttachmentRepo) Create(ctx context.Context, attachment *model.Attachment) error {
	f.createCount++
	if f.createErrSekali != nil {
		err := f.createErrSekali
		f.createErrSekali = nil
		return err
	}
	f.simpan(attachment)
	return nil
}

func (f *fakeAttachmentRepo) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	att, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return att, nil
}

// ---------- BlobStore ----------

type fakeBlobStore struct {
	putCount int
	putKeys  []string

	// gagalPadaNama: nama kategori_digest tidak relevan di sini; gagal
	// berdasarkan urutan panggilan ke-N (1-based). 0 = tidak pernah gagal.
	gagalPadaPanggilan int
	errGagal           error
}

func (f *fakeBlobStore) Put(ctx context.Context, kategori, digest string, data []byte, contentType string) (string, error) {
	f.putCount++
	if f.gagalPadaPanggilan != 0 && f.putCount == f.gagalPadaPanggilan {
		return "", f.errGagal
	}
	key := kategori + "_" + digest
	f.putKeys = append(f.putKeys, key)
	return "https://blob.test/" + key, nil
}

// ---------- AgendaRepository ----------

type fakeAgendaRepo struct {
	agenda     map[string]*model.Agenda
	anggotaSet map[string][]string // agendaID -> userToKegiatan IDs
}

func newFakeAgendaRepo() *fakeAgendaRepo {
	return &fakeAgendaRepo{
		agenda:     make(map[string]*model.Agenda),
		anggotaSet: make(map[string][]string),
	}
}

func (f *fakeAgendaRepo) Create(ctx context.Context, agenda *model.Agenda) error {
	if agenda.ID == "" {
		agenda.ID = model.NewID()
	}
	f.agenda[agenda.ID] = agenda
	return nil
}

func (f *fakeAgendaRepo) FindByID(ctx context.Context, id string) (*model.Agenda, error) {
	a, ok := f.agenda[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAgendaRepo) FindByKegiatan(ctx context.Context, kegiatanID string) ([]model.Agenda, error) {
	var daftar []model.Agenda
	for _, a := range f.agenda {
		if a.KegiatanID == kegiatanID {
			daftar = append(daftar, *a)
		}
	}
	return daftar, nil
}

func (f *fakeAgendaRepo) Update(ctx context.Context, agenda *model.Agenda) error {
	if _, ok := f.agenda[agenda.ID]; !ok {
		return repository.ErrNotFound
	}
	f.agenda[agenda.ID] = agenda
	return nil
}

func (f *fakeAgendaRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.agenda[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.agenda, id)
	return nil
}

func (f *fakeAgendaRepo) SetAnggota(ctx context.Context, agendaID string, userToKegiatanIDs []string) error {
	f.anggotaSet[agendaID] = userToKegiatanIDs
	return nil
}
