package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// Role global user. Otoritas per-kegiatan TIDAK ditentukan di sini,
// melainkan lewat baris UserToKegiatan + jabatannya.
const (
	RoleAdmin     = "admin"
	RoleManajemen = "manajemen"
	RoleDosen     = "dosen"
)

// NewID menghasilkan ID 24 karakter hex (ObjectID) yang dipakai seragam
// di Postgres maupun MongoDB, supaya id kegiatan bisa langsung jadi id room chat.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// User merepresentasikan pengguna sistem (admin, manajemen, dosen).
type User struct {
	ID           string         `gorm:"type:char(24);primaryKey" json:"id"`
	NIDN         string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"nidn"`
	Nama         string         `gorm:"not null" json:"nama"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Role         string         `gorm:"type:varchar(20);not null;check:role IN ('admin','manajemen','dosen')" json:"role"`
	FotoProfil   string         `json:"fotoProfil"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Kompetensi   []Kompetensi   `gorm:"many2many:user_kompetensi;" json:"kompetensi,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// Nama tabel dibuat eksplisit (singular bahasa Indonesia) supaya raw SQL di
// repository dan tag many2many tidak bergantung pada pluralisasi GORM.
func (JenisKegiatan) TableName() string  { return "jenis_kegiatan" }
func (Kegiatan) TableName() string       { return "kegiatan" }
func (JabatanAnggota) TableName() string { return "jabatan_anggota" }
func (UserToKegiatan) TableName() string { return "user_to_kegiatan" }
func (Agenda) TableName() string         { return "agenda" }
func (Progress) TableName() string       { return "progress" }
func (Kompetensi) TableName() string     { return "kompetensi" }
func (ChatOutbox) TableName() string     { return "chat_outbox" }

// JenisKegiatan adalah master data tipe kegiatan.
// IsInstansi menandai kegiatan instansi: dosen hanya boleh membuatnya
// sambil menetapkan jabatannya sendiri (lihat KegiatanService.Create).
type JenisKegiatan struct {
	ID         string         `gorm:"type:char(24);primaryKey" json:"id"`
	Nama       string         `gorm:"uniqueIndex;not null" json:"nama"`
	IsInstansi bool           `gorm:"default:false" json:"isInstansi"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (j *JenisKegiatan) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = NewID()
	}
	return nil
}

// Kegiatan adalah aggregate utama: punya agenda, lampiran, anggota, kompetensi.
type Kegiatan struct {
	ID              string           `gorm:"type:char(24);primaryKey" json:"id"`
	Judul           string           `gorm:"not null" json:"judul"`
	JenisKegiatanID string           `gorm:"type:char(24);not null" json:"jenisKegiatanId"`
	JenisKegiatan   JenisKegiatan    `gorm:"foreignKey:JenisKegiatanID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"jenisKegiatan,omitempty"`
	TanggalMulai    time.Time        `json:"tanggalMulai"`
	TanggalSelesai  time.Time        `json:"tanggalSelesai"`
	Lokasi          string           `json:"lokasi"`
	Deskripsi       string           `json:"deskripsi"`
	IsDone          bool             `gorm:"default:false" json:"isDone"`
	Agenda          []Agenda         `gorm:"foreignKey:KegiatanID;constraint:OnDelete:CASCADE;" json:"agenda,omitempty"`
	Anggota         []UserToKegiatan `gorm:"foreignKey:KegiatanID;constraint:OnDelete:CASCADE;" json:"anggota,omitempty"`
	Kompetensi      []Kompetensi     `gorm:"many2many:kegiatan_kompetensi;" json:"kompetensi,omitempty"`
	Lampiran        []Attachment     `gorm:"many2many:kegiatan_lampiran;" json:"lampiran,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (k *Kegiatan) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = NewID()
	}
	return nil
}

// JabatanAnggota adalah master data jabatan per-kegiatan (ketua, anggota, dst).
// IsPIC menentukan apakah pemegang jabatan boleh mengelola kegiatan.
type JabatanAnggota struct {
	ID        string         `gorm:"type:char(24);primaryKey" json:"id"`
	Nama      string         `gorm:"uniqueIndex;not null" json:"nama"`
	IsPIC     bool           `gorm:"default:false" json:"isPic"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (j *JabatanAnggota) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = NewID()
	}
	return nil
}

// UserToKegiatan adalah junction user<->kegiatan pembawa jabatan.
// Keberadaan baris ini + flag IsPIC jabatannya adalah SATU-SATUNYA sumber
// otorisasi "boleh tidaknya user mengelola kegiatan".
type UserToKegiatan struct {
	ID         string         `gorm:"type:char(24);primaryKey" json:"id"`
	UserID     string         `gorm:"type:char(24);not null;uniqueIndex:idx_user_kegiatan" json:"userId"`
	User       User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	KegiatanID string         `gorm:"type:char(24);not null;uniqueIndex:idx_user_kegiatan" json:"kegiatanId"`
	JabatanID  string         `gorm:"type:char(24);not null" json:"jabatanId"`
	Jabatan    JabatanAnggota `gorm:"foreignKey:JabatanID;constraint:OnDelete:RESTRICT;" json:"jabatan,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u *UserToKegiatan) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// Agenda adalah sub-item terjadwal milik satu kegiatan.
// Anggota agenda mengacu ke baris UserToKegiatan (bukan langsung ke User),
// sehingga agenda hanya bisa ditugaskan ke user yang sudah anggota kegiatan induk.
type Agenda struct {
	ID         string           `gorm:"type:char(24);primaryKey" json:"id"`
	KegiatanID string           `gorm:"type:char(24);not null;index" json:"kegiatanId"`
	Jadwal     time.Time        `json:"jadwal"`
	Nama       string           `gorm:"not null" json:"nama"`
	Deskripsi  string           `json:"deskripsi"`
	IsDone     bool             `gorm:"default:false" json:"isDone"`
	Progress   []Progress       `gorm:"foreignKey:AgendaID;constraint:OnDelete:CASCADE;" json:"progress,omitempty"`
	Anggota    []UserToKegiatan `gorm:"many2many:agenda_anggota;" json:"anggota,omitempty"`
	CreatedAt  time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (a *Agenda) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}

// Progress adalah catatan perkembangan pada satu agenda.
type Progress struct {
	ID         string         `gorm:"type:char(24);primaryKey" json:"id"`
	AgendaID   string         `gorm:"type:char(24);not null;index" json:"agendaId"`
	Deskripsi  string         `gorm:"type:text;not null" json:"deskripsi"`
	Attachment []Attachment   `gorm:"many2many:progress_attachments;" json:"attachment,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// Attachment adalah berkas yang sudah diunggah ke blob store.
// Hash (SHA-256 hex) unik global: upload byte identik dipetakan ke baris
// yang sama dan hanya di-link ulang lewat junction (dedup content-addressed).
type Attachment struct {
	ID        string         `gorm:"type:char(24);primaryKey" json:"id"`
	Nama      string         `gorm:"not null" json:"nama"`
	Hash      string         `gorm:"type:char(64);uniqueIndex:idx_attachment_hash;not null" json:"hash"`
	URL       string         `gorm:"not null" json:"url"`
	FileType  string         `json:"fileType"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}

// Kompetensi adalah master data skill/tag, many-to-many dengan User dan Kegiatan.
type Kompetensi struct {
	ID        string         `gorm:"type:char(24);primaryKey" json:"id"`
	Nama      string         `gorm:"uniqueIndex;not null" json:"nama"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (k *Kompetensi) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = NewID()
	}
	return nil
}

// PasswordResetToken menyimpan hash token reset password.
// UserID unik: satu token aktif per user, request baru menghapus token lama
// (delete-then-insert).
type PasswordResetToken struct {
	ID        string    `gorm:"type:char(24);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(24);uniqueIndex;not null" json:"userId"`
	TokenHash string    `gorm:"type:char(64);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (p *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// Aksi outbox untuk sinkronisasi lintas store (Postgres -> Mongo).
const (
	OutboxCreateRoom = "create_room"
	OutboxDeleteRoom = "delete_room"
)

// ChatOutbox mencatat niat create/delete room chat di dalam transaksi
// relasional, supaya kegagalan menulis ke Mongo bisa di-retry oleh worker
// (bukan hilang diam-diam).
type ChatOutbox struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Action      string     `gorm:"type:varchar(20);not null" json:"action"`
	KegiatanID  string     `gorm:"type:char(24);not null;index" json:"kegiatanId"`
	ProcessedAt *time.Time `gorm:"index" json:"processedAt"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}
