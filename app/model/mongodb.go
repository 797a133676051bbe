package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRoom merepresentasikan 1 room chat di MongoDB (collection: chat_rooms).
// _id room = id kegiatan pasangannya, jadi relasi 1:1 tanpa tabel mapping.
// AssignedUsers harus selalu subset anggota kegiatan; di-sync (ditambah) setiap
// AssignUsers sukses. Catatan: membership tidak di-prune saat user dilepas dari
// kegiatan (lihat DESIGN.md).
type ChatRoom struct {
	ID            string    `bson:"_id"`           // sama dengan kegiatan.ID
	AssignedUsers []string  `bson:"assignedUsers"` // daftar userId 24 hex
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

// Message merepresentasikan 1 pesan chat (collection: chat_messages).
type Message struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RoomID      string              `bson:"roomId" json:"roomId"`
	SenderID    string              `bson:"senderId" json:"senderId"`
	Text        string              `bson:"text" json:"text"`
	Attachments []MessageAttachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// MessageAttachment adalah lampiran pesan chat. File-nya sendiri sudah melalui
// ingest content-addressed (kategori "chat"), di sini cuma metadata + URL.
type MessageAttachment struct {
	FileName string `bson:"fileName" json:"fileName"`
	FileURL  string `bson:"fileUrl" json:"fileUrl"`
	FileType string `bson:"fileType" json:"fileType"`
}
