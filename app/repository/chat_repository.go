package repository

import (
	"context"
	"errors"
	"time"

	"kegiatan-backend/app/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	koleksiRoom  = "chat_rooms"
	koleksiPesan = "chat_messages"
)

// ChatRepository menangani room + pesan chat di MongoDB.
// Room ber-_id sama dengan id kegiatan pasangannya.
type ChatRepository interface {
	// EnsureRoom membuat room untuk kegiatan bila belum ada (upsert,
	// idempoten — aman dipanggil ulang oleh outbox worker).
	EnsureRoom(ctx context.Context, kegiatanID string) error

	// DeleteRoomWithMessages menghapus room + seluruh pesannya. Idempoten:
	// room yang sudah tidak ada bukan error.
	DeleteRoomWithMessages(ctx context.Context, roomID string) error

	// AddMembers menambah userId ke assignedUsers room ($addToSet, tanpa
	// duplikat). Dipanggil setiap AssignUsers kegiatan sukses.
	AddMembers(ctx context.Context, roomID string, userIDs []string) error

	FindRoom(ctx context.Context, roomID string) (*model.ChatRoom, error)

	InsertMessage(ctx context.Context, pesan *model.Message) error
	FindMessageByID(ctx context.Context, id string) (*model.Message, error)
	UpdateMessageText(ctx context.Context, id string, text string) (*model.Message, error)
	DeleteMessage(ctx context.Context, id string) error

	// FindMessagesByRoom mengembalikan seluruh pesan room urut createdAt naik.
	FindMessagesByRoom(ctx context.Context, roomID string) ([]model.Message, error)

	// FindLatestWithAttachment mengembalikan pesan terbaru yang punya minimal
	// satu lampiran, atau ErrNotFound bila tidak ada.
	FindLatestWithAttachment(ctx context.Context, roomID string) (*model.Message, error)
}

type chatRepository struct {
	mongoDB *mongo.Database
}

// NewChatRepository membuat instance repository chat.
func NewChatRepository(mongoDB *mongo.Database) ChatRepository {
	return &chatRepository{mongoDB: mongoDB}
}

func (r *chatRepository) EnsureRoom(ctx context.Context, kegiatanID string) error {
	now := time.Now()
	_, err := r.mongoDB.Collection(koleksiRoom).UpdateOne(ctx,
		bson.M{"_id": kegiatanID},
		bson.M{
			"$setOnInsert": bson.M{
				"assignedUsers": []string{},
				"createdAt":     now,
			},
			"$set": bson.M{"updatedAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *chatRepository) DeleteRoomWithMessages(ctx context.Context, roomID string) error {
	if _, err := r.mongoDB.Collection(koleksiPesan).
		DeleteMany(ctx, bson.M{"roomId": roomID}); err != nil {
		return err
	}
	_, err := r.mongoDB.Collection(koleksiRoom).
		DeleteOne(ctx, bson.M{"_id": roomID})
	return err
}

func (r *chatRepository) AddMembers(ctx context.Context, roomID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	res, err := r.mongoDB.Collection(koleksiRoom).UpdateOne(ctx,
		bson.M{"_id": roomID},
		bson.M{
			"$addToSet": bson.M{"assignedUsers": bson.M{"$each": userIDs}},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *chatRepository) FindRoom(ctx context.Context, roomID string) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := r.mongoDB.Collection(koleksiRoom).
		FindOne(ctx, bson.M{"_id": roomID}).
		Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) InsertMessage(ctx context.Context, pesan *model.Message) error {
	now := time.Now()
	if pesan.CreatedAt.IsZero() {
		pesan.CreatedAt = now
	}
	pesan.UpdatedAt = now

	res, err := r.mongoDB.Collection(koleksiPesan).InsertOne(ctx, pesan)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		pesan.ID = oid
	}
	return nil
}

func (r *chatRepository) FindMessageByID(ctx context.Context, id string) (*model.Message, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var pesan model.Message
	err = r.mongoDB.Collection(koleksiPesan).
		FindOne(ctx, bson.M{"_id": objID}).
		Decode(&pesan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pesan, nil
}

func (r *chatRepository) UpdateMessageText(ctx context.Context, id string, text string) (*model.Message, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	after := options.After
	var pesan model.Message
	err = r.mongoDB.Collection(koleksiPesan).
		FindOneAndUpdate(ctx,
			bson.M{"_id": objID},
			bson.M{"$set": bson.M{"text": text, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).
		Decode(&pesan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pesan, nil
}

func (r *chatRepository) DeleteMessage(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.mongoDB.Collection(koleksiPesan).
		DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *chatRepository) FindMessagesByRoom(ctx context.Context, roomID string) ([]model.Message, error) {
	cur, err := r.mongoDB.Collection(koleksiPesan).Find(ctx,
		bson.M{"roomId": roomID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pesan []model.Message
	if err := cur.All(ctx, &pesan); err != nil {
		return nil, err
	}
	return pesan, nil
}

func (r *chatRepository) FindLatestWithAttachment(ctx context.Context, roomID string) (*model.Message, error) {
	var pesan model.Message
	err := r.mongoDB.Collection(koleksiPesan).
		FindOne(ctx,
			bson.M{
				"roomId":        roomID,
				"attachments.0": bson.M{"$exists": true},
			},
			options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		).
		Decode(&pesan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pesan, nil
}
