package chat

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resolvex/internal/database"
)

type Repository interface {
	Create(ctx context.Context, msg *Message) error
	ListByComplaint(ctx context.Context, complaintID string) ([]Message, error)
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{collection: db.DB.Collection("chat_messages")}
}

func (r *RepositoryImpl) Create(ctx context.Context, msg *Message) error {
	msg.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// ListByComplaint returns the thread in chronological order. This is the
// durable ordering; live broadcasts are best effort.
func (r *RepositoryImpl) ListByComplaint(ctx context.Context, complaintID string) ([]Message, error) {
	oid, err := primitive.ObjectIDFromHex(complaintID)
	if err != nil {
		return nil, errors.New("invalid complaint id")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"complaint_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "complaint_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}
