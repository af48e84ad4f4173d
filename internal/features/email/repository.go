package email

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"resolvex/internal/database"
)

type Repository struct {
	col *mongo.Collection
}

func NewRepository(db *database.MongodbDB) *Repository {
	return &Repository{col: db.DB.Collection("emails")}
}

func (r *Repository) Create(ctx context.Context, msg *Message) error {
	msg.CreatedAt = time.Now()
	_, err := r.col.InsertOne(ctx, msg)
	return err
}

func (r *Repository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status DeliveryStatus, errorMsg string) error {
	set := bson.M{
		"status":        status,
		"error_message": errorMsg,
	}
	if status == StatusSent {
		set["sent_at"] = time.Now()
	}
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}
