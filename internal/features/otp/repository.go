package otp

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resolvex/internal/database"
)

type Repository interface {
	Upsert(ctx context.Context, code *Code) error
	Find(ctx context.Context, identifier string, purpose Purpose) (*Code, error)
	IncrementAttempts(ctx context.Context, identifier string, purpose Purpose) (int, error)
	Delete(ctx context.Context, identifier string, purpose Purpose) error
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{collection: db.DB.Collection("otps")}
}

// Upsert replaces any outstanding code for the same identifier and purpose,
// resetting the attempt budget.
func (r *RepositoryImpl) Upsert(ctx context.Context, code *Code) error {
	code.CreatedAt = time.Now()
	code.Attempts = 0

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"identifier": code.Identifier, "purpose": code.Purpose},
		code, opts)
	return err
}

func (r *RepositoryImpl) Find(ctx context.Context, identifier string, purpose Purpose) (*Code, error) {
	var code Code
	err := r.collection.FindOne(ctx, bson.M{"identifier": identifier, "purpose": purpose}).Decode(&code)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// IncrementAttempts bumps the attempt counter and returns the new value.
func (r *RepositoryImpl) IncrementAttempts(ctx context.Context, identifier string, purpose Purpose) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var code Code
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"identifier": identifier, "purpose": purpose},
		bson.M{"$inc": bson.M{"attempts": 1}},
		opts,
	).Decode(&code)
	if err != nil {
		return 0, err
	}
	return code.Attempts, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, identifier string, purpose Purpose) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"identifier": identifier, "purpose": purpose})
	return err
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "identifier", Value: 1}, {Key: "purpose", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Mongo TTL sweep removes expired codes on its own.
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	return err
}
