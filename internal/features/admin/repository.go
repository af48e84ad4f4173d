package admin

import (
	"context"
	"errors"
	"time"

	"resolvex/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, account *Admin) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	LookupActor(ctx context.Context, id string) (name, email string, err error)
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRepository(mongodb *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Collection: mongodb.DB.Collection("admins"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, account *Admin) error {
	account.CreatedAt = time.Now()

	result, err := r.Collection.InsertOne(ctx, account)
	if err != nil {
		return err
	}
	account.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Admin, error) {
	var account Admin
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("admin not found")
		}
		return nil, err
	}
	return &account, nil
}

func (r *RepositoryImpl) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	var account Admin
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// LookupActor satisfies the audit directory interface.
func (r *RepositoryImpl) LookupActor(ctx context.Context, id string) (string, string, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", "", err
	}
	account, err := r.FindByID(ctx, objID)
	if err != nil {
		return "", "", err
	}
	return account.Name, account.Email, nil
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
