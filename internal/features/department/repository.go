package department

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
	Create(ctx context.Context, dept *Department) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Department, error)
	FindByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context, onlyActive bool) ([]Department, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Department, error)
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRepository(mongodb *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Collection: mongodb.DB.Collection("departments"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, dept *Department) error {
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = time.Now()

	result, err := r.Collection.InsertOne(ctx, dept)
	if err != nil {
		return err
	}
	dept.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Department, error) {
	var dept Department
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dept)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("department not found")
		}
		return nil, err
	}
	return &dept, nil
}

func (r *RepositoryImpl) FindByName(ctx context.Context, name string) (*Department, error) {
	var dept Department
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&dept)
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *RepositoryImpl) List(ctx context.Context, onlyActive bool) ([]Department, error) {
	query := bson.M{}
	if onlyActive {
		query["is_active"] = true
	}

	cursor, err := r.Collection.Find(ctx, query, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var depts []Department
	if err = cursor.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("department not found")
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("department not found")
	}
	return nil
}

func (r *RepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Department, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var depts []Department
	if err = cursor.All(ctx, &depts); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]Department, len(depts))
	for _, d := range depts {
		byID[d.ID] = d
	}
	return byID, nil
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
