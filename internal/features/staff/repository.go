package staff

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
	Create(ctx context.Context, member *Staff) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Staff, error)
	FindByEmail(ctx context.Context, email string) (*Staff, error)
	FindByStaffID(ctx context.Context, staffID string) (*Staff, error)
	List(ctx context.Context, filter bson.M, page, limit int64) ([]Staff, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
	LookupActor(ctx context.Context, id string) (name, email string, err error)
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRepository(mongodb *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Collection: mongodb.DB.Collection("staff"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, member *Staff) error {
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()

	result, err := r.Collection.InsertOne(ctx, member)
	if err != nil {
		return err
	}
	member.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Staff, error) {
	var member Staff
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("staff member not found")
		}
		return nil, err
	}
	return &member, nil
}

func (r *RepositoryImpl) FindByEmail(ctx context.Context, email string) (*Staff, error) {
	var member Staff
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *RepositoryImpl) FindByStaffID(ctx context.Context, staffID string) (*Staff, error) {
	var member Staff
	err := r.Collection.FindOne(ctx, bson.M{"staff_id": staffID}).Decode(&member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *RepositoryImpl) List(ctx context.Context, filter bson.M, page, limit int64) ([]Staff, int64, error) {
	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.M{"created_at": -1})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var members []Staff
	if err = cursor.All(ctx, &members); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	updates["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("staff member not found")
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("staff member not found")
	}
	return nil
}

func (r *RepositoryImpl) NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []Staff
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}

	names := make(map[primitive.ObjectID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names, nil
}

// LookupActor satisfies the audit directory interface.
func (r *RepositoryImpl) LookupActor(ctx context.Context, id string) (string, string, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", "", err
	}
	member, err := r.FindByID(ctx, objID)
	if err != nil {
		return "", "", err
	}
	return member.Name, member.Email, nil
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "staff_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
