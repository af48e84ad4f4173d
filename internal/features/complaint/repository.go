package complaint

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

// ErrAlreadyVoted is returned when a user votes a complaint twice.
var ErrAlreadyVoted = errors.New("already voted")

type Repository interface {
	Create(ctx context.Context, c *Complaint) (*Complaint, error)
	FindByID(ctx context.Context, id string) (*Complaint, error)
	FindAll(ctx context.Context, filter ListFilter, page, limit int64) ([]Complaint, int64, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Complaint, error)
	FindByAssignee(ctx context.Context, staffID string) ([]Complaint, error)
	UpdateFields(ctx context.Context, id string, set bson.M, unset bson.M, comments []Comment) (*Complaint, error)
	PushComment(ctx context.Context, id string, comment Comment) (*Complaint, error)
	Vote(ctx context.Context, id string, voter primitive.ObjectID) (*Complaint, error)
	AssignMany(ctx context.Context, ids []primitive.ObjectID, staffID primitive.ObjectID, statusSet bool, comment Comment) (int64, error)
	UpsertByLegacyID(ctx context.Context, c *Complaint) (bool, error)
	Delete(ctx context.Context, id string) error

	CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	CountByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error)
	CountResolvedByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error)
	AvgResolutionDays(ctx context.Context, staffID primitive.ObjectID) (float64, error)

	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{collection: db.DB.Collection("complaints")}
}

func (r *RepositoryImpl) Create(ctx context.Context, c *Complaint) (*Complaint, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = StatusPending
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if c.Comments == nil {
		c.Comments = []Comment{}
	}

	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return c, nil
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id string) (*Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid complaint id")
	}

	var c Complaint
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("complaint not found")
		}
		return nil, err
	}
	return &c, nil
}

func buildListQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		if status, ok := TranslateStatusLabel(filter.Status); ok {
			query["status"] = status
		} else {
			query["status"] = filter.Status
		}
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	switch filter.AssignedTo {
	case "":
	case "unassigned":
		query["assigned_to"] = bson.M{"$exists": false}
	default:
		if oid, err := primitive.ObjectIDFromHex(filter.AssignedTo); err == nil {
			query["assigned_to"] = oid
		}
	}
	if filter.Owner != "" {
		if oid, err := primitive.ObjectIDFromHex(filter.Owner); err == nil {
			query["user"] = oid
		}
	}
	return query
}

// priorityRankStage maps the priority string onto a numeric rank so listings
// can sort critical first.
func priorityRankStage() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.M{
		"priority_rank": bson.M{"$switch": bson.M{
			"branches": []bson.M{
				{"case": bson.M{"$eq": []interface{}{"$priority", PriorityCritical}}, "then": 4},
				{"case": bson.M{"$eq": []interface{}{"$priority", PriorityHigh}}, "then": 3},
				{"case": bson.M{"$eq": []interface{}{"$priority", PriorityMedium}}, "then": 2},
				{"case": bson.M{"$eq": []interface{}{"$priority", PriorityLow}}, "then": 1},
			},
			"default": 0,
		}},
	}}}
}

func (r *RepositoryImpl) FindAll(ctx context.Context, filter ListFilter, page, limit int64) ([]Complaint, int64, error) {
	query := buildListQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: query}},
		priorityRankStage(),
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "priority_rank", Value: -1},
			{Key: "created_at", Value: -1},
		}}},
		bson.D{{Key: "$skip", Value: (page - 1) * limit}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var complaints []Complaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

func (r *RepositoryImpl) findSorted(ctx context.Context, query bson.M) ([]Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var complaints []Complaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *RepositoryImpl) FindByOwner(ctx context.Context, ownerID string) ([]Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}
	return r.findSorted(ctx, bson.M{"user": oid})
}

func (r *RepositoryImpl) FindByAssignee(ctx context.Context, staffID string) ([]Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(staffID)
	if err != nil {
		return nil, errors.New("invalid staff id")
	}
	return r.findSorted(ctx, bson.M{"assigned_to": oid})
}

func (r *RepositoryImpl) UpdateFields(ctx context.Context, id string, set bson.M, unset bson.M, comments []Comment) (*Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid complaint id")
	}

	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now()

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(comments) > 0 {
		update["$push"] = bson.M{"comments": bson.M{"$each": comments}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Complaint
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("complaint not found")
		}
		return nil, err
	}
	return &updated, nil
}

func (r *RepositoryImpl) PushComment(ctx context.Context, id string, comment Comment) (*Complaint, error) {
	return r.UpdateFields(ctx, id, nil, nil, []Comment{comment})
}

// Vote adds the voter atomically. The filter excludes documents the user
// already voted on, so a repeat vote matches nothing.
func (r *RepositoryImpl) Vote(ctx context.Context, id string, voter primitive.ObjectID) (*Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid complaint id")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Complaint
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "voters": bson.M{"$ne": voter}},
		bson.M{
			"$addToSet": bson.M{"voters": voter},
			"$inc":      bson.M{"vote_count": 1},
			"$set":      bson.M{"updated_at": time.Now()},
		},
		opts,
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// No match: either the complaint is gone or the user already voted.
	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": oid})
	if countErr != nil {
		return nil, countErr
	}
	if count == 0 {
		return nil, errors.New("complaint not found")
	}
	return nil, ErrAlreadyVoted
}

// AssignMany assigns staffID to every listed complaint that is not in a
// terminal state, and returns how many documents matched.
func (r *RepositoryImpl) AssignMany(ctx context.Context, ids []primitive.ObjectID, staffID primitive.ObjectID, statusSet bool, comment Comment) (int64, error) {
	set := bson.M{
		"assigned_to": staffID,
		"updated_at":  time.Now(),
	}
	if statusSet {
		set["status"] = StatusInProgress
	}

	result, err := r.collection.UpdateMany(ctx,
		bson.M{
			"_id":    bson.M{"$in": ids},
			"status": bson.M{"$nin": []Status{StatusResolved, StatusRejected, StatusClosed}},
		},
		bson.M{
			"$set":  set,
			"$push": bson.M{"comments": comment},
		},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// UpsertByLegacyID inserts a migrated complaint keyed on its legacy id, so
// re-running the import never duplicates rows. Returns whether a new document
// was inserted.
func (r *RepositoryImpl) UpsertByLegacyID(ctx context.Context, c *Complaint) (bool, error) {
	if c.LegacyID == 0 {
		return false, errors.New("legacy id is required")
	}
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
	c.UpdatedAt = time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"legacy_id": c.LegacyID},
		bson.M{"$setOnInsert": c},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid complaint id")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("complaint not found")
	}
	return nil
}

func (r *RepositoryImpl) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user": ownerID})
}

func (r *RepositoryImpl) CountByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"assigned_to": staffID})
}

func (r *RepositoryImpl) CountResolvedByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"assigned_to": staffID, "status": StatusResolved})
}

// AvgResolutionDays averages (updated_at - created_at) over the resolved
// complaints of one staff member.
func (r *RepositoryImpl) AvgResolutionDays(ctx context.Context, staffID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"assigned_to": staffID, "status": StatusResolved}}},
		bson.D{{Key: "$project", Value: bson.M{
			"days": bson.M{"$divide": []interface{}{
				bson.M{"$subtract": []interface{}{"$updated_at", "$created_at"}},
				1000 * 60 * 60 * 24,
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$days"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
