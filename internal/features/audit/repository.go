package audit

import (
	"context"
	"fmt"
	"time"

	"resolvex/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// exportRowCap bounds export queries for performance.
const exportRowCap = 10000

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter, page, limit int64) ([]Entry, int64, error)
	Summarize(ctx context.Context, filter Filter) (*Summary, error)
	Trail(ctx context.Context, targetModel, targetID string) ([]Entry, error)
	Export(ctx context.Context, filter Filter) ([]Entry, error)
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRepository(mongodb *database.MongodbDB) Repository {
	return &RepositoryImpl{
		Collection: mongodb.DB.Collection("audit_logs"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	result, err := r.Collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}

func (r *RepositoryImpl) query(filter Filter) bson.M {
	query := bson.M{"is_deleted": false}

	if filter.ActorID != "" {
		query["actor.id"] = filter.ActorID
	}
	if filter.ActorKind != "" {
		query["actor.kind"] = filter.ActorKind
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Severity != "" {
		query["severity"] = filter.Severity
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.TargetModel != "" {
		query["target_model"] = filter.TargetModel
	}
	if filter.TargetID != "" {
		query["target_id"] = filter.TargetID
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"actor_name": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"target_name": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}
	if filter.From != nil || filter.To != nil {
		span := bson.M{}
		if filter.From != nil {
			span["$gte"] = *filter.From
		}
		if filter.To != nil {
			span["$lte"] = *filter.To
		}
		query["timestamp"] = span
	}

	return query
}

func (r *RepositoryImpl) List(ctx context.Context, filter Filter, page, limit int64) ([]Entry, int64, error) {
	query := r.query(filter)

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.M{"timestamp": -1})

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Summarize facets matching entries by category, action, severity, status and
// hour of day in a single aggregation round-trip.
func (r *RepositoryImpl) Summarize(ctx context.Context, filter Filter) (*Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: r.query(filter)}},
		{{Key: "$facet", Value: bson.M{
			"total": []bson.M{{"$count": "count"}},
			"by_category": []bson.M{
				{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
			},
			"by_action": []bson.M{
				{"$group": bson.M{"_id": "$action", "count": bson.M{"$sum": 1}}},
			},
			"by_severity": []bson.M{
				{"$group": bson.M{"_id": "$severity", "count": bson.M{"$sum": 1}}},
			},
			"by_status": []bson.M{
				{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
			},
			"by_hour": []bson.M{
				{"$group": bson.M{
					"_id":   bson.M{"$hour": "$timestamp"},
					"count": bson.M{"$sum": 1},
				}},
			},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raw []struct {
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
		ByCategory []facetBucket `bson:"by_category"`
		ByAction   []facetBucket `bson:"by_action"`
		BySeverity []facetBucket `bson:"by_severity"`
		ByStatus   []facetBucket `bson:"by_status"`
		ByHour     []hourBucket  `bson:"by_hour"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	summary := &Summary{
		ByCategory: map[string]int64{},
		ByAction:   map[string]int64{},
		BySeverity: map[string]int64{},
		ByStatus:   map[string]int64{},
		ByHour:     map[string]int64{},
	}
	if len(raw) == 0 {
		return summary, nil
	}

	if len(raw[0].Total) > 0 {
		summary.Total = raw[0].Total[0].Count
	}
	for _, b := range raw[0].ByCategory {
		summary.ByCategory[b.ID] = b.Count
	}
	for _, b := range raw[0].ByAction {
		summary.ByAction[b.ID] = b.Count
	}
	for _, b := range raw[0].BySeverity {
		summary.BySeverity[b.ID] = b.Count
	}
	for _, b := range raw[0].ByStatus {
		summary.ByStatus[b.ID] = b.Count
	}
	for _, b := range raw[0].ByHour {
		summary.ByHour[fmt.Sprintf("%02d", b.ID)] = b.Count
	}
	return summary, nil
}

type facetBucket struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

type hourBucket struct {
	ID    int32 `bson:"_id"`
	Count int64 `bson:"count"`
}

// Trail returns the full chronological history for one target, oldest first.
func (r *RepositoryImpl) Trail(ctx context.Context, targetModel, targetID string) ([]Entry, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := r.Collection.Find(ctx, bson.M{
		"target_model": targetModel,
		"target_id":    targetID,
		"is_deleted":   false,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *RepositoryImpl) Export(ctx context.Context, filter Filter) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetLimit(exportRowCap)

	cursor, err := r.Collection.Find(ctx, r.query(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Prune soft-deletes entries older than cutoff. The documents stay in place;
// only is_deleted flips.
func (r *RepositoryImpl) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.Collection.UpdateMany(ctx,
		bson.M{"timestamp": bson.M{"$lt": cutoff}, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "target_model", Value: 1}, {Key: "target_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "actor.id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}
