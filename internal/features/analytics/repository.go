package analytics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"resolvex/internal/database"
)

// staffAggRow is the raw per-staff aggregation before name resolution.
type staffAggRow struct {
	ID       primitive.ObjectID `bson:"_id"`
	Assigned int64              `bson:"assigned"`
	Resolved int64              `bson:"resolved"`
	AvgDays  *float64           `bson:"avg_days"`
}

// deptAggRow is the raw per-department aggregation before name resolution.
type deptAggRow struct {
	ID       primitive.ObjectID `bson:"_id"`
	Total    int64              `bson:"total"`
	Resolved int64              `bson:"resolved"`
}

// Repository runs read-only aggregations over the complaints collection.
type Repository interface {
	Total(ctx context.Context) (int64, error)
	CountBy(ctx context.Context, field string) ([]CountRow, error)
	PerDepartment(ctx context.Context) ([]deptAggRow, error)
	PerStaff(ctx context.Context) ([]staffAggRow, error)
	DailyTrend(ctx context.Context, days int) ([]TrendRow, error)
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{collection: db.DB.Collection("complaints")}
}

func (r *RepositoryImpl) Total(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *RepositoryImpl) CountBy(ctx context.Context, field string) ([]CountRow, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []CountRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RepositoryImpl) PerDepartment(ctx context.Context) ([]deptAggRow, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"department": bson.M{"$exists": true}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$department",
			"total": bson.M{"$sum": 1},
			"resolved": bson.M{"$sum": bson.M{
				"$cond": []interface{}{bson.M{"$eq": []interface{}{"$status", "resolved"}}, 1, 0},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []deptAggRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RepositoryImpl) PerStaff(ctx context.Context) ([]staffAggRow, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"assigned_to": bson.M{"$exists": true}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$assigned_to",
			"assigned": bson.M{"$sum": 1},
			"resolved": bson.M{"$sum": bson.M{
				"$cond": []interface{}{bson.M{"$eq": []interface{}{"$status", "resolved"}}, 1, 0},
			}},
			"avg_days": bson.M{"$avg": bson.M{
				"$cond": []interface{}{
					bson.M{"$eq": []interface{}{"$status", "resolved"}},
					bson.M{"$divide": []interface{}{
						bson.M{"$subtract": []interface{}{"$updated_at", "$created_at"}},
						1000 * 60 * 60 * 24,
					}},
					nil,
				},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "assigned", Value: -1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []staffAggRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RepositoryImpl) DailyTrend(ctx context.Context, days int) ([]TrendRow, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": cutoff}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []TrendRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
