package complaint

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildListQuery(t *testing.T) {
	staffID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()

	tests := []struct {
		name   string
		filter ListFilter
		want   bson.M
	}{
		{
			name:   "Empty",
			filter: ListFilter{},
			want:   bson.M{},
		},
		{
			name:   "UI Status Label",
			filter: ListFilter{Status: "New (Triage)"},
			want:   bson.M{"status": StatusPending},
		},
		{
			name:   "Raw Status",
			filter: ListFilter{Status: "in-progress"},
			want:   bson.M{"status": StatusInProgress},
		},
		{
			name:   "Priority And Category",
			filter: ListFilter{Priority: "high", Category: "road"},
			want:   bson.M{"priority": "high", "category": "road"},
		},
		{
			name:   "Unassigned",
			filter: ListFilter{AssignedTo: "unassigned"},
			want:   bson.M{"assigned_to": bson.M{"$exists": false}},
		},
		{
			name:   "Assigned To Staff",
			filter: ListFilter{AssignedTo: staffID.Hex()},
			want:   bson.M{"assigned_to": staffID},
		},
		{
			name:   "Owner",
			filter: ListFilter{Owner: ownerID.Hex()},
			want:   bson.M{"user": ownerID},
		},
		{
			name:   "Malformed Assignee Ignored",
			filter: ListFilter{AssignedTo: "not-an-id"},
			want:   bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildListQuery(tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildListQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}
