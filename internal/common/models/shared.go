package models

import (
	"context"
	"time"
)

type ContextKey string

// Context keys used across middleware and services.
const (
	ActorKey     ContextKey = "actor"
	RequestIPKey ContextKey = "request_ip"
)

// ActorKind discriminates the three account collections. The legacy system
// resolved actors through a dynamic database reference; here the kind travels
// with the id so each repository lookup is explicit.
type ActorKind string

const (
	ActorUser  ActorKind = "User"
	ActorStaff ActorKind = "Staff"
	ActorAdmin ActorKind = "Admin"
)

// ActorRef identifies who performed an action.
type ActorRef struct {
	Kind ActorKind `bson:"kind" json:"kind"`
	ID   string    `bson:"id" json:"id"`
}

// Actor is the authenticated principal injected by the auth middleware.
type Actor struct {
	Ref   ActorRef
	Name  string
	Email string
	Role  string
}

// WithActor attaches the actor to a context so services deeper in the call
// chain can attribute their writes.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// ActorFromContext returns the actor attached by the auth middleware, if any.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(*Actor)
	return actor, ok && actor != nil
}

// Change captures one field transition for audit diffs.
type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

// Log is one operational log row written by the zap Mongo core.
type Log struct {
	Message      string    `bson:"message"`
	Level        string    `bson:"level"`
	Caller       string    `bson:"caller,omitempty"`
	IPAddress    string    `bson:"ip_address,omitempty"`
	AppID        string    `bson:"app_id"`
	CreatedOnUTC time.Time `bson:"created_on_utc"`
}
