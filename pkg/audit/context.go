package audit

import (
	"context"

	"github.com/google/uuid"
)

// Actor identifies the user a mutation is performed on behalf of. A zero
// Actor means the mutation is system-initiated (seeding, migrations,
// background maintenance) and is logged with a null user.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// RequestMeta carries the originating request's path and client address.
// Both are empty when there is no ambient request.
type RequestMeta struct {
	Path       string
	RemoteAddr string
}

// unexported type prevents collisions in context
type ctxKey int

const (
	actorKey ctxKey = iota
	requestKey
)

// WithActor returns a context carrying the acting user. The surrounding
// request layer calls this once per request; the recorder only reads it.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom reports the acting user, if one was supplied.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok && a.ID != uuid.Nil
}

// WithRequest returns a context carrying request metadata.
func WithRequest(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, requestKey, m)
}

// RequestFrom reports the ambient request metadata; zero when absent.
func RequestFrom(ctx context.Context) RequestMeta {
	m, _ := ctx.Value(requestKey).(RequestMeta)
	return m
}
