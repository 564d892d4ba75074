package database

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs fn inside an all-or-nothing storage transaction. Storage
// calls made with the ctx passed to fn take part in it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type sessionLockKey struct{}

// Acquire serializes use of a transaction's session. A session may only be
// used by one goroutine at a time, so repositories call Acquire around every
// driver operation. Outside a transaction it is a no-op.
func Acquire(ctx context.Context) func() {
	mu, ok := ctx.Value(sessionLockKey{}).(*sync.Mutex)
	if !ok {
		return func() {}
	}
	mu.Lock()
	return mu.Unlock
}

// WithSessionLock attaches a fresh session lock to ctx.
func WithSessionLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionLockKey{}, &sync.Mutex{})
}

type MongoTransactor struct {
	client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(WithSessionLock(sc))
	})
	return err
}
