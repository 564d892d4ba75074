package repositories

import (
	"context"

	"go-restaurant-orders/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection wraps a mongo collection decoding into T. Every call holds the
// transaction session lock when ctx carries one.
type collection[T any] struct {
	coll *mongo.Collection
}

func newCollection[T any](db *mongo.Database, name string) collection[T] {
	return collection[T]{coll: database.OpenCollection(db, name)}
}

func (c collection[T]) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error) {
	defer database.Acquire(ctx)()
	var doc T
	err := c.coll.FindOne(ctx, filter, opts...).Decode(&doc)
	return doc, err
}

func (c collection[T]) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	defer database.Acquire(ctx)()
	cursor, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// exists runs a findOne projected down to _id.
func (c collection[T]) exists(ctx context.Context, filter interface{}) (bool, error) {
	defer database.Acquire(ctx)()
	err := c.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c collection[T]) insertOne(ctx context.Context, doc T) error {
	defer database.Acquire(ctx)()
	_, err := c.coll.InsertOne(ctx, doc)
	return err
}

func (c collection[T]) updateOne(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	defer database.Acquire(ctx)()
	return c.coll.UpdateOne(ctx, filter, update)
}

func (c collection[T]) updateMany(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	defer database.Acquire(ctx)()
	return c.coll.UpdateMany(ctx, filter, update)
}

// findOneAndUpdate returns the document after the update.
func (c collection[T]) findOneAndUpdate(ctx context.Context, filter, update interface{}) (T, error) {
	defer database.Acquire(ctx)()
	var doc T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := c.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	return doc, err
}

func (c collection[T]) findOneAndDelete(ctx context.Context, filter interface{}) (T, error) {
	defer database.Acquire(ctx)()
	var doc T
	err := c.coll.FindOneAndDelete(ctx, filter).Decode(&doc)
	return doc, err
}

func (c collection[T]) deleteOne(ctx context.Context, filter interface{}) (int64, error) {
	defer database.Acquire(ctx)()
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c collection[T]) deleteMany(ctx context.Context, filter interface{}) (int64, error) {
	defer database.Acquire(ctx)()
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c collection[T]) count(ctx context.Context, filter interface{}) (int64, error) {
	defer database.Acquire(ctx)()
	return c.coll.CountDocuments(ctx, filter)
}
