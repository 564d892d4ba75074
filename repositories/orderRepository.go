package repositories

import (
	"context"
	"time"

	"go-restaurant-orders/database"
	"go-restaurant-orders/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	orders    collection[models.Order]
	populator orderPopulator
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		orders: newCollection[models.Order](db, database.OrderCollection),
		populator: orderPopulator{
			products:   newCollection[models.Product](db, database.ProductCollection),
			categories: newCollection[models.Category](db, database.CategoryCollection),
		},
	}
}

func (r *OrderRepository) ExistsInOrg(ctx context.Context, orgID, orderID primitive.ObjectID) (bool, error) {
	return r.orders.exists(ctx, bson.M{"_id": orderID, "org": orgID})
}

func (r *OrderRepository) Insert(ctx context.Context, order models.Order) error {
	return r.orders.insertOne(ctx, order)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orgID, orderID primitive.ObjectID, status models.OrderStatus) (bool, error) {
	res, err := r.orders.updateOne(ctx,
		bson.M{"_id": orderID, "org": orgID},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SoftDelete marks the order deleted, keeping an earlier deletion time.
func (r *OrderRepository) SoftDelete(ctx context.Context, orgID, orderID primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.orders.updateOne(ctx, bson.M{"_id": orderID, "org": orgID}, softDeleteUpdate(at))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// SoftDeleteCreatedWithin soft-deletes active orders created inside window.
func (r *OrderRepository) SoftDeleteCreatedWithin(ctx context.Context, orgID primitive.ObjectID, window models.TimeWindow, at time.Time) (int64, error) {
	res, err := r.orders.updateMany(ctx, activeCreatedWithinFilter(orgID, window), bson.M{"$set": bson.M{"deletedAt": at}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *OrderRepository) FindActive(ctx context.Context, orgID primitive.ObjectID) ([]models.PopulatedOrder, error) {
	orders, err := r.orders.find(ctx, activeOrdersFilter(orgID),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return r.populator.populate(ctx, orders)
}

func (r *OrderRepository) FindHistory(ctx context.Context, orgID primitive.ObjectID, window *models.TimeWindow, skip, limit int64) ([]models.PopulatedOrder, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	orders, err := r.orders.find(ctx, historyFilter(orgID, window), opts)
	if err != nil {
		return nil, err
	}
	return r.populator.populate(ctx, orders)
}

func (r *OrderRepository) CountHistory(ctx context.Context, orgID primitive.ObjectID, window *models.TimeWindow) (int64, error) {
	return r.orders.count(ctx, historyFilter(orgID, window))
}

// DeleteByOrg hard-deletes every order of the org.
func (r *OrderRepository) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return r.orders.deleteMany(ctx, bson.M{"org": orgID})
}

func activeOrdersFilter(orgID primitive.ObjectID) bson.M {
	return bson.M{"org": orgID, "deletedAt": nil}
}

func activeCreatedWithinFilter(orgID primitive.ObjectID, window models.TimeWindow) bson.M {
	filter := activeOrdersFilter(orgID)
	filter["createdAt"] = windowFilter(window)
	return filter
}

func historyFilter(orgID primitive.ObjectID, window *models.TimeWindow) bson.M {
	filter := bson.M{"org": orgID}
	if window != nil {
		filter["createdAt"] = windowFilter(*window)
	}
	return filter
}

func windowFilter(w models.TimeWindow) bson.M {
	return bson.M{"$gte": w.From, "$lte": w.To}
}

// softDeleteUpdate is a pipeline update so an existing deletedAt survives.
func softDeleteUpdate(at time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "deletedAt", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$deletedAt", at}}}},
		}}},
	}
}
