package repositories

import (
	"context"

	"go-restaurant-orders/database"
	"go-restaurant-orders/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepository struct {
	categories collection[models.Category]
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{categories: newCollection[models.Category](db, database.CategoryCollection)}
}

func (r *CategoryRepository) ExistsInOrg(ctx context.Context, orgID, categoryID primitive.ObjectID) (bool, error) {
	return r.categories.exists(ctx, bson.M{"_id": categoryID, "org": orgID})
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, orgID primitive.ObjectID, name string) (bool, error) {
	return r.categories.exists(ctx, bson.M{"org": orgID, "name": name})
}

func (r *CategoryRepository) Insert(ctx context.Context, c models.Category) error {
	return r.categories.insertOne(ctx, c)
}

func (r *CategoryRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Category, error) {
	return r.categories.find(ctx, bson.M{"org": orgID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	return r.categories.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, name, icon string) (models.Category, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if icon != "" {
		set["icon"] = icon
	}
	if len(set) == 0 {
		return r.categories.findOne(ctx, bson.M{"_id": id})
	}
	return r.categories.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.categories.deleteOne(ctx, bson.M{"_id": id})
}

func (r *CategoryRepository) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return r.categories.deleteMany(ctx, bson.M{"org": orgID})
}
