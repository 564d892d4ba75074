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

type IngredientRepository struct {
	ingredients collection[models.Ingredient]
}

func NewIngredientRepository(db *mongo.Database) *IngredientRepository {
	return &IngredientRepository{ingredients: newCollection[models.Ingredient](db, database.IngredientCollection)}
}

func (r *IngredientRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ingredients.exists(ctx, bson.M{"name": name})
}

func (r *IngredientRepository) Insert(ctx context.Context, in models.Ingredient) error {
	return r.ingredients.insertOne(ctx, in)
}

func (r *IngredientRepository) FindAll(ctx context.Context) ([]models.Ingredient, error) {
	return r.ingredients.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return []models.Ingredient{}, nil
	}
	return r.ingredients.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *IngredientRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.ingredients.deleteOne(ctx, bson.M{"_id": id})
}
