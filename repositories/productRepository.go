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

// ProductUpdate holds the editable fields; nil means unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Image       *string
	Price       *float64
	Category    *primitive.ObjectID
	Ingredients []primitive.ObjectID
}

type ProductRepository struct {
	products collection[models.Product]
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{products: newCollection[models.Product](db, database.ProductCollection)}
}

func (r *ProductRepository) ExistsInOrg(ctx context.Context, orgID, productID primitive.ObjectID) (bool, error) {
	return r.products.exists(ctx, bson.M{"_id": productID, "org": orgID})
}

func (r *ProductRepository) ExistsByName(ctx context.Context, orgID primitive.ObjectID, name string) (bool, error) {
	return r.products.exists(ctx, bson.M{"org": orgID, "name": name})
}

func (r *ProductRepository) Insert(ctx context.Context, p models.Product) error {
	return r.products.insertOne(ctx, p)
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return r.products.findOne(ctx, bson.M{"_id": id})
}

// FindByIDs fetches every listed product in one query.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.products.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ProductRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID, discountedOnly bool) ([]models.Product, error) {
	filter := bson.M{"org": orgID}
	if discountedOnly {
		filter["discount"] = true
	}
	return r.products.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, u ProductUpdate) (models.Product, error) {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Ingredients != nil {
		set["ingredients"] = u.Ingredients
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.products.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *ProductRepository) SetDiscount(ctx context.Context, id primitive.ObjectID, discount bool, priceInDiscount float64) (models.Product, error) {
	return r.products.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"discount":        discount,
		"priceInDiscount": priceInDiscount,
	}})
}

// Delete removes the product and returns it.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return r.products.findOneAndDelete(ctx, bson.M{"_id": id})
}

// DeleteByOrg removes every product of the org and returns their image URLs.
func (r *ProductRepository) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) ([]string, error) {
	filter := bson.M{"org": orgID}
	products, err := r.products.find(ctx, filter, options.Find().SetProjection(bson.M{"image": 1}))
	if err != nil {
		return nil, err
	}
	if _, err := r.products.deleteMany(ctx, filter); err != nil {
		return nil, err
	}
	images := make([]string, 0, len(products))
	for _, p := range products {
		if p.Image != "" {
			images = append(images, p.Image)
		}
	}
	return images, nil
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return r.products.count(ctx, bson.M{"category": categoryID})
}

func (r *ProductRepository) CountByIngredient(ctx context.Context, ingredientID primitive.ObjectID) (int64, error) {
	return r.products.count(ctx, bson.M{"ingredients": ingredientID})
}
