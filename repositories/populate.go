package repositories

import (
	"context"

	"go-restaurant-orders/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderPopulator resolves the product→category references of orders with
// one query per collection.
type orderPopulator struct {
	products   collection[models.Product]
	categories collection[models.Category]
}

var productSummaryProjection = bson.M{
	"_id": 1, "name": 1, "description": 1, "image": 1, "category": 1,
}

func (p orderPopulator) populate(ctx context.Context, orders []models.Order) ([]models.PopulatedOrder, error) {
	productIDs := distinctProductIDs(orders)
	if len(productIDs) == 0 {
		return populateOrders(orders, nil, nil), nil
	}

	products, err := p.products.find(ctx,
		bson.M{"_id": bson.M{"$in": productIDs}},
		options.Find().SetProjection(productSummaryProjection))
	if err != nil {
		return nil, err
	}

	var categoryIDs []primitive.ObjectID
	seen := map[primitive.ObjectID]bool{}
	for _, prod := range products {
		if prod.Category.IsZero() || seen[prod.Category] {
			continue
		}
		seen[prod.Category] = true
		categoryIDs = append(categoryIDs, prod.Category)
	}

	var categories []models.Category
	if len(categoryIDs) > 0 {
		categories, err = p.categories.find(ctx, bson.M{"_id": bson.M{"$in": categoryIDs}})
		if err != nil {
			return nil, err
		}
	}
	return populateOrders(orders, products, categories), nil
}

func distinctProductIDs(orders []models.Order) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, o := range orders {
		for _, id := range o.ProductIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// populateOrders joins already fetched products and categories into orders.
func populateOrders(orders []models.Order, products []models.Product, categories []models.Category) []models.PopulatedOrder {
	byCategory := make(map[primitive.ObjectID]models.CategorySummary, len(categories))
	for _, c := range categories {
		byCategory[c.ID] = c.Summary()
	}

	byProduct := make(map[primitive.ObjectID]models.ProductSummary, len(products))
	for _, prod := range products {
		var category *models.CategorySummary
		if c, ok := byCategory[prod.Category]; ok {
			category = &c
		}
		byProduct[prod.ID] = prod.Summary(category)
	}

	populated := make([]models.PopulatedOrder, 0, len(orders))
	for _, o := range orders {
		populated = append(populated, o.Populate(byProduct))
	}
	return populated
}
