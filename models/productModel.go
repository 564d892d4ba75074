package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID              primitive.ObjectID   `bson:"_id" json:"id"`
	Name            string               `bson:"name" json:"name"`
	Description     string               `bson:"description" json:"description"`
	Image           string               `bson:"image" json:"image"`
	Price           float64              `bson:"price" json:"price"`
	Ingredients     []primitive.ObjectID `bson:"ingredients" json:"ingredients"`
	Category        primitive.ObjectID   `bson:"category" json:"category"`
	Discount        bool                 `bson:"discount" json:"discount"`
	PriceInDiscount float64              `bson:"priceInDiscount" json:"priceInDiscount"`
	Org             primitive.ObjectID   `bson:"org" json:"org"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
}

// UnitPrice is the price a new order pays for one unit right now.
func (p Product) UnitPrice() float64 {
	if p.Discount {
		return p.PriceInDiscount
	}
	return p.Price
}

// Summary is the slice of a product embedded into populated orders.
func (p Product) Summary(category *CategorySummary) ProductSummary {
	return ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Category:    category,
	}
}

type ProductSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Category    *CategorySummary   `json:"category"`
}

// PopulatedProduct is a product with its category and ingredients resolved.
type PopulatedProduct struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Image           string             `json:"image"`
	Price           float64            `json:"price"`
	Ingredients     []Ingredient       `json:"ingredients"`
	Category        *Category          `json:"category"`
	Discount        bool               `json:"discount"`
	PriceInDiscount float64            `json:"priceInDiscount"`
	Org             primitive.ObjectID `json:"org"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Populate resolves the product's category and ingredients. Missing
// references are left out.
func (p Product) Populate(categories map[primitive.ObjectID]Category, ingredients map[primitive.ObjectID]Ingredient) PopulatedProduct {
	pp := PopulatedProduct{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Image:           p.Image,
		Price:           p.Price,
		Ingredients:     make([]Ingredient, 0, len(p.Ingredients)),
		Discount:        p.Discount,
		PriceInDiscount: p.PriceInDiscount,
		Org:             p.Org,
		CreatedAt:       p.CreatedAt,
	}
	if c, ok := categories[p.Category]; ok {
		pp.Category = &c
	}
	for _, id := range p.Ingredients {
		if in, ok := ingredients[id]; ok {
			pp.Ingredients = append(pp.Ingredients, in)
		}
	}
	return pp
}

func (p PopulatedProduct) Reference() Product {
	ids := make([]primitive.ObjectID, 0, len(p.Ingredients))
	for _, in := range p.Ingredients {
		ids = append(ids, in.ID)
	}
	var category primitive.ObjectID
	if p.Category != nil {
		category = p.Category.ID
	}
	return Product{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Image:           p.Image,
		Price:           p.Price,
		Ingredients:     ids,
		Category:        category,
		Discount:        p.Discount,
		PriceInDiscount: p.PriceInDiscount,
		Org:             p.Org,
		CreatedAt:       p.CreatedAt,
	}
}
