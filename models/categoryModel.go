package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Icon      string             `bson:"icon" json:"icon"`
	Org       primitive.ObjectID `bson:"org" json:"org"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type CategorySummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Icon string             `json:"icon"`
}

func (c Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, Icon: c.Icon}
}

// Ingredients are shared by every organization.
type Ingredient struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Icon      string             `bson:"icon" json:"icon"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
