package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street   string `bson:"street" json:"street"`
	Number   string `bson:"number" json:"number"`
	District string `bson:"district" json:"district"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	Zip      string `bson:"zip" json:"zip"`
}

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

type Org struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Description  string             `bson:"description" json:"description"`
	OpeningHours string             `bson:"openingHours" json:"openingHours"`
	Address      Address            `bson:"address" json:"address"`
	Location     GeoPoint           `bson:"location" json:"location"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
