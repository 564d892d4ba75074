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

// OrgUpdate holds the editable org fields; nil means unchanged.
type OrgUpdate struct {
	Name         *string
	Email        *string
	Description  *string
	OpeningHours *string
	Address      *models.Address
	Location     *models.GeoPoint
}

type OrgRepository struct {
	orgs collection[models.Org]
}

func NewOrgRepository(db *mongo.Database) *OrgRepository {
	return &OrgRepository{orgs: newCollection[models.Org](db, database.OrgCollection)}
}

// OwnedBy reports whether the org exists and belongs to the user.
func (r *OrgRepository) OwnedBy(ctx context.Context, orgID, userID primitive.ObjectID) (bool, error) {
	return r.orgs.exists(ctx, bson.M{"_id": orgID, "user": userID})
}

func (r *OrgRepository) Exists(ctx context.Context, orgID primitive.ObjectID) (bool, error) {
	return r.orgs.exists(ctx, bson.M{"_id": orgID})
}

func (r *OrgRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.orgs.exists(ctx, bson.M{"name": name})
}

func (r *OrgRepository) Insert(ctx context.Context, org models.Org) error {
	return r.orgs.insertOne(ctx, org)
}

func (r *OrgRepository) FindByID(ctx context.Context, orgID primitive.ObjectID) (models.Org, error) {
	return r.orgs.findOne(ctx, bson.M{"_id": orgID})
}

func (r *OrgRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Org, error) {
	return r.orgs.find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// Nearby lists orgs within maxMeters of point, closest first.
func (r *OrgRepository) Nearby(ctx context.Context, point models.GeoPoint, maxMeters float64) ([]models.Org, error) {
	return r.orgs.find(ctx, bson.M{"location": bson.M{
		"$near": bson.M{
			"$geometry":    point,
			"$maxDistance": maxMeters,
		},
	}})
}

func (r *OrgRepository) Update(ctx context.Context, orgID primitive.ObjectID, u OrgUpdate) (models.Org, error) {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.OpeningHours != nil {
		set["openingHours"] = *u.OpeningHours
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if len(set) == 0 {
		return r.FindByID(ctx, orgID)
	}
	return r.orgs.findOneAndUpdate(ctx, bson.M{"_id": orgID}, bson.M{"$set": set})
}

func (r *OrgRepository) Delete(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return r.orgs.deleteOne(ctx, bson.M{"_id": orgID})
}
