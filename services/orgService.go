package services

import (
	"context"

	"go-restaurant-orders/common"
	"go-restaurant-orders/models"
	"go-restaurant-orders/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultNearbyMeters = 5000

type OrgInput struct {
	Name         string
	Email        string
	Description  string
	OpeningHours string
	Address      models.Address
	Longitude    float64
	Latitude     float64
}

type OrgService struct {
	orgs      OrgStore
	ownership *Ownership
	cascade   *CascadeDeleter
	log       *logrus.Logger
	clock     Clock
}

func NewOrgService(orgs OrgStore, ownership *Ownership, cascade *CascadeDeleter, log *logrus.Logger, clock Clock) *OrgService {
	return &OrgService{orgs: orgs, ownership: ownership, cascade: cascade, log: log, clock: clock}
}

func (s *OrgService) CreateOrg(ctx context.Context, userID primitive.ObjectID, in OrgInput) (models.Org, error) {
	if err := validCoordinates(in.Longitude, in.Latitude); err != nil {
		return models.Org{}, err
	}
	taken, err := s.orgs.ExistsByName(ctx, in.Name)
	if err != nil {
		return models.Org{}, common.Classify(err)
	}
	if taken {
		return models.Org{}, common.BadRequest("organization name already in use")
	}

	org := models.Org{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Email:        in.Email,
		Description:  in.Description,
		OpeningHours: in.OpeningHours,
		Address:      in.Address,
		Location:     models.NewGeoPoint(in.Longitude, in.Latitude),
		User:         userID,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.orgs.Insert(ctx, org); err != nil {
		return models.Org{}, common.Classify(err)
	}
	s.log.WithFields(logrus.Fields{"org_id": org.ID.Hex(), "user_id": userID.Hex()}).Info("org created")
	return org, nil
}

func (s *OrgService) GetOrg(ctx context.Context, orgID primitive.ObjectID) (models.Org, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return models.Org{}, notFoundAs(err, common.ErrOrgNotFound)
	}
	return org, nil
}

func (s *OrgService) ListUserOrgs(ctx context.Context, userID primitive.ObjectID) ([]models.Org, error) {
	orgs, err := s.orgs.FindByUser(ctx, userID)
	if err != nil {
		return nil, common.Classify(err)
	}
	if len(orgs) == 0 {
		return nil, common.NoContent()
	}
	return orgs, nil
}

// UpdateOrg applies in over the stored org. Empty strings keep the current
// value.
func (s *OrgService) UpdateOrg(ctx context.Context, userID, orgID primitive.ObjectID, in OrgInput) (models.Org, error) {
	if err := s.ownership.VerifyOrg(ctx, userID, orgID); err != nil {
		return models.Org{}, err
	}
	current, err := s.GetOrg(ctx, orgID)
	if err != nil {
		return models.Org{}, err
	}

	var u repositories.OrgUpdate
	if in.Name != "" && in.Name != current.Name {
		taken, err := s.orgs.ExistsByName(ctx, in.Name)
		if err != nil {
			return models.Org{}, common.Classify(err)
		}
		if taken {
			return models.Org{}, common.BadRequest("organization name already in use")
		}
		u.Name = &in.Name
	}
	if in.Email != "" {
		u.Email = &in.Email
	}
	if in.Description != "" {
		u.Description = &in.Description
	}
	if in.OpeningHours != "" {
		u.OpeningHours = &in.OpeningHours
	}
	if in.Address != (models.Address{}) {
		u.Address = &in.Address
	}
	if in.Longitude != 0 || in.Latitude != 0 {
		if err := validCoordinates(in.Longitude, in.Latitude); err != nil {
			return models.Org{}, err
		}
		point := models.NewGeoPoint(in.Longitude, in.Latitude)
		u.Location = &point
	}

	org, err := s.orgs.Update(ctx, orgID, u)
	if err != nil {
		return models.Org{}, common.Classify(err)
	}
	return org, nil
}

// NearbyOrgs lists orgs within maxMeters of the point, nearest first.
func (s *OrgService) NearbyOrgs(ctx context.Context, lng, lat, maxMeters float64) ([]models.Org, error) {
	if err := validCoordinates(lng, lat); err != nil {
		return nil, err
	}
	if maxMeters <= 0 {
		maxMeters = DefaultNearbyMeters
	}
	orgs, err := s.orgs.Nearby(ctx, models.NewGeoPoint(lng, lat), maxMeters)
	if err != nil {
		return nil, common.Classify(err)
	}
	if len(orgs) == 0 {
		return nil, common.NoContent()
	}
	return orgs, nil
}

func (s *OrgService) DeleteOrg(ctx context.Context, userID, orgID primitive.ObjectID) (bool, error) {
	return s.cascade.DeleteOrg(ctx, userID, orgID)
}

func validCoordinates(lng, lat float64) error {
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return common.BadRequest("invalid coordinates")
	}
	return nil
}
