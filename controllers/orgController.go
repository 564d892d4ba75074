package controllers

import (
	"context"
	"net/http"
	"strconv"

	"go-restaurant-orders/models"
	"go-restaurant-orders/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrgManager interface {
	CreateOrg(ctx context.Context, userID primitive.ObjectID, in services.OrgInput) (models.Org, error)
	GetOrg(ctx context.Context, orgID primitive.ObjectID) (models.Org, error)
	ListUserOrgs(ctx context.Context, userID primitive.ObjectID) ([]models.Org, error)
	UpdateOrg(ctx context.Context, userID, orgID primitive.ObjectID, in services.OrgInput) (models.Org, error)
	NearbyOrgs(ctx context.Context, lng, lat, maxMeters float64) ([]models.Org, error)
	DeleteOrg(ctx context.Context, userID, orgID primitive.ObjectID) (bool, error)
}

type OrgController struct {
	orgs OrgManager
}

func NewOrgController(orgs OrgManager) *OrgController {
	return &OrgController{orgs: orgs}
}

type addressRequest struct {
	Street   string `json:"street" validate:"max=120"`
	Number   string `json:"number" validate:"max=20"`
	District string `json:"district" validate:"max=80"`
	City     string `json:"city" validate:"max=80"`
	State    string `json:"state" validate:"max=40"`
	Zip      string `json:"zip" validate:"max=20"`
}

type orgRequest struct {
	Name         string         `json:"name" validate:"required,max=80"`
	Email        string         `json:"email" validate:"omitempty,email"`
	Description  string         `json:"description" validate:"max=500"`
	OpeningHours string         `json:"openingHours" validate:"max=120"`
	Address      addressRequest `json:"address"`
	Longitude    float64        `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude     float64        `json:"latitude" validate:"gte=-90,lte=90"`
}

type updateOrgRequest struct {
	Name         string         `json:"name" validate:"max=80"`
	Email        string         `json:"email" validate:"omitempty,email"`
	Description  string         `json:"description" validate:"max=500"`
	OpeningHours string         `json:"openingHours" validate:"max=120"`
	Address      addressRequest `json:"address"`
	Longitude    float64        `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude     float64        `json:"latitude" validate:"gte=-90,lte=90"`
}

func (r orgRequest) input() services.OrgInput {
	return services.OrgInput{
		Name:         r.Name,
		Email:        r.Email,
		Description:  r.Description,
		OpeningHours: r.OpeningHours,
		Address:      models.Address(r.Address),
		Longitude:    r.Longitude,
		Latitude:     r.Latitude,
	}
}

func (oc *OrgController) CreateOrg() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req orgRequest
		if !bindJSON(c, &req) {
			return
		}
		org, err := oc.orgs.CreateOrg(ctx, userID, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, org)
	}
}

func (oc *OrgController) GetOrg() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		orgID, ok := objectIDParam(c, "org_id")
		if !ok {
			return
		}
		org, err := oc.orgs.GetOrg(ctx, orgID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, org)
	}
}

func (oc *OrgController) GetUserOrgs() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, ok := currentUser(c)
		if !ok {
			return
		}
		orgs, err := oc.orgs.ListUserOrgs(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orgs)
	}
}

func (oc *OrgController) UpdateOrg() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		var req updateOrgRequest
		if !bindJSON(c, &req) {
			return
		}
		org, err := oc.orgs.UpdateOrg(ctx, userID, orgID, orgRequest(req).input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, org)
	}
}

// GetNearbyOrgs serves ?lng=&lat=&maxDistance= (meters).
func (oc *OrgController) GetNearbyOrgs() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		if errLng != nil || errLat != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lng and lat are required"})
			return
		}
		maxMeters, err := strconv.ParseFloat(c.DefaultQuery("maxDistance", "0"), 64)
		if err != nil {
			maxMeters = 0
		}

		orgs, err := oc.orgs.NearbyOrgs(ctx, lng, lat, maxMeters)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orgs)
	}
}

// DeleteOrg answers {"deleted": false} when the cascade was rolled back.
func (oc *OrgController) DeleteOrg() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		deleted, err := oc.orgs.DeleteOrg(ctx, userID, orgID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}
