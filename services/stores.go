package services

import (
	"context"
	"time"

	"go-restaurant-orders/models"
	"go-restaurant-orders/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces below are satisfied by the mongo repositories and by
// in-memory fakes in tests.

type OrgStore interface {
	OwnedBy(ctx context.Context, orgID, userID primitive.ObjectID) (bool, error)
	Exists(ctx context.Context, orgID primitive.ObjectID) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, org models.Org) error
	FindByID(ctx context.Context, orgID primitive.ObjectID) (models.Org, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Org, error)
	Nearby(ctx context.Context, point models.GeoPoint, maxMeters float64) ([]models.Org, error)
	Update(ctx context.Context, orgID primitive.ObjectID, u repositories.OrgUpdate) (models.Org, error)
	Delete(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

// ScopedStore is implemented by every org-scoped collection.
type ScopedStore interface {
	ExistsInOrg(ctx context.Context, orgID, id primitive.ObjectID) (bool, error)
}

type CategoryStore interface {
	ScopedStore
	ExistsByName(ctx context.Context, orgID primitive.ObjectID, name string) (bool, error)
	Insert(ctx context.Context, c models.Category) error
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, name, icon string) (models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

type IngredientStore interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, in models.Ingredient) error
	FindAll(ctx context.Context) ([]models.Ingredient, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Ingredient, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type ProductStore interface {
	ScopedStore
	ExistsByName(ctx context.Context, orgID primitive.ObjectID, name string) (bool, error)
	Insert(ctx context.Context, p models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID, discountedOnly bool) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, u repositories.ProductUpdate) (models.Product, error)
	SetDiscount(ctx context.Context, id primitive.ObjectID, discount bool, priceInDiscount float64) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) ([]string, error)
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	CountByIngredient(ctx context.Context, ingredientID primitive.ObjectID) (int64, error)
}

type OrderStore interface {
	ScopedStore
	Insert(ctx context.Context, order models.Order) error
	UpdateStatus(ctx context.Context, orgID, orderID primitive.ObjectID, status models.OrderStatus) (bool, error)
	SoftDelete(ctx context.Context, orgID, orderID primitive.ObjectID, at time.Time) (bool, error)
	SoftDeleteCreatedWithin(ctx context.Context, orgID primitive.ObjectID, window models.TimeWindow, at time.Time) (int64, error)
	FindActive(ctx context.Context, orgID primitive.ObjectID) ([]models.PopulatedOrder, error)
	FindHistory(ctx context.Context, orgID primitive.ObjectID, window *models.TimeWindow, skip, limit int64) ([]models.PopulatedOrder, error)
	CountHistory(ctx context.Context, orgID primitive.ObjectID, window *models.TimeWindow) (int64, error)
	DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error)
}

type UserStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, u models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

var (
	_ OrgStore        = (*repositories.OrgRepository)(nil)
	_ CategoryStore   = (*repositories.CategoryRepository)(nil)
	_ IngredientStore = (*repositories.IngredientRepository)(nil)
	_ ProductStore    = (*repositories.ProductRepository)(nil)
	_ OrderStore      = (*repositories.OrderRepository)(nil)
	_ UserStore       = (*repositories.UserRepository)(nil)
)
