package services

import (
	"context"

	"go-restaurant-orders/common"
	"go-restaurant-orders/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService struct {
	categories CategoryStore
	products   ProductStore
	ownership  *Ownership
	clock      Clock
}

func NewCategoryService(categories CategoryStore, products ProductStore, ownership *Ownership, clock Clock) *CategoryService {
	return &CategoryService{categories: categories, products: products, ownership: ownership, clock: clock}
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID, orgID primitive.ObjectID, name, icon string) (models.Category, error) {
	if err := s.ownership.VerifyOrg(ctx, userID, orgID); err != nil {
		return models.Category{}, err
	}
	if err := s.ensureNameFree(ctx, orgID, name); err != nil {
		return models.Category{}, err
	}

	category := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Icon:      icon,
		Org:       orgID,
		CreatedAt: s.clock.Now(),
	}
	if err := s.categories.Insert(ctx, category); err != nil {
		return models.Category{}, common.Classify(err)
	}
	return category, nil
}

// ListCategories is public: menus are browsed without signing in.
func (s *CategoryService) ListCategories(ctx context.Context, orgID primitive.ObjectID) ([]models.Category, error) {
	categories, err := s.categories.FindByOrg(ctx, orgID)
	if err != nil {
		return nil, common.Classify(err)
	}
	if len(categories) == 0 {
		return nil, common.NoContent()
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, orgID, categoryID primitive.ObjectID, name, icon string) (models.Category, error) {
	if err := s.ownership.VerifyCategory(ctx, userID, orgID, categoryID); err != nil {
		return models.Category{}, err
	}
	if name != "" {
		if err := s.ensureNameFree(ctx, orgID, name); err != nil {
			return models.Category{}, err
		}
	}

	category, err := s.categories.Update(ctx, categoryID, name, icon)
	if err != nil {
		return models.Category{}, notFoundAs(err, common.ErrCategoryNotFound)
	}
	return category, nil
}

// DeleteCategory refuses while any product still uses the category.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, orgID, categoryID primitive.ObjectID) error {
	if err := s.ownership.VerifyCategory(ctx, userID, orgID, categoryID); err != nil {
		return err
	}
	inUse, err := s.products.CountByCategory(ctx, categoryID)
	if err != nil {
		return common.Classify(err)
	}
	if inUse > 0 {
		return common.BadRequest("category is in use by a product")
	}

	n, err := s.categories.Delete(ctx, categoryID)
	if err != nil {
		return common.Classify(err)
	}
	if n == 0 {
		return common.ErrCategoryNotFound
	}
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, orgID primitive.ObjectID, name string) error {
	taken, err := s.categories.ExistsByName(ctx, orgID, name)
	if err != nil {
		return common.Classify(err)
	}
	if taken {
		return common.BadRequest("category already exists")
	}
	return nil
}

// notFoundAs replaces a storage not-found with the entity's own error.
func notFoundAs(err error, notFound error) error {
	err = common.Classify(err)
	if common.KindOf(err) == common.KindNotFound {
		return notFound
	}
	return err
}
