package services

import (
	"context"

	"go-restaurant-orders/common"
	"go-restaurant-orders/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrIngredientNotFound = common.NotFound("ingredient not found")

// IngredientService manages the shared ingredient list. Only admins reach it.
type IngredientService struct {
	ingredients IngredientStore
	products    ProductStore
	clock       Clock
}

func NewIngredientService(ingredients IngredientStore, products ProductStore, clock Clock) *IngredientService {
	return &IngredientService{ingredients: ingredients, products: products, clock: clock}
}

func (s *IngredientService) CreateIngredient(ctx context.Context, name, icon string) (models.Ingredient, error) {
	taken, err := s.ingredients.ExistsByName(ctx, name)
	if err != nil {
		return models.Ingredient{}, common.Classify(err)
	}
	if taken {
		return models.Ingredient{}, common.BadRequest("ingredient already exists")
	}

	in := models.Ingredient{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Icon:      icon,
		CreatedAt: s.clock.Now(),
	}
	if err := s.ingredients.Insert(ctx, in); err != nil {
		return models.Ingredient{}, common.Classify(err)
	}
	return in, nil
}

func (s *IngredientService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := s.ingredients.FindAll(ctx)
	if err != nil {
		return nil, common.Classify(err)
	}
	if len(ingredients) == 0 {
		return nil, common.NoContent()
	}
	return ingredients, nil
}

func (s *IngredientService) DeleteIngredient(ctx context.Context, id primitive.ObjectID) error {
	inUse, err := s.products.CountByIngredient(ctx, id)
	if err != nil {
		return common.Classify(err)
	}
	if inUse > 0 {
		return common.BadRequest("ingredient is in use by a product")
	}

	n, err := s.ingredients.Delete(ctx, id)
	if err != nil {
		return common.Classify(err)
	}
	if n == 0 {
		return ErrIngredientNotFound
	}
	return nil
}
