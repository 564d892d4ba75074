package controllers

import (
	"context"
	"net/http"

	"go-restaurant-orders/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IngredientManager interface {
	CreateIngredient(ctx context.Context, name, icon string) (models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id primitive.ObjectID) error
}

type IngredientController struct {
	ingredients IngredientManager
}

func NewIngredientController(ingredients IngredientManager) *IngredientController {
	return &IngredientController{ingredients: ingredients}
}

type ingredientRequest struct {
	Name string `json:"name" validate:"required,max=60"`
	Icon string `json:"icon" validate:"max=16"`
}

func (ic *IngredientController) GetIngredients() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		ingredients, err := ic.ingredients.ListIngredients(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ingredients)
	}
}

func (ic *IngredientController) CreateIngredient() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req ingredientRequest
		if !bindJSON(c, &req) {
			return
		}
		ingredient, err := ic.ingredients.CreateIngredient(ctx, req.Name, req.Icon)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ingredient)
	}
}

func (ic *IngredientController) DeleteIngredient() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := objectIDParam(c, "ingredient_id")
		if !ok {
			return
		}
		if err := ic.ingredients.DeleteIngredient(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
