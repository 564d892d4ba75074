package controllers

import (
	"context"
	"net/http"

	"go-restaurant-orders/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryManager interface {
	CreateCategory(ctx context.Context, userID, orgID primitive.ObjectID, name, icon string) (models.Category, error)
	ListCategories(ctx context.Context, orgID primitive.ObjectID) ([]models.Category, error)
	UpdateCategory(ctx context.Context, userID, orgID, categoryID primitive.ObjectID, name, icon string) (models.Category, error)
	DeleteCategory(ctx context.Context, userID, orgID, categoryID primitive.ObjectID) error
}

type CategoryController struct {
	categories CategoryManager
}

func NewCategoryController(categories CategoryManager) *CategoryController {
	return &CategoryController{categories: categories}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=60"`
	Icon string `json:"icon" validate:"max=16"`
}

type updateCategoryRequest struct {
	Name string `json:"name" validate:"max=60"`
	Icon string `json:"icon" validate:"max=16"`
}

func (cc *CategoryController) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		orgID, ok := objectIDParam(c, "org_id")
		if !ok {
			return
		}
		categories, err := cc.categories.ListCategories(ctx, orgID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func (cc *CategoryController) CreateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		var req categoryRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := cc.categories.CreateCategory(ctx, userID, orgID, req.Name, req.Icon)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func (cc *CategoryController) UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		categoryID, ok := objectIDParam(c, "category_id")
		if !ok {
			return
		}
		var req updateCategoryRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := cc.categories.UpdateCategory(ctx, userID, orgID, categoryID, req.Name, req.Icon)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func (cc *CategoryController) DeleteCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		categoryID, ok := objectIDParam(c, "category_id")
		if !ok {
			return
		}
		if err := cc.categories.DeleteCategory(ctx, userID, orgID, categoryID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
