package controllers

import (
	"context"
	"net/http"

	"go-restaurant-orders/models"
	"go-restaurant-orders/repositories"
	"go-restaurant-orders/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductManager interface {
	CreateProduct(ctx context.Context, userID, orgID primitive.ObjectID, in services.ProductInput) (models.Product, error)
	ListProducts(ctx context.Context, orgID primitive.ObjectID) ([]models.PopulatedProduct, error)
	ListDiscounted(ctx context.Context, orgID primitive.ObjectID) ([]models.PopulatedProduct, error)
	UpdateProduct(ctx context.Context, userID, orgID, productID primitive.ObjectID, u repositories.ProductUpdate) (models.Product, error)
	ChangeDiscount(ctx context.Context, userID, orgID, productID primitive.ObjectID, discount bool, priceInDiscount float64) (models.Product, error)
	DeleteProduct(ctx context.Context, userID, orgID, productID primitive.ObjectID) error
}

type ProductController struct {
	products ProductManager
}

func NewProductController(products ProductManager) *ProductController {
	return &ProductController{products: products}
}

type productRequest struct {
	Name            string   `json:"name" validate:"required,max=80"`
	Description     string   `json:"description" validate:"max=500"`
	Image           string   `json:"image" validate:"omitempty,url"`
	Price           float64  `json:"price" validate:"gte=0"`
	Category        string   `json:"category" validate:"required,len=24,hexadecimal"`
	Ingredients     []string `json:"ingredients" validate:"dive,len=24,hexadecimal"`
	Discount        bool     `json:"discount"`
	PriceInDiscount float64  `json:"priceInDiscount" validate:"gte=0"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=80"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Image       *string  `json:"image" validate:"omitempty,url"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,len=24,hexadecimal"`
	Ingredients []string `json:"ingredients" validate:"omitempty,dive,len=24,hexadecimal"`
}

type discountRequest struct {
	Discount        *bool   `json:"discount" validate:"required"`
	PriceInDiscount float64 `json:"priceInDiscount"`
}

func (pc *ProductController) GetProducts() gin.HandlerFunc {
	return pc.list(false)
}

func (pc *ProductController) GetDiscountedProducts() gin.HandlerFunc {
	return pc.list(true)
}

func (pc *ProductController) list(discounted bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		orgID, ok := objectIDParam(c, "org_id")
		if !ok {
			return
		}
		var (
			products []models.PopulatedProduct
			err      error
		)
		if discounted {
			products, err = pc.products.ListDiscounted(ctx, orgID)
		} else {
			products, err = pc.products.ListProducts(ctx, orgID)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func (pc *ProductController) CreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		var req productRequest
		if !bindJSON(c, &req) {
			return
		}
		category, err := primitive.ObjectIDFromHex(req.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		ingredients, err := objectIDs(req.Ingredients)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient"})
			return
		}

		product, err := pc.products.CreateProduct(ctx, userID, orgID, services.ProductInput{
			Name:            req.Name,
			Description:     req.Description,
			Image:           req.Image,
			Price:           req.Price,
			Category:        category,
			Ingredients:     ingredients,
			Discount:        req.Discount,
			PriceInDiscount: req.PriceInDiscount,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func (pc *ProductController) UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		productID, ok := objectIDParam(c, "product_id")
		if !ok {
			return
		}
		var req updateProductRequest
		if !bindJSON(c, &req) {
			return
		}

		u := repositories.ProductUpdate{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			Price:       req.Price,
		}
		if req.Category != nil {
			category, err := primitive.ObjectIDFromHex(*req.Category)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			u.Category = &category
		}
		if req.Ingredients != nil {
			ingredients, err := objectIDs(req.Ingredients)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient"})
				return
			}
			u.Ingredients = ingredients
		}

		product, err := pc.products.UpdateProduct(ctx, userID, orgID, productID, u)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func (pc *ProductController) ChangeDiscount() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		productID, ok := objectIDParam(c, "product_id")
		if !ok {
			return
		}
		var req discountRequest
		if !bindJSON(c, &req) {
			return
		}
		product, err := pc.products.ChangeDiscount(ctx, userID, orgID, productID, *req.Discount, req.PriceInDiscount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func (pc *ProductController) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		productID, ok := objectIDParam(c, "product_id")
		if !ok {
			return
		}
		if err := pc.products.DeleteProduct(ctx, userID, orgID, productID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func objectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
