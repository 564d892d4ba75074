package routes

import (
	controller "go-restaurant-orders/controllers"
	"go-restaurant-orders/middleware"
	"go-restaurant-orders/models"

	"github.com/gin-gonic/gin"
)

// MenuRoutes registers categories, products and the shared ingredient list.
// Browsing a menu needs no session.
func MenuRoutes(public, private *gin.RouterGroup, categories *controller.CategoryController, products *controller.ProductController, ingredients *controller.IngredientController) {
	public.GET("/orgs/:org_id/categories", categories.GetCategories())
	public.GET("/orgs/:org_id/products", products.GetProducts())
	public.GET("/orgs/:org_id/products/discounts", products.GetDiscountedProducts())

	private.POST("/orgs/:org_id/categories", categories.CreateCategory())
	private.PATCH("/orgs/:org_id/categories/:category_id", categories.UpdateCategory())
	private.DELETE("/orgs/:org_id/categories/:category_id", categories.DeleteCategory())

	private.POST("/orgs/:org_id/products", products.CreateProduct())
	private.PATCH("/orgs/:org_id/products/:product_id", products.UpdateProduct())
	private.PATCH("/orgs/:org_id/products/:product_id/discount", products.ChangeDiscount())
	private.DELETE("/orgs/:org_id/products/:product_id", products.DeleteProduct())

	private.GET("/ingredients", ingredients.GetIngredients())
	admin := private.Group("/ingredients", middleware.Authorize(models.RoleAdmin))
	admin.POST("", ingredients.CreateIngredient())
	admin.DELETE("/:ingredient_id", ingredients.DeleteIngredient())
}
