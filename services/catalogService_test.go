package services

import (
	"context"
	"testing"

	"go-restaurant-orders/common"
	"go-restaurant-orders/models"
	"go-restaurant-orders/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryService_Lifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	category, err := f.catSvc.CreateCategory(ctx, f.owner, f.org.ID, "Pizzas", "🍕")
	require.NoError(t, err)
	assert.Equal(t, f.org.ID, category.Org)

	_, err = f.catSvc.CreateCategory(ctx, f.owner, f.org.ID, "Pizzas", "🍕")
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))

	updated, err := f.catSvc.UpdateCategory(ctx, f.owner, f.org.ID, category.ID, "", "🍴")
	require.NoError(t, err)
	assert.Equal(t, "Pizzas", updated.Name)
	assert.Equal(t, "🍴", updated.Icon)

	f.addProduct("margherita", 40, category.ID)
	err = f.catSvc.DeleteCategory(ctx, f.owner, f.org.ID, category.ID)
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))
	assert.Contains(t, f.db.categories, category.ID)
}

func TestCategoryService_ListEmpty(t *testing.T) {
	f := newFixture()

	_, err := f.catSvc.ListCategories(context.Background(), f.org.ID)
	assert.Equal(t, common.KindNoContent, common.KindOf(err))
}

func TestProductService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category := f.addCategory("Pizzas", "🍕")

	_, err := f.prodSvc.CreateProduct(ctx, f.owner, f.org.ID, ProductInput{
		Name: "margherita", Price: 40, Category: category.ID, Discount: true,
	})
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))

	foreign := f.addCategory("Elsewhere", "")
	foreign.Org = primitive.NewObjectID()
	f.db.categories[foreign.ID] = foreign
	_, err = f.prodSvc.CreateProduct(ctx, f.owner, f.org.ID, ProductInput{Name: "x", Price: 1, Category: foreign.ID})
	assert.ErrorIs(t, err, common.ErrOrgNotFound)

	product, err := f.prodSvc.CreateProduct(ctx, f.owner, f.org.ID, ProductInput{
		Name: "margherita", Price: 40, Category: category.ID, Discount: true, PriceInDiscount: 35,
	})
	require.NoError(t, err)
	assert.Equal(t, 35.0, product.UnitPrice())
	assert.NotNil(t, product.Ingredients)

	_, err = f.prodSvc.CreateProduct(ctx, f.owner, f.org.ID, ProductInput{Name: "margherita", Price: 1, Category: category.ID})
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))
}

func TestProductService_ListPopulates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	category := f.addCategory("Pizzas", "🍕")
	cheese := models.Ingredient{ID: primitive.NewObjectID(), Name: "cheese"}
	f.db.ingredients[cheese.ID] = cheese
	p := f.addProduct("margherita", 40, category.ID)
	p.Ingredients = []primitive.ObjectID{cheese.ID, primitive.NewObjectID()}
	f.db.products[p.ID] = p

	products, err := f.prodSvc.ListProducts(ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Pizzas", products[0].Category.Name)
	assert.Equal(t, []models.Ingredient{cheese}, products[0].Ingredients)

	_, err = f.prodSvc.ListDiscounted(ctx, f.org.ID)
	assert.Equal(t, common.KindNoContent, common.KindOf(err))
}

func TestProductService_ChangeDiscount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.addProduct("soda", 8, primitive.NilObjectID)

	_, err := f.prodSvc.ChangeDiscount(ctx, f.owner, f.org.ID, p.ID, true, 0)
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))

	updated, err := f.prodSvc.ChangeDiscount(ctx, f.owner, f.org.ID, p.ID, true, 6)
	require.NoError(t, err)
	assert.Equal(t, 6.0, updated.UnitPrice())

	off, err := f.prodSvc.ChangeDiscount(ctx, f.owner, f.org.ID, p.ID, false, 6)
	require.NoError(t, err)
	assert.Equal(t, 8.0, off.UnitPrice())
	assert.Zero(t, off.PriceInDiscount)
}

func TestProductService_UpdateReplacesImage(t *testing.T) {
	f := newFixture()
	p := f.addProduct("soda", 8, primitive.NilObjectID)
	image := "https://cdn.example.com/new.png"
	price := 9.5

	updated, err := f.prodSvc.UpdateProduct(context.Background(), f.owner, f.org.ID, p.ID, repositories.ProductUpdate{Image: &image, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 9.5, updated.Price)
	require.Len(t, f.assets.calls, 1)
	assert.Equal(t, []string{f.org.ID.Hex() + "/soda.png"}, f.assets.calls[0])
}

func TestProductService_DeleteRemovesImage(t *testing.T) {
	f := newFixture()
	p := f.addProduct("soda", 8, primitive.NilObjectID)

	require.NoError(t, f.prodSvc.DeleteProduct(context.Background(), f.owner, f.org.ID, p.ID))
	assert.NotContains(t, f.db.products, p.ID)
	require.Len(t, f.assets.calls, 1)
	assert.Equal(t, []string{f.org.ID.Hex() + "/soda.png"}, f.assets.calls[0])
}

func TestIngredientService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.ingSvc.ListIngredients(ctx)
	assert.Equal(t, common.KindNoContent, common.KindOf(err))

	cheese, err := f.ingSvc.CreateIngredient(ctx, "cheese", "🧀")
	require.NoError(t, err)
	_, err = f.ingSvc.CreateIngredient(ctx, "cheese", "🧀")
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))

	p := f.addProduct("pizza", 40, primitive.NilObjectID)
	p.Ingredients = []primitive.ObjectID{cheese.ID}
	f.db.products[p.ID] = p
	err = f.ingSvc.DeleteIngredient(ctx, cheese.ID)
	assert.Equal(t, common.KindBadRequest, common.KindOf(err))

	delete(f.db.products, p.ID)
	require.NoError(t, f.ingSvc.DeleteIngredient(ctx, cheese.ID))
	assert.ErrorIs(t, f.ingSvc.DeleteIngredient(ctx, cheese.ID), ErrIngredientNotFound)
}
