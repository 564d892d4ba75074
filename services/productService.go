package services

import (
	"context"

	"go-restaurant-orders/assets"
	"go-restaurant-orders/common"
	"go-restaurant-orders/models"
	"go-restaurant-orders/repositories"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

var errInvalidDiscountPrice = common.BadRequest("invalid discount price")

type ProductInput struct {
	Name            string
	Description     string
	Image           string
	Price           float64
	Category        primitive.ObjectID
	Ingredients     []primitive.ObjectID
	Discount        bool
	PriceInDiscount float64
}

type ProductService struct {
	products    ProductStore
	categories  CategoryStore
	ingredients IngredientStore
	ownership   *Ownership
	assets      assets.Deleter
	log         *logrus.Logger
	clock       Clock
}

func NewProductService(products ProductStore, categories CategoryStore, ingredients IngredientStore, ownership *Ownership, assetDeleter assets.Deleter, log *logrus.Logger, clock Clock) *ProductService {
	return &ProductService{
		products:    products,
		categories:  categories,
		ingredients: ingredients,
		ownership:   ownership,
		assets:      assetDeleter,
		log:         log,
		clock:       clock,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, userID, orgID primitive.ObjectID, in ProductInput) (models.Product, error) {
	if in.Discount && in.PriceInDiscount <= 0 {
		return models.Product{}, errInvalidDiscountPrice
	}
	if err := s.ownership.VerifyCategory(ctx, userID, orgID, in.Category); err != nil {
		return models.Product{}, err
	}
	taken, err := s.products.ExistsByName(ctx, orgID, in.Name)
	if err != nil {
		return models.Product{}, common.Classify(err)
	}
	if taken {
		return models.Product{}, common.BadRequest("product already exists")
	}

	ingredients := in.Ingredients
	if ingredients == nil {
		ingredients = []primitive.ObjectID{}
	}
	product := models.Product{
		ID:              primitive.NewObjectID(),
		Name:            in.Name,
		Description:     in.Description,
		Image:           in.Image,
		Price:           in.Price,
		Ingredients:     ingredients,
		Category:        in.Category,
		Discount:        in.Discount,
		PriceInDiscount: in.PriceInDiscount,
		Org:             orgID,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return models.Product{}, common.Classify(err)
	}
	return product, nil
}

// ListProducts returns the org's menu with categories and ingredients
// resolved.
func (s *ProductService) ListProducts(ctx context.Context, orgID primitive.ObjectID) ([]models.PopulatedProduct, error) {
	return s.list(ctx, orgID, false)
}

func (s *ProductService) ListDiscounted(ctx context.Context, orgID primitive.ObjectID) ([]models.PopulatedProduct, error) {
	return s.list(ctx, orgID, true)
}

func (s *ProductService) list(ctx context.Context, orgID primitive.ObjectID, discountedOnly bool) ([]models.PopulatedProduct, error) {
	products, err := s.products.FindByOrg(ctx, orgID, discountedOnly)
	if err != nil {
		return nil, common.Classify(err)
	}
	if len(products) == 0 {
		return nil, common.NoContent()
	}

	populated, err := s.populate(ctx, products)
	if err != nil {
		return nil, common.Classify(err)
	}
	return populated, nil
}

func (s *ProductService) populate(ctx context.Context, products []models.Product) ([]models.PopulatedProduct, error) {
	var categoryIDs, ingredientIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categoryIDs = append(categoryIDs, p.Category)
		}
		for _, id := range p.Ingredients {
			if !seen[id] {
				seen[id] = true
				ingredientIDs = append(ingredientIDs, id)
			}
		}
	}

	var (
		categories  []models.Category
		ingredients []models.Ingredient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.categories.FindByIDs(gctx, categoryIDs)
		return err
	})
	g.Go(func() error {
		var err error
		ingredients, err = s.ingredients.FindByIDs(gctx, ingredientIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make(map[primitive.ObjectID]models.Category, len(categories))
	for _, c := range categories {
		byCategory[c.ID] = c
	}
	byIngredient := make(map[primitive.ObjectID]models.Ingredient, len(ingredients))
	for _, in := range ingredients {
		byIngredient[in.ID] = in
	}

	populated := make([]models.PopulatedProduct, 0, len(products))
	for _, p := range products {
		populated = append(populated, p.Populate(byCategory, byIngredient))
	}
	return populated, nil
}

// UpdateProduct changes catalog data. Existing orders keep the prices they
// were created with.
func (s *ProductService) UpdateProduct(ctx context.Context, userID, orgID, productID primitive.ObjectID, u repositories.ProductUpdate) (models.Product, error) {
	checks := []func(context.Context) error{
		func(ctx context.Context) error { return s.ownership.VerifyProduct(ctx, userID, orgID, productID) },
	}
	if u.Category != nil {
		category := *u.Category
		checks = append(checks, func(ctx context.Context) error { return s.ownership.Category.Verify(ctx, orgID, category) })
	}
	if err := verifyAll(ctx, checks...); err != nil {
		return models.Product{}, err
	}
	if u.Price != nil && *u.Price < 0 {
		return models.Product{}, common.BadRequest("invalid price")
	}

	var previousImage string
	if u.Image != nil {
		current, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return models.Product{}, notFoundAs(err, common.ErrProductNotFound)
		}
		previousImage = current.Image
	}

	product, err := s.products.Update(ctx, productID, u)
	if err != nil {
		return models.Product{}, notFoundAs(err, common.ErrProductNotFound)
	}
	if previousImage != "" && previousImage != product.Image {
		s.assets.DeleteKeys([]string{assets.KeyFromURL(previousImage)})
	}
	return product, nil
}

// ChangeDiscount turns the discount on with the given price, or off.
func (s *ProductService) ChangeDiscount(ctx context.Context, userID, orgID, productID primitive.ObjectID, discount bool, priceInDiscount float64) (models.Product, error) {
	if discount && priceInDiscount <= 0 {
		return models.Product{}, errInvalidDiscountPrice
	}
	if err := s.ownership.VerifyProduct(ctx, userID, orgID, productID); err != nil {
		return models.Product{}, err
	}
	if !discount {
		priceInDiscount = 0
	}

	product, err := s.products.SetDiscount(ctx, productID, discount, priceInDiscount)
	if err != nil {
		return models.Product{}, notFoundAs(err, common.ErrProductNotFound)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, userID, orgID, productID primitive.ObjectID) error {
	if err := s.ownership.VerifyProduct(ctx, userID, orgID, productID); err != nil {
		return err
	}

	product, err := s.products.Delete(ctx, productID)
	if err != nil {
		return notFoundAs(err, common.ErrProductNotFound)
	}
	if product.Image != "" {
		s.assets.DeleteKeys([]string{assets.KeyFromURL(product.Image)})
	}
	s.log.WithFields(logrus.Fields{"product_id": productID.Hex(), "org_id": orgID.Hex()}).Info("product deleted")
	return nil
}
