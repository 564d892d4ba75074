package services

import (
	"context"

	"go-restaurant-orders/common"
	"go-restaurant-orders/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// CatalogResolver snapshots current product pricing into line items.
type CatalogResolver struct {
	products ProductFinder
	log      *logrus.Logger
}

func NewCatalogResolver(products ProductFinder, log *logrus.Logger) *CatalogResolver {
	return &CatalogResolver{products: products, log: log}
}

// ResolveLineItems prices each requested item from the catalog. Items whose
// product does not exist are dropped rather than failing the order.
func (r *CatalogResolver) ResolveLineItems(ctx context.Context, requested []models.RequestedItem) ([]models.LineItem, error) {
	seen := make(map[primitive.ObjectID]bool, len(requested))
	var ids []primitive.ObjectID
	for _, item := range requested {
		if !seen[item.Product] {
			seen[item.Product] = true
			ids = append(ids, item.Product)
		}
	}

	products, err := r.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, common.Classify(err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.LineItem, 0, len(requested))
	for _, item := range requested {
		p, ok := byID[item.Product]
		if !ok {
			r.log.WithField("product_id", item.Product.Hex()).Warn("dropping line item for unknown product")
			continue
		}
		items = append(items, models.LineItem{
			Product:  p.ID,
			Quantity: item.Quantity,
			Price:    p.UnitPrice(),
			Discount: p.Discount,
		})
	}
	return items, nil
}
