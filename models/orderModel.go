package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusWaiting      OrderStatus = "WAITING"
	StatusInProduction OrderStatus = "IN_PRODUCTION"
	StatusDone         OrderStatus = "DONE"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusInProduction, StatusDone:
		return true
	}
	return false
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid order status %q", s)
	}
	return status, nil
}

// LineItem is one product of an order. Price and Discount are captured when
// the order is created and never recomputed.
type LineItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Discount bool               `bson:"discount" json:"discount"`
}

// Order is the stored shape: line items reference products by id.
type Order struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Table     string             `bson:"table" json:"table"`
	Status    OrderStatus        `bson:"status" json:"status"`
	Items     []LineItem         `bson:"items" json:"items"`
	Org       primitive.ObjectID `bson:"org" json:"org"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Deletion  DeletionState      `bson:"deletedAt" json:"deletedAt"`
}

// PopulatedLineItem carries the resolved product. Product is nil when the
// referenced product no longer exists.
type PopulatedLineItem struct {
	ProductID primitive.ObjectID `json:"productId"`
	Product   *ProductSummary    `json:"product"`
	Quantity  int                `json:"quantity"`
	Price     float64            `json:"price"`
	Discount  bool               `json:"discount"`
}

type PopulatedOrder struct {
	ID        primitive.ObjectID  `json:"id"`
	Table     string              `json:"table"`
	Status    OrderStatus         `json:"status"`
	Items     []PopulatedLineItem `json:"items"`
	Org       primitive.ObjectID  `json:"org"`
	CreatedAt time.Time           `json:"createdAt"`
	Deletion  DeletionState       `json:"deletedAt"`
}

// ProductIDs lists the distinct products referenced by the order's items.
func (o Order) ProductIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(o.Items))
	var ids []primitive.ObjectID
	for _, item := range o.Items {
		if seen[item.Product] {
			continue
		}
		seen[item.Product] = true
		ids = append(ids, item.Product)
	}
	return ids
}

// Populate resolves product references against the given lookup.
func (o Order) Populate(products map[primitive.ObjectID]ProductSummary) PopulatedOrder {
	items := make([]PopulatedLineItem, 0, len(o.Items))
	for _, item := range o.Items {
		pi := PopulatedLineItem{
			ProductID: item.Product,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Discount:  item.Discount,
		}
		if p, ok := products[item.Product]; ok {
			p := p
			pi.Product = &p
		}
		items = append(items, pi)
	}
	return PopulatedOrder{
		ID:        o.ID,
		Table:     o.Table,
		Status:    o.Status,
		Items:     items,
		Org:       o.Org,
		CreatedAt: o.CreatedAt,
		Deletion:  o.Deletion,
	}
}

// Reference drops the populated products back to ids.
func (o PopulatedOrder) Reference() Order {
	items := make([]LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, LineItem{
			Product:  item.ProductID,
			Quantity: item.Quantity,
			Price:    item.Price,
			Discount: item.Discount,
		})
	}
	return Order{
		ID:        o.ID,
		Table:     o.Table,
		Status:    o.Status,
		Items:     items,
		Org:       o.Org,
		CreatedAt: o.CreatedAt,
		Deletion:  o.Deletion,
	}
}

// RequestedItem is what a table asks for before prices are resolved.
type RequestedItem struct {
	Product  primitive.ObjectID
	Quantity int
}
