package controllers

import (
	"context"
	"net/http"

	"go-restaurant-orders/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderLifecycle interface {
	CreateOrder(ctx context.Context, table string, orgID primitive.ObjectID, requested []models.RequestedItem) (models.Order, error)
	ChangeStatus(ctx context.Context, userID, orgID, orderID primitive.ObjectID, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, userID, orgID, orderID primitive.ObjectID) error
	ListOrders(ctx context.Context, userID, orgID primitive.ObjectID) ([]models.PopulatedOrder, error)
	RestartDay(ctx context.Context, userID, orgID primitive.ObjectID) error
}

type OrderController struct {
	orders OrderLifecycle
}

func NewOrderController(orders OrderLifecycle) *OrderController {
	return &OrderController{orders: orders}
}

type orderItemRequest struct {
	Product  string `json:"product" validate:"required,len=24,hexadecimal"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	Table string             `json:"table" validate:"required"`
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=WAITING IN_PRODUCTION DONE"`
}

// CreateOrder is called by tables and needs no session.
func (oc *OrderController) CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		orgID, ok := objectIDParam(c, "org_id")
		if !ok {
			return
		}
		var req createOrderRequest
		if !bindJSON(c, &req) {
			return
		}
		items := make([]models.RequestedItem, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.Product)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product"})
				return
			}
			items = append(items, models.RequestedItem{Product: productID, Quantity: item.Quantity})
		}

		order, err := oc.orders.CreateOrder(ctx, req.Table, orgID, items)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func (oc *OrderController) ListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		orders, err := oc.orders.ListOrders(ctx, userID, orgID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func (oc *OrderController) ChangeStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		orderID, ok := objectIDParam(c, "order_id")
		if !ok {
			return
		}
		var req changeStatusRequest
		if !bindJSON(c, &req) {
			return
		}

		if err := oc.orders.ChangeStatus(ctx, userID, orgID, orderID, models.OrderStatus(req.Status)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (oc *OrderController) DeleteOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		orderID, ok := objectIDParam(c, "order_id")
		if !ok {
			return
		}
		if err := oc.orders.DeleteOrder(ctx, userID, orgID, orderID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (oc *OrderController) RestartDay() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		if err := oc.orders.RestartDay(ctx, userID, orgID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func userAndOrg(c *gin.Context) (userID, orgID primitive.ObjectID, ok bool) {
	if userID, ok = currentUser(c); !ok {
		return
	}
	orgID, ok = objectIDParam(c, "org_id")
	return
}
