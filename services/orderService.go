package services

import (
	"context"
	"time"

	"go-restaurant-orders/common"
	"go-restaurant-orders/events"
	"go-restaurant-orders/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrgExistence interface {
	Exists(ctx context.Context, orgID primitive.ObjectID) (bool, error)
}

// OrderService owns the order lifecycle: creation, status changes,
// soft deletion and the daily restart.
type OrderService struct {
	orders    OrderStore
	orgs      OrgExistence
	catalog   *CatalogResolver
	ownership *Ownership
	events    events.Emitter
	log       *logrus.Logger
	clock     Clock
}

func NewOrderService(orders OrderStore, orgs OrgExistence, catalog *CatalogResolver, ownership *Ownership, emitter events.Emitter, log *logrus.Logger, clock Clock) *OrderService {
	return &OrderService{
		orders:    orders,
		orgs:      orgs,
		catalog:   catalog,
		ownership: ownership,
		events:    emitter,
		log:       log,
		clock:     clock,
	}
}

// CreateOrder stores a WAITING order for the table with prices snapshotted
// from the catalog, then announces it to the org's room.
func (s *OrderService) CreateOrder(ctx context.Context, table string, orgID primitive.ObjectID, requested []models.RequestedItem) (models.Order, error) {
	exists, err := s.orgs.Exists(ctx, orgID)
	if err != nil {
		return models.Order{}, common.Classify(err)
	}
	if !exists {
		return models.Order{}, common.ErrOrgNotFound
	}

	items, err := s.catalog.ResolveLineItems(ctx, requested)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		ID:        primitive.NewObjectID(),
		Table:     table,
		Status:    models.StatusWaiting,
		Items:     items,
		Org:       orgID,
		CreatedAt: s.clock.Now(),
		Deletion:  models.Active(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return models.Order{}, common.Classify(err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID.Hex(),
		"org_id":   orgID.Hex(),
		"items":    len(items),
	}).Info("order created")
	s.events.Emit(orgID.Hex(), events.OrderCreated, order)
	return order, nil
}

// ChangeStatus sets any of the three statuses regardless of the current one.
func (s *OrderService) ChangeStatus(ctx context.Context, userID, orgID, orderID primitive.ObjectID, status models.OrderStatus) error {
	if !status.Valid() {
		return common.BadRequest("invalid order status")
	}
	if err := s.ownership.VerifyOrder(ctx, userID, orgID, orderID); err != nil {
		return err
	}

	updated, err := s.orders.UpdateStatus(ctx, orgID, orderID, status)
	if err != nil {
		return common.Classify(err)
	}
	if !updated {
		return common.ErrOrderNotFound
	}
	return nil
}

// DeleteOrder soft-deletes the order. Deleting twice keeps the first
// deletion time.
func (s *OrderService) DeleteOrder(ctx context.Context, userID, orgID, orderID primitive.ObjectID) error {
	if err := s.ownership.VerifyOrder(ctx, userID, orgID, orderID); err != nil {
		return err
	}

	matched, err := s.orders.SoftDelete(ctx, orgID, orderID, s.clock.Now())
	if err != nil {
		return common.Classify(err)
	}
	if !matched {
		return common.ErrOrderNotFound
	}
	return nil
}

// ListOrders returns the org's active orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID, orgID primitive.ObjectID) ([]models.PopulatedOrder, error) {
	if err := s.ownership.VerifyOrg(ctx, userID, orgID); err != nil {
		return nil, err
	}

	orders, err := s.orders.FindActive(ctx, orgID)
	if err != nil {
		return nil, common.Classify(err)
	}
	if len(orders) == 0 {
		return nil, common.NoContent()
	}
	return orders, nil
}

// RestartDay soft-deletes every active order created today.
func (s *OrderService) RestartDay(ctx context.Context, userID, orgID primitive.ObjectID) error {
	if err := s.ownership.VerifyOrg(ctx, userID, orgID); err != nil {
		return err
	}

	now := s.clock.Now()
	window := models.TimeWindow{From: s.clock.StartOfDay(now), To: s.clock.EndOfDay(now)}
	n, err := s.orders.SoftDeleteCreatedWithin(ctx, orgID, window, now)
	if err != nil {
		return common.Classify(err)
	}
	if n == 0 {
		return common.ErrNoOrdersToday
	}

	s.log.WithFields(logrus.Fields{"org_id": orgID.Hex(), "orders": n}).Info("day restarted")
	s.events.Emit(orgID.Hex(), events.DayRestarted, nil)
	return nil
}

// Clock gives services the current time and the restaurant's calendar day.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) StartOfDay(t time.Time) time.Time {
	t = t.In(c.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Location)
}

func (c Clock) EndOfDay(t time.Time) time.Time {
	return c.StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}
