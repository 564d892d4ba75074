package services

import (
	"context"
	"math"
	"strings"
	"time"

	"go-restaurant-orders/common"
	"go-restaurant-orders/helpers"
	"go-restaurant-orders/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	HistoryPageSize = 6

	unknownProductName  = "Nome não identificado"
	unknownCategoryName = "Categoria não identificada"

	// rangeEndOffset is subtracted from the end of the last requested day.
	rangeEndOffset = 3 * time.Hour

	// maxHistoryPage is the last page whose skip still fits in an int64.
	maxHistoryPage int64 = math.MaxInt64/HistoryPageSize + 1
)

type HistoryService struct {
	orders    OrderStore
	ownership *Ownership
	clock     Clock
}

func NewHistoryService(orders OrderStore, ownership *Ownership, clock Clock) *HistoryService {
	return &HistoryService{orders: orders, ownership: ownership, clock: clock}
}

// HistoryPage returns one page of the org's orders, deleted ones included.
func (s *HistoryService) HistoryPage(ctx context.Context, userID, orgID primitive.ObjectID, page int) (models.HistoryPage, error) {
	return s.page(ctx, userID, orgID, page, nil)
}

// HistoryPageBetween restricts HistoryPage to orders created within the
// calendar days of r.
func (s *HistoryService) HistoryPageBetween(ctx context.Context, userID, orgID primitive.ObjectID, page int, r models.DateRange) (models.HistoryPage, error) {
	window := s.Window(r)
	return s.page(ctx, userID, orgID, page, &window)
}

func (s *HistoryService) Window(r models.DateRange) models.TimeWindow {
	return models.TimeWindow{
		From: r.From,
		To:   s.clock.EndOfDay(r.To).Add(-rangeEndOffset),
	}
}

func (s *HistoryService) page(ctx context.Context, userID, orgID primitive.ObjectID, page int, window *models.TimeWindow) (models.HistoryPage, error) {
	if err := s.ownership.VerifyOrg(ctx, userID, orgID); err != nil {
		return models.HistoryPage{}, err
	}
	page = NormalizePage(page)
	if int64(page) > maxHistoryPage {
		return models.HistoryPage{}, common.ErrOrderNotFound
	}

	var (
		count  int64
		orders []models.PopulatedOrder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.orders.CountHistory(gctx, orgID, window)
		return err
	})
	g.Go(func() error {
		var err error
		skip := (int64(page) - 1) * HistoryPageSize
		orders, err = s.orders.FindHistory(gctx, orgID, window, skip, HistoryPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.HistoryPage{}, common.Classify(err)
	}
	if len(orders) == 0 {
		return models.HistoryPage{}, common.ErrOrderNotFound
	}

	summaries := make([]models.HistorySummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, ToHistorySummary(o))
	}
	return models.HistoryPage{
		Orders:     summaries,
		Page:       page,
		TotalPages: TotalPages(count),
	}, nil
}

func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func TotalPages(count int64) int {
	return int((count + HistoryPageSize - 1) / HistoryPageSize)
}

// ToHistorySummary flattens a populated order for reporting.
func ToHistorySummary(o models.PopulatedOrder) models.HistorySummary {
	summary := models.HistorySummary{
		ID:        o.ID,
		Table:     o.Table,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		DeletedAt: o.Deletion,
	}

	var first *models.ProductSummary
	for _, item := range o.Items {
		if item.Product != nil {
			first = item.Product
			break
		}
	}
	if first == nil {
		summary.Name = unknownProductName
		summary.Category = unknownCategoryName
		summary.Total = helpers.FormatCurrency(0)
		summary.Items = []models.HistoryItem{}
		return summary
	}

	var names strings.Builder
	total := decimal.Zero
	items := make([]models.HistoryItem, 0, len(o.Items))
	for _, item := range o.Items {
		total = total.Add(helpers.LineTotal(item.Price, item.Quantity))
		if item.Product == nil {
			continue
		}
		names.WriteString(item.Product.Name)
		names.WriteString(", ")
		items = append(items, models.HistoryItem{
			ProductID: item.ProductID,
			Image:     item.Product.Image,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Discount:  item.Discount,
		})
	}

	summary.Name = names.String()
	summary.Total = helpers.FormatDecimal(total)
	summary.Items = items
	if c := first.Category; c != nil {
		summary.Category = strings.TrimSpace(c.Icon + " " + c.Name)
	}
	return summary
}
