package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryItem is one line of a denormalized history entry.
type HistoryItem struct {
	ProductID primitive.ObjectID `json:"productId"`
	Image     string             `json:"image"`
	Name      string             `json:"name"`
	Quantity  int                `json:"quantity"`
	Price     float64            `json:"price"`
	Discount  bool               `json:"discount"`
}

// HistorySummary is an order flattened for reporting.
type HistorySummary struct {
	ID        primitive.ObjectID `json:"id"`
	Table     string             `json:"table"`
	Status    OrderStatus        `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	DeletedAt DeletionState      `json:"deletedAt"`
	Name      string             `json:"name"`
	Category  string             `json:"category"`
	Total     string             `json:"total"`
	Items     []HistoryItem      `json:"items"`
}

type HistoryPage struct {
	Orders     []HistorySummary `json:"orders"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// DateRange bounds history by calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// TimeWindow is an inclusive createdAt range.
type TimeWindow struct {
	From time.Time
	To   time.Time
}
