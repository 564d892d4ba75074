package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go-restaurant-orders/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

type HistoryReporter interface {
	HistoryPage(ctx context.Context, userID, orgID primitive.ObjectID, page int) (models.HistoryPage, error)
	HistoryPageBetween(ctx context.Context, userID, orgID primitive.ObjectID, page int, r models.DateRange) (models.HistoryPage, error)
}

type HistoryController struct {
	history HistoryReporter
	loc     *time.Location
}

func NewHistoryController(history HistoryReporter, loc *time.Location) *HistoryController {
	if loc == nil {
		loc = time.Local
	}
	return &HistoryController{history: history, loc: loc}
}

// GetHistory serves ?page=N and, when both are present, ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (hc *HistoryController) GetHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, orgID, ok := userAndOrg(c)
		if !ok {
			return
		}
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			page = 1
		}

		from, to := c.Query("from"), c.Query("to")
		var result models.HistoryPage
		if from != "" && to != "" {
			r, err := hc.dateRange(from, to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "dates must look like " + dateLayout})
				return
			}
			result, err = hc.history.HistoryPageBetween(ctx, userID, orgID, page, r)
			if err != nil {
				respondError(c, err)
				return
			}
		} else {
			result, err = hc.history.HistoryPage(ctx, userID, orgID, page)
			if err != nil {
				respondError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, result)
	}
}

func (hc *HistoryController) dateRange(from, to string) (models.DateRange, error) {
	f, err := time.ParseInLocation(dateLayout, from, hc.loc)
	if err != nil {
		return models.DateRange{}, err
	}
	t, err := time.ParseInLocation(dateLayout, to, hc.loc)
	if err != nil {
		return models.DateRange{}, err
	}
	return models.DateRange{From: f, To: t}, nil
}
