package controllers

import (
	"context"
	"net/http"
	"time"

	"go-restaurant-orders/common"
	"go-restaurant-orders/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 100 * time.Second

var validate = validator.New()

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser reads the uid set by the authentication middleware.
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("uid"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondError writes err as {"error": message}. NoContent answers 204
// without a body.
func respondError(c *gin.Context, err error) {
	err = common.Classify(err)
	kind := common.KindOf(err)
	switch kind {
	case common.KindNoContent:
		c.Status(http.StatusNoContent)
		return
	case common.KindInternal:
		logger.GetAppLogger().WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(kind.StatusCode(), gin.H{"error": err.Error()})
}
