package middleware

import (
	"strings"

	"go-restaurant-orders/common"
	"go-restaurant-orders/helpers"
	"go-restaurant-orders/models"

	"github.com/gin-gonic/gin"
)

var (
	errNoToken    = common.Unauthorized("no authorization token provided")
	errNotAllowed = common.Forbidden("you are not allowed to access this resource")
)

type TokenValidator interface {
	ValidateToken(signedToken string) (*helpers.SignedDetails, error)
}

// Authentication accepts the session token from the "token" header, an
// "Authorization: Bearer" header, or a "token" query parameter for websocket
// handshakes.
func Authentication(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientToken := c.Request.Header.Get("token")
		if clientToken == "" {
			clientToken = strings.TrimPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
		}
		if clientToken == "" {
			clientToken = c.Query("token")
		}
		if clientToken == "" {
			abort(c, errNoToken)
			return
		}
		claims, err := tokens.ValidateToken(clientToken)
		if err != nil {
			abort(c, common.Unauthorized(err.Error()))
			return
		}
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("uid", claims.Uid)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// Authorize lets through only sessions holding one of roles.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString("role"))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abort(c, errNotAllowed)
	}
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(common.KindOf(err).StatusCode(), gin.H{"error": err.Error()})
}
