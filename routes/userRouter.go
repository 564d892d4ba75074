package routes

import (
	controller "go-restaurant-orders/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(public, private *gin.RouterGroup, users *controller.UserController, websocket gin.HandlerFunc) {
	public.POST("/users/signup", users.SignUp())
	public.POST("/users/login", users.Login())
	private.GET("/ws", websocket)
}
