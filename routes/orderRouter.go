package routes

import (
	controller "go-restaurant-orders/controllers"

	"github.com/gin-gonic/gin"
)

// OrderRoutes registers order placement for tables on public and the
// org-owner order management on private.
func OrderRoutes(public, private *gin.RouterGroup, orders *controller.OrderController, history *controller.HistoryController) {
	public.POST("/orgs/:org_id/orders", orders.CreateOrder())

	private.GET("/orgs/:org_id/orders", orders.ListOrders())
	private.GET("/orgs/:org_id/orders/history", history.GetHistory())
	private.POST("/orgs/:org_id/orders/restart-day", orders.RestartDay())
	private.PATCH("/orgs/:org_id/orders/:order_id", orders.ChangeStatus())
	private.DELETE("/orgs/:org_id/orders/:order_id", orders.DeleteOrder())
}
