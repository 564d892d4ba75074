package routes

import (
	controller "go-restaurant-orders/controllers"

	"github.com/gin-gonic/gin"
)

func OrgRoutes(public, private *gin.RouterGroup, orgs *controller.OrgController) {
	public.GET("/orgs/nearby", orgs.GetNearbyOrgs())
	public.GET("/orgs/:org_id", orgs.GetOrg())

	private.GET("/orgs", orgs.GetUserOrgs())
	private.POST("/orgs", orgs.CreateOrg())
	private.PATCH("/orgs/:org_id", orgs.UpdateOrg())
	private.DELETE("/orgs/:org_id", orgs.DeleteOrg())
}
