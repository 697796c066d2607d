package pricing

import "github.com/gin-gonic/gin"

func SetupPricingRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/pricing/public/:ownerId", controller.GetPublicPricing) // GET /api/v1/pricing/public/:ownerId
}
