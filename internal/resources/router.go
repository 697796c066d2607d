package resources

import "github.com/gin-gonic/gin"

func SetupResourceRoutes(rg *gin.RouterGroup, controller *Controller) {
	public := rg.Group("/resources/public")
	{
		public.GET("/:ownerId", controller.GetPublicResources) // GET /api/v1/resources/public/:ownerId
	}
}
