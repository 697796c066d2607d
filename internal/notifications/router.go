package notifications

import "github.com/gin-gonic/gin"

// SetupNotificationRoutes registers the notification endpoints. auth guards
// the JSON endpoints; streamAuth also accepts a token in the query string.
func SetupNotificationRoutes(rg *gin.RouterGroup, controller *Controller, auth, streamAuth gin.HandlerFunc) {
	rg.GET("/notifications/stream", streamAuth, controller.Stream) // GET /api/v1/notifications/stream

	notifications := rg.Group("/notifications")
	notifications.Use(auth)
	{
		notifications.GET("", controller.ListNotifications)         // GET /api/v1/notifications
		notifications.PATCH("/read-all", controller.MarkAllRead)    // PATCH /api/v1/notifications/read-all
		notifications.PATCH("/:id/read", controller.MarkRead)       // PATCH /api/v1/notifications/:id/read
		notifications.DELETE("/:id", controller.DeleteNotification) // DELETE /api/v1/notifications/:id
		notifications.DELETE("", controller.ClearNotifications)     // DELETE /api/v1/notifications
	}
}
