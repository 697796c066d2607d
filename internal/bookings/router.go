package bookings

import (
	"hallbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth, optionalAuth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	{
		// Public booking form and calendar
		bookings.POST("", optionalAuth, controller.CreateBooking)                   // POST /api/v1/bookings
		bookings.GET("/unavailable-dates/:ownerId", controller.GetUnavailableDates) // GET /api/v1/bookings/unavailable-dates/:ownerId
		bookings.GET("/debug/:ownerId", auth, controller.ListDebugBookings)         // GET /api/v1/bookings/debug/:ownerId
		bookings.DELETE("/debug/:ownerId", auth, controller.DeleteDebugBooking)     // DELETE /api/v1/bookings/debug/:ownerId?bookingId=
	}

	owner := rg.Group("/owner")
	owner.Use(auth, middleware.RequireOwnerOrAdmin())
	{
		owner.GET("/bookings", controller.ListOwnerBookings)                // GET /api/v1/owner/bookings
		owner.PATCH("/bookings/:id/status", controller.UpdateBookingStatus) // PATCH /api/v1/owner/bookings/:id/status
	}

	// User-specific booking routes
	users := rg.Group("/users")
	users.Use(auth)
	{
		users.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings
	}
}

// Route definitions for reference:
//
// PUBLIC
// POST   /api/v1/bookings                                   - Submit a booking request (optional bearer token)
// GET    /api/v1/bookings/unavailable-dates/:ownerId        - Calendar of booked slots
//        ?resourceId=&startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
//
// DEBUG (owner or admin, DEBUG_ENDPOINTS_ENABLED)
// GET    /api/v1/bookings/debug/:ownerId?includeAll=true    - Inspect bookings
// DELETE /api/v1/bookings/debug/:ownerId?bookingId=xxx      - Hard-delete a booking
//
// OWNER
// GET    /api/v1/owner/bookings?status=pending&date=...     - List own bookings
// PATCH  /api/v1/owner/bookings/:id/status                  - { "status": "confirmed" }
//
// CUSTOMER
// GET    /api/v1/users/bookings?limit=20&offset=0           - Booking history
