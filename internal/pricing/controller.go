package pricing

import (
	"errors"
	"net/http"

	"hallbook/internal/shared/utils/response"
	"hallbook/internal/users"
	"hallbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetPublicPricing godoc
// @Summary List an owner's rate cards
// @Tags pricing
// @Produce json
// @Param ownerId path string true "Hall owner ID"
// @Success 200 {object} response.StandardApiResponse{data=[]PublicPricing}
// @Failure 404 {object} response.StandardApiResponse
// @Router /pricing/public/{ownerId} [get]
func (c *Controller) GetPublicPricing(ctx *gin.Context) {
	rules, err := c.service.ListPublic(ctx.Request.Context(), ctx.Param("ownerId"))
	if err != nil {
		if errors.Is(err, users.ErrHallOwnerNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Hall owner not found", nil, nil)
			return
		}
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Pricing retrieved successfully", rules, nil)
}
