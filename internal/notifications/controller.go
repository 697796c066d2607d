package notifications

import (
	"errors"
	"net/http"
	"time"

	"hallbook/internal/shared/middleware"
	"hallbook/internal/shared/utils/response"
	"hallbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

const defaultPingInterval = 25 * time.Second

type Controller struct {
	service      Service
	pingInterval time.Duration
}

func NewController(service Service) *Controller {
	return &Controller{service: service, pingInterval: defaultPingInterval}
}

func (c *Controller) session(ctx *gin.Context) (*middleware.Session, bool) {
	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return nil, false
	}
	return session, true
}

// ListNotifications godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse{data=ListResponse}
// @Router /notifications [get]
func (c *Controller) ListNotifications(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	list, err := c.service.List(ctx.Request.Context(), session.UserID)
	if err != nil {
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch notifications", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Notifications retrieved successfully", list, nil)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /notifications/{id}/read [patch]
func (c *Controller) MarkRead(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	if err := c.service.MarkRead(ctx.Request.Context(), session.UserID, ctx.Param("id")); err != nil {
		c.respondMutationError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Notification marked as read", nil, nil)
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse{data=CountResponse}
// @Router /notifications/read-all [patch]
func (c *Controller) MarkAllRead(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	count, err := c.service.MarkAllRead(ctx.Request.Context(), session.UserID)
	if err != nil {
		c.respondMutationError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "All notifications marked as read", CountResponse{Count: count}, nil)
}

// DeleteNotification godoc
// @Summary Delete a notification
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /notifications/{id} [delete]
func (c *Controller) DeleteNotification(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), session.UserID, ctx.Param("id")); err != nil {
		c.respondMutationError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Notification deleted", nil, nil)
}

// ClearNotifications godoc
// @Summary Delete all of the caller's notifications
// @Tags notifications
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse{data=CountResponse}
// @Router /notifications [delete]
func (c *Controller) ClearNotifications(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	count, err := c.service.Clear(ctx.Request.Context(), session.UserID)
	if err != nil {
		c.respondMutationError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Notifications cleared", CountResponse{Count: count}, nil)
}

func (c *Controller) respondMutationError(ctx *gin.Context, err error) {
	if errors.Is(err, ErrNotificationNotFound) {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Notification not found", nil, nil)
		return
	}
	logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
	response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
}

// Stream godoc
// @Summary Live notification stream (server-sent events)
// @Description Sends a snapshot event with the current list, then a notification event per new notification and a ping every 25s.
// @Tags notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Router /notifications/stream [get]
func (c *Controller) Stream(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	reqCtx := ctx.Request.Context()

	// Subscribe before the snapshot so nothing created in between is lost
	updates, cancel, err := c.service.Subscribe(reqCtx, session.UserID)
	if err != nil {
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusServiceUnavailable)
		response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Notification stream unavailable", nil, nil)
		return
	}
	defer cancel()

	snapshot, err := c.service.List(reqCtx, session.UserID)
	if err != nil {
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch notifications", nil, nil)
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.Status(http.StatusOK)

	ctx.SSEvent("snapshot", snapshot)
	ctx.Writer.Flush()

	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-reqCtx.Done():
			return
		case n, ok := <-updates:
			if !ok {
				return
			}
			ctx.SSEvent("notification", n)
			ctx.Writer.Flush()
		case t := <-ticker.C:
			ctx.SSEvent("ping", gin.H{"time": t.UTC().Format(time.RFC3339)})
			ctx.Writer.Flush()
		}
	}
}
