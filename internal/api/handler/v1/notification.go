package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/internal/api/handler/v1/response"
	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/service"
)

type NotificationService interface {
	GetMyNotifications(ctx context.Context, userID uint, isRead *bool, offset, limit int) (service.NotificationPage, error)
	MarkRead(ctx context.Context, id, userID uint) (domain.Notification, error)
	MarkAllRead(ctx context.Context, userID uint) error
	Delete(ctx context.Context, id, userID uint) error
	GetStats(ctx context.Context, userID uint) (service.NotificationStats, error)
}

type NotificationHandler struct {
	svc NotificationService
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{
		svc: svc,
	}
}

// HandleListMyNotifications godoc
// @Summary      List the current user's notifications
// @Tags         notifications
// @Produce      json
// @Param        is_read  query     bool false "filter by read state"
// @Param        page     query     int  false "page number"
// @Param        limit    query     int  false "page size"
// @Success      200      {object}  response.ListNotificationsResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleListMyNotifications(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var isRead *bool
	if raw, exists := ctx.GetQuery("is_read"); exists {
		parsed, err := strconv.ParseBool(raw)
		if err == nil {
			isRead = &parsed
		}
	}

	page, limit, offset := parsePagination(ctx)

	result, err := h.svc.GetMyNotifications(ctx.Request.Context(), authUser.ID, isRead, offset, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyNotifications -> h.svc.GetMyNotifications -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ListNotificationsResponse{
		Notifications: result.Notifications,
		UnreadCount:   result.UnreadCount,
		Pagination:    response.NewPagination(page, limit, result.Total),
	})
}

// HandleGetNotificationStats godoc
// @Summary      Get notification counts for the current user
// @Tags         notifications
// @Produce      json
// @Success      200      {object}  response.NotificationStatsResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /notifications/stats [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleGetNotificationStats(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stats, err := h.svc.GetStats(ctx.Request.Context(), authUser.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetNotificationStats -> h.svc.GetStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NotificationStatsResponse{
		Total:         stats.Total,
		Unread:        stats.Unread,
		KindBreakdown: stats.KindBreakdown,
	})
}

// HandleMarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        notificationID  path      int true "Notification ID"
// @Success      200             {object}  response.NotificationResponse
// @Failure      400             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      500             {object}  response.Err
// @Router       /notifications/{notificationID}/read [patch]
// @Security     BearerAuth
func (h *NotificationHandler) HandleMarkNotificationRead(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	notificationID, respErr := parseUintParam(ctx, "notificationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	notification, err := h.svc.MarkRead(ctx.Request.Context(), notificationID, authUser.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("notification", "ID", notificationID))

			return
		}

		err = fmt.Errorf("v1.HandleMarkNotificationRead -> h.svc.MarkRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NotificationResponse{
		Msg:          "Notification marked as read",
		Notification: notification,
	})
}

// HandleMarkAllNotificationsRead godoc
// @Summary      Mark all of the current user's notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200      {object}  response.Msg
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /notifications/mark-all-read [patch]
// @Security     BearerAuth
func (h *NotificationHandler) HandleMarkAllNotificationsRead(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	err := h.svc.MarkAllRead(ctx.Request.Context(), authUser.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleMarkAllNotificationsRead -> h.svc.MarkAllRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "All notifications marked as read"})
}

// HandleDeleteNotification godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Param        notificationID  path      int true "Notification ID"
// @Success      200             {object}  response.Msg
// @Failure      400             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      500             {object}  response.Err
// @Router       /notifications/{notificationID} [delete]
// @Security     BearerAuth
func (h *NotificationHandler) HandleDeleteNotification(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	notificationID, respErr := parseUintParam(ctx, "notificationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	err := h.svc.Delete(ctx.Request.Context(), notificationID, authUser.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("notification", "ID", notificationID))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteNotification -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "Notification deleted successfully"})
}
