package handler

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/kindred-backend/internal/usecase/notification"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase *notification.NotificationUseCase
	logger              *slog.Logger
}

func NewNotificationHandler(notificationUseCase *notification.NotificationUseCase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// PageQuery is a limit/offset page request.
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// List handles GET /notifications
// @Summary My notifications, newest first
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string][]domain.Notification
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters"})
		return
	}

	ns, err := h.notificationUseCase.List(c.Request.Context(), userID, q.Limit, q.Offset)
	if err != nil {
		respondError(c, h.logger, "notifications.list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": ns})
}

// MarkRead handles POST /notifications/:id/read
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationUseCase.MarkRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.logger, "notifications.read", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "notification marked as read"})
}
