package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error   string     `json:"error"`
	ResetAt *time.Time `json:"reset_at,omitempty"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// statusFor maps domain errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrFriendRequestNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCannotSwipeSelf),
		errors.Is(err, domain.ErrCannotBefriendSelf),
		errors.Is(err, domain.ErrCannotBlockSelf),
		errors.Is(err, domain.ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSwipeAlreadyExists),
		errors.Is(err, domain.ErrFriendRequestExists),
		errors.Is(err, domain.ErrAlreadyFriends),
		errors.Is(err, domain.ErrProfileAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProfileHidden),
		errors.Is(err, domain.ErrProfileNotApproved),
		errors.Is(err, domain.ErrBlocked):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	status := statusFor(err)

	var quotaErr *domain.QuotaExceededError
	if errors.As(err, &quotaErr) {
		resetAt := quotaErr.ResetAt.UTC()
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(resetAt, time.Now())))
		c.JSON(status, ErrorResponse{Error: err.Error(), ResetAt: &resetAt})
		return
	}

	switch status {
	case http.StatusInternalServerError:
		logger.Error("request failed", "op", op, "error", err)
		c.JSON(status, ErrorResponse{Error: "internal error"})
	case http.StatusServiceUnavailable:
		logger.Error("store unavailable", "op", op, "error", err)
		c.Header("Retry-After", "1")
		c.JSON(status, ErrorResponse{Error: "service temporarily unavailable"})
	default:
		c.JSON(status, ErrorResponse{Error: err.Error()})
	}
}

// retryAfterSeconds rounds up and never returns less than one second.
func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
