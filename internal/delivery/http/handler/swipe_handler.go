package handler

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/usecase/swipe"
	"github.com/gin-gonic/gin"
)

type SwipeHandler struct {
	swipeUseCase *swipe.SwipeUseCase
	logger       *slog.Logger
}

func NewSwipeHandler(swipeUseCase *swipe.SwipeUseCase, logger *slog.Logger) *SwipeHandler {
	return &SwipeHandler{
		swipeUseCase: swipeUseCase,
		logger:       logger,
	}
}

// StateResponse is the viewer's swipe state toward another user.
type StateResponse struct {
	State domain.SwipeState `json:"state"`
}

// Like handles POST /swipe/like
// @Summary Like a user
// @Description Records a like; a mutual like creates a friendship
// @Tags swipe
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body swipe.SwipeRequest true "Target user"
// @Success 200 {object} swipe.LikeResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /swipe/like [post]
func (h *SwipeHandler) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req swipe.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.swipeUseCase.RecordLike(c.Request.Context(), userID, req.TargetUserID)
	if err != nil {
		respondError(c, h.logger, "swipe.like", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Pass handles POST /swipe/pass
// @Summary Pass on a user
// @Tags swipe
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body swipe.SwipeRequest true "Target user"
// @Success 200 {object} StateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /swipe/pass [post]
func (h *SwipeHandler) Pass(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req swipe.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.swipeUseCase.RecordPass(c.Request.Context(), userID, req.TargetUserID); err != nil {
		respondError(c, h.logger, "swipe.pass", err)
		return
	}

	c.JSON(http.StatusOK, StateResponse{State: domain.SwipeStatePassed})
}

// State handles GET /swipe/state/:user_id
// @Summary Swipe state toward a user
// @Tags swipe
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /swipe/state/{user_id} [get]
func (h *SwipeHandler) State(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	state, err := h.swipeUseCase.SwipeState(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, h.logger, "swipe.state", err)
		return
	}

	c.JSON(http.StatusOK, StateResponse{State: state})
}

// Quota handles GET /swipe/quota
// @Summary Remaining likes in the current window
// @Tags swipe
// @Security BearerAuth
// @Produce json
// @Success 200 {object} swipe.QuotaStatus
// @Router /swipe/quota [get]
func (h *SwipeHandler) Quota(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.swipeUseCase.QuotaStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "swipe.quota", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetLikesReceived handles GET /likes/received
// @Summary Users who liked me
// @Tags swipe
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string][]domain.ProfileCard
// @Router /likes/received [get]
func (h *SwipeHandler) GetLikesReceived(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cards, err := h.swipeUseCase.GetLikesReceived(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "swipe.likes_received", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": cards})
}

// GetMatches handles GET /matches
// @Summary My matches
// @Tags swipe
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string][]domain.ProfileCard
// @Router /matches [get]
func (h *SwipeHandler) GetMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cards, err := h.swipeUseCase.GetMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "swipe.matches", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": cards})
}
