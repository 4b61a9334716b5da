package handler

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/kindred-backend/internal/usecase/social"
	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	socialUseCase *social.SocialUseCase
	logger        *slog.Logger
}

func NewSocialHandler(socialUseCase *social.SocialUseCase, logger *slog.Logger) *SocialHandler {
	return &SocialHandler{
		socialUseCase: socialUseCase,
		logger:        logger,
	}
}

// SendRequest handles POST /friends/requests
// @Summary Send a friend request
// @Description Accepts the reverse request instead when one is pending
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body social.FriendRequestInput true "Recipient"
// @Success 201 {object} domain.FriendRequest
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /friends/requests [post]
func (h *SocialHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req social.FriendRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	fr, err := h.socialUseCase.SendRequest(c.Request.Context(), userID, req.ToUserID)
	if err != nil {
		respondError(c, h.logger, "friends.send", err)
		return
	}

	c.JSON(http.StatusCreated, fr)
}

// ListIncoming handles GET /friends/requests/incoming
// @Summary Pending friend requests sent to me
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string][]social.IncomingRequest
// @Router /friends/requests/incoming [get]
func (h *SocialHandler) ListIncoming(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	reqs, err := h.socialUseCase.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "friends.incoming", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

// AcceptRequest handles POST /friends/requests/:user_id/accept
// @Summary Accept a friend request
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Sender user ID"
// @Success 200 {object} domain.FriendRequest
// @Failure 404 {object} ErrorResponse
// @Router /friends/requests/{user_id}/accept [post]
func (h *SocialHandler) AcceptRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fromID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	fr, err := h.socialUseCase.AcceptRequest(c.Request.Context(), userID, fromID)
	if err != nil {
		respondError(c, h.logger, "friends.accept", err)
		return
	}

	c.JSON(http.StatusOK, fr)
}

// RejectRequest handles POST /friends/requests/:user_id/reject
// @Summary Reject a friend request
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Sender user ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /friends/requests/{user_id}/reject [post]
func (h *SocialHandler) RejectRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fromID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.socialUseCase.RejectRequest(c.Request.Context(), userID, fromID); err != nil {
		respondError(c, h.logger, "friends.reject", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "friend request rejected"})
}

// Block handles POST /blocks
// @Summary Block a user
// @Tags blocks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body social.BlockInput true "User to block"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /blocks [post]
func (h *SocialHandler) Block(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req social.BlockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.socialUseCase.Block(c.Request.Context(), userID, req.UserID); err != nil {
		respondError(c, h.logger, "blocks.create", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "user blocked"})
}

// Unblock handles DELETE /blocks/:user_id
// @Summary Unblock a user
// @Tags blocks
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Blocked user ID"
// @Success 200 {object} SuccessResponse
// @Router /blocks/{user_id} [delete]
func (h *SocialHandler) Unblock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blockedID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.socialUseCase.Unblock(c.Request.Context(), userID, blockedID); err != nil {
		respondError(c, h.logger, "blocks.delete", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "user unblocked"})
}

// ListBlocked handles GET /blocks
// @Summary Users I blocked
// @Tags blocks
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string][]domain.ProfileCard
// @Router /blocks [get]
func (h *SocialHandler) ListBlocked(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cards, err := h.socialUseCase.ListBlocked(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "blocks.list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": cards})
}
