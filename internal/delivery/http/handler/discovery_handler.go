package handler

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/kindred-backend/internal/usecase/discovery"
	"github.com/gin-gonic/gin"
)

type DiscoveryHandler struct {
	pool   *discovery.CandidatePool
	logger *slog.Logger
}

func NewDiscoveryHandler(pool *discovery.CandidatePool, logger *slog.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		pool:   pool,
		logger: logger,
	}
}

// CandidatesQuery holds the discovery query string.
type CandidatesQuery struct {
	RadiusKm float64 `form:"radius_km" binding:"omitempty,radius"`
	Limit    int     `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CandidatesResponse lists candidates nearest first.
type CandidatesResponse struct {
	RadiusKm   float64                `json:"radius_km"`
	Candidates []*discovery.Candidate `json:"candidates"`
}

// GetCandidates handles GET /discover/candidates
// @Summary Discover candidates
// @Description Approved profiles within the radius the caller has not yet liked, passed, befriended or blocked
// @Tags discovery
// @Security BearerAuth
// @Produce json
// @Param radius_km query number false "Search radius in km"
// @Param limit query int false "Maximum candidates"
// @Success 200 {object} CandidatesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /discover/candidates [get]
func (h *DiscoveryHandler) GetCandidates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q CandidatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters"})
		return
	}

	candidates, err := h.pool.GetCandidates(c.Request.Context(), userID, q.RadiusKm, q.Limit)
	if err != nil {
		respondError(c, h.logger, "discovery.candidates", err)
		return
	}

	c.JSON(http.StatusOK, CandidatesResponse{
		RadiusKm:   h.pool.ResolveRadius(q.RadiusKm),
		Candidates: candidates,
	})
}
