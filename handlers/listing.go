package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aurapaste/aurapaste/internal/metrics"
	"github.com/aurapaste/aurapaste/internal/services"
	"github.com/aurapaste/aurapaste/models"
)

// ListingHandler serves the dashboard and discovery listings.
//
// Listing views are deliberately non-fatal: when the store cannot be queried
// the response is an empty page with degraded=true, a logged error, and a
// bumped counter, so "no pastes" and "fetch failed" stay distinguishable.
type ListingHandler struct {
	service *services.PasteService
	logger  *zap.Logger
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(service *services.PasteService, logger *zap.Logger) *ListingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingHandler{
		service: service,
		logger:  logger,
	}
}

// UserPastes handles GET /api/users/:id/pastes.
func (h *ListingHandler) UserPastes(c *gin.Context) {
	authorID := c.Param("id")
	if authorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user id"})
		return
	}

	pastes, err := h.service.GetUserPastes(c.Request.Context(), authorID)
	if err != nil {
		h.logger.Error("user listing degraded to empty result",
			zap.String("author_id", authorID), zap.Error(err))
		metrics.ListDegraded.WithLabelValues("user").Inc()
		c.JSON(http.StatusOK, gin.H{"pastes": []*models.Paste{}, "degraded": true})
		return
	}
	if pastes == nil {
		pastes = []*models.Paste{}
	}
	c.JSON(http.StatusOK, gin.H{"pastes": pastes, "degraded": false})
}

// RecentPublic handles GET /api/pastes/recent?limit=N.
func (h *ListingHandler) RecentPublic(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	pastes, err := h.service.GetRecentPublicPastes(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("recent listing degraded to empty result", zap.Error(err))
		metrics.ListDegraded.WithLabelValues("recent").Inc()
		c.JSON(http.StatusOK, gin.H{"pastes": []*models.Paste{}, "degraded": true})
		return
	}
	if pastes == nil {
		pastes = []*models.Paste{}
	}
	c.JSON(http.StatusOK, gin.H{"pastes": pastes, "degraded": false})
}
