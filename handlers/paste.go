package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aurapaste/aurapaste/internal/services"
	"github.com/aurapaste/aurapaste/internal/slug"
	"github.com/aurapaste/aurapaste/storage"
)

// PasteHandler handles paste create and retrieval operations.
type PasteHandler struct {
	service *services.PasteService
	logger  *zap.Logger
}

// NewPasteHandler creates a new paste handler.
func NewPasteHandler(service *services.PasteService, logger *zap.Logger) *PasteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasteHandler{
		service: service,
		logger:  logger,
	}
}

// Create handles paste creation via POST /api/pastes.
func (h *PasteHandler) Create(c *gin.Context) {
	var req services.CreatePasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	paste, err := h.service.CreatePaste(c.Request.Context(), req, CurrentIdentity(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paste content must not be empty"})
		case errors.Is(err, services.ErrInvalidVisibility):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Visibility must be public, unlisted, or private"})
		case errors.Is(err, storage.ErrUnavailable):
			h.logger.Error("create: store unavailable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Paste store unavailable, try again later"})
		default:
			h.logger.Error("create: failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create paste"})
		}
		return
	}

	c.JSON(http.StatusCreated, paste)
}

// View handles viewing a paste via GET /paste/:id. Each successful view
// increments the paste's counter.
func (h *PasteHandler) View(c *gin.Context) {
	id := c.Param("id")
	if !slug.IsValid(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paste id"})
		return
	}

	paste, err := h.service.GetPaste(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("view: retrieval failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Paste store unavailable, try again later"})
		return
	}
	if paste == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paste not found"})
		return
	}

	c.JSON(http.StatusOK, paste)
}

// Raw handles raw content download via GET /raw/:id. The filename extension
// follows the paste's language tag. Downloads count as views.
func (h *PasteHandler) Raw(c *gin.Context) {
	id := c.Param("id")
	if !slug.IsValid(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paste id"})
		return
	}

	paste, err := h.service.GetPaste(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("raw: retrieval failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Paste store unavailable, try again later"})
		return
	}
	if paste == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paste not found"})
		return
	}

	filename := paste.Title
	if filename == "" {
		filename = "paste-" + paste.ID
	}
	filename = fmt.Sprintf("%s.%s", filename, paste.Language.Extension())
	escaped := url.PathEscape(filename)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, escaped))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(paste.Content))
}

// Meta handles metadata retrieval via GET /api/pastes/:id/meta. Unlike View,
// it does not count a view.
func (h *PasteHandler) Meta(c *gin.Context) {
	id := c.Param("id")
	if !slug.IsValid(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paste id"})
		return
	}

	paste, err := h.service.GetPasteMeta(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("meta: retrieval failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Paste store unavailable, try again later"})
		return
	}
	if paste == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paste not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          paste.ID,
		"title":       paste.Title,
		"language":    paste.Language,
		"author_name": paste.AuthorName,
		"visibility":  paste.Visibility,
		"created_at":  paste.CreatedAt,
		"view_count":  paste.ViewCount,
		"url":         paste.URL,
	})
}
