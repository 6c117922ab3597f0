package handler

import (
	"github.com/gin-gonic/gin"

	"luxbyte/internal/domain"
	"luxbyte/internal/manifest"
)

// ManifestHandler serves the per-activity document requirement manifests.
type ManifestHandler struct {
	registry *manifest.Registry
}

// NewManifestHandler creates a new ManifestHandler.
func NewManifestHandler(registry *manifest.Registry) *ManifestHandler {
	return &ManifestHandler{registry: registry}
}

// ListActivities handles GET /api/v1/activities
func (h *ManifestHandler) ListActivities(c *gin.Context) {
	RespondOK(c, gin.H{"activities": h.registry.Activities()})
}

// GetManifest handles GET /api/v1/activities/:activity/manifest
func (h *ManifestHandler) GetManifest(c *gin.Context) {
	activity := domain.ActivityType(c.Param("activity"))
	m, err := h.registry.GetManifest(activity)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, m)
}
