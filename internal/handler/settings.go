package handler

import (
	"net/http"

	"github.com/biaslens/biaslens/internal/config"
	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the runtime-editable settings so the UI can add a
// token or analyzer endpoint without restarting the server.
type SettingsHandler struct {
	cfg      *config.Config
	onUpdate func()
}

// NewSettingsHandler creates a settings handler. onUpdate runs after each
// saved change and may be nil.
func NewSettingsHandler(cfg *config.Config, onUpdate func()) *SettingsHandler {
	return &SettingsHandler{cfg: cfg, onUpdate: onUpdate}
}

// GetSettings returns the current settings. The token itself is never echoed
// back, only whether one is present.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"theme":          h.cfg.Theme,
		"datasetBaseURL": h.cfg.DatasetBaseURL,
		"hasToken":       h.cfg.GitHubToken != "",
		"analyzerURL":    h.cfg.AnalyzerURL,
		"analyzerModel":  h.cfg.AnalyzerModel,
	})
}

// UpdateSettingsRequest represents a settings update from the UI.
type UpdateSettingsRequest struct {
	GitHubToken   *string `json:"github_token"`
	AnalyzerURL   *string `json:"analyzer_url"`
	AnalyzerKey   *string `json:"analyzer_key"`
	AnalyzerModel *string `json:"analyzer_model"`
}

// UpdateSettings applies and persists the submitted settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request",
		})
		return
	}

	if req.GitHubToken != nil {
		h.cfg.SetToken(*req.GitHubToken)
	}
	if req.AnalyzerURL != nil {
		url := *req.AnalyzerURL
		key := h.cfg.AnalyzerKey
		model := ""
		if req.AnalyzerKey != nil {
			key = *req.AnalyzerKey
		}
		if req.AnalyzerModel != nil {
			model = *req.AnalyzerModel
		}
		h.cfg.SetAnalyzer(url, key, model)
	}

	if err := h.cfg.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to save config: " + err.Error(),
		})
		return
	}

	if h.onUpdate != nil {
		h.onUpdate()
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "settings updated",
	})
}
