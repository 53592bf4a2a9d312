package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// Analyzer is the opaque bias-analysis collaborator: it accepts text and
// returns a structured report whose shape this layer does not interpret.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (json.RawMessage, error)
	Rewrite(ctx context.Context, text string) (json.RawMessage, error)
}

// AnalyzeHandler proxies text to the external bias analyzer.
type AnalyzeHandler struct {
	mu       sync.RWMutex
	analyzer Analyzer
}

// NewAnalyzeHandler creates an analyze handler. analyzer may be nil when no
// endpoint is configured.
func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// SetAnalyzer replaces the analyzer, e.g. after a settings change.
func (h *AnalyzeHandler) SetAnalyzer(analyzer Analyzer) {
	h.mu.Lock()
	h.analyzer = analyzer
	h.mu.Unlock()
}

func (h *AnalyzeHandler) getAnalyzer() Analyzer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.analyzer
}

// AnalyzeRequest carries the text to analyze or rewrite.
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

// Analyze forwards text to the analyzer and returns its report verbatim.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	h.proxy(c, func(ctx context.Context, a Analyzer, text string) (json.RawMessage, error) {
		return a.Analyze(ctx, text)
	})
}

// Rewrite forwards text to the analyzer's rewrite operation.
func (h *AnalyzeHandler) Rewrite(c *gin.Context) {
	h.proxy(c, func(ctx context.Context, a Analyzer, text string) (json.RawMessage, error) {
		return a.Rewrite(ctx, text)
	})
}

func (h *AnalyzeHandler) proxy(c *gin.Context, call func(context.Context, Analyzer, string) (json.RawMessage, error)) {
	analyzer := h.getAnalyzer()
	if analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "no analyzer configured",
		})
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "text is required",
		})
		return
	}

	report, err := call(c.Request.Context(), analyzer, req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", report)
}
