// Package handler provides HTTP handlers for the BiasLens REST API.
package handler

import (
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/biaslens/biaslens/internal/dataset"
	"github.com/biaslens/biaslens/internal/preview"
	"github.com/gin-gonic/gin"
)

// DatasetResponse is the payload for the combined listings request.
type DatasetResponse struct {
	Categories []dataset.Listing `json:"categories"`
	SampleData bool              `json:"sampleData"`
}

// DocumentResponse is the payload for a single content request.
type DocumentResponse struct {
	Path   string         `json:"path"`
	Title  string         `json:"title"`
	Text   string         `json:"text"`
	HTML   string         `json:"html"`
	Source dataset.Source `json:"source"`
	Reason string         `json:"reason,omitempty"`
}

// DatasetHandler serves category listings and file content. The store can be
// swapped at runtime when credentials change.
type DatasetHandler struct {
	mu         sync.RWMutex
	store      dataset.Store
	render     *preview.Renderer
	ws         *WSHandler
	lastSource map[dataset.Category]dataset.Source
}

// NewDatasetHandler creates a dataset handler. ws may be nil.
func NewDatasetHandler(store dataset.Store, ws *WSHandler) *DatasetHandler {
	return &DatasetHandler{
		store:      store,
		render:     preview.NewRenderer(),
		ws:         ws,
		lastSource: make(map[dataset.Category]dataset.Source),
	}
}

// SetStore replaces the dataset store, e.g. after a token change.
func (h *DatasetHandler) SetStore(store dataset.Store) {
	h.mu.Lock()
	h.store = store
	h.mu.Unlock()
}

func (h *DatasetHandler) getStore() dataset.Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store
}

// GetDataset resolves all four category listings concurrently and returns
// them with their live/fallback tags. Listings are independent: one category
// degrading to sample data never affects the others.
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.getStore()

	cats := dataset.Categories()
	listings := make([]dataset.Listing, len(cats))

	var wg sync.WaitGroup
	for i, cat := range cats {
		wg.Add(1)
		go func(i int, cat dataset.Category) {
			defer wg.Done()
			listing, err := store.ListCategory(ctx, cat)
			if err != nil {
				// Only reachable with a store that rejects known categories.
				log.Printf("list %s: %v", cat, err)
				listing = dataset.Listing{Category: cat, Label: cat.Label()}
			}
			listings[i] = listing
		}(i, cat)
	}
	wg.Wait()

	sample := false
	for _, l := range listings {
		if l.Source == dataset.SourceFallback {
			sample = true
		}
		h.notifySourceChange(l)
	}

	c.JSON(http.StatusOK, DatasetResponse{Categories: listings, SampleData: sample})
}

// notifySourceChange pushes a websocket event when a category flips between
// live and fallback data.
func (h *DatasetHandler) notifySourceChange(l dataset.Listing) {
	if h.ws == nil || l.Source == "" {
		return
	}
	h.mu.Lock()
	prev, seen := h.lastSource[l.Category]
	h.lastSource[l.Category] = l.Source
	h.mu.Unlock()

	if seen && prev == l.Source {
		return
	}
	h.ws.NotifySourceStatus(l.Category, l.Source, l.Reason)
}

// GetDocument fetches one file's content and returns it with a rendered HTML
// preview. Like the listing endpoint, it degrades to sample text instead of
// failing, so there is no 5xx path for dataset reads.
func (h *DatasetHandler) GetDocument(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path is required",
		})
		return
	}

	// Security: prevent path traversal
	if strings.Contains(path, "..") {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "invalid path",
		})
		return
	}

	doc := h.getStore().FetchContent(c.Request.Context(), path)

	title := path
	html := ""
	if result, err := h.render.Render(doc.Text); err == nil {
		title = result.Title
		html = result.HTML
	} else {
		log.Printf("render %s: %v", path, err)
	}

	c.JSON(http.StatusOK, DocumentResponse{
		Path:   doc.Path,
		Title:  title,
		Text:   doc.Text,
		HTML:   html,
		Source: doc.Source,
		Reason: doc.Reason,
	})
}
