// Package dataset retrieves Bollywood-Data corpus listings and file contents
// from the GitHub contents API, degrading to built-in sample data whenever the
// remote side is unreachable, rate limited, or returns an unexpected shape.
package dataset

import (
	"context"
	"path"
	"strings"
)

// Category identifies one of the four fixed content groupings in the corpus.
type Category string

// The four dataset categories.
const (
	Scripts            Category = "scripts"
	PlotSummaries      Category = "plot-summaries"
	TrailerTranscripts Category = "trailer-transcripts"
	Images             Category = "images"
)

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{Scripts, PlotSummaries, TrailerTranscripts, Images}
}

// Label returns the human-readable name shown in the UI.
func (c Category) Label() string {
	switch c {
	case Scripts:
		return "Scripts"
	case PlotSummaries:
		return "Plot Summaries"
	case TrailerTranscripts:
		return "Trailer Transcripts"
	case Images:
		return "Images"
	}
	return string(c)
}

// remotePath maps a category to its folder in the upstream repository.
func (c Category) remotePath() (string, bool) {
	switch c {
	case Scripts:
		return "scripts-data", true
	case PlotSummaries:
		return "wikipedia-data", true
	case TrailerTranscripts:
		return "trailer-data", true
	case Images:
		return "images-data", true
	}
	return "", false
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// accepts reports whether a regular file named name belongs in the category.
// Scripts carry plain-text screenplays; Images must be raster files. The
// Wikipedia and trailer folders hold mixed formats and are taken as-is.
func (c Category) accepts(name string) bool {
	switch c {
	case Scripts:
		return strings.HasSuffix(name, ".txt")
	case Images:
		return imageExtensions[strings.ToLower(path.Ext(name))]
	}
	return true
}

// File is the normalized view of one remote file's metadata; its content is
// fetched separately as a Document. LastModified is synthesized at fetch time
// for live results (the contents API does not report real modification times)
// and a fixed literal for fallback entries; it is not a reliable signal of
// history.
type File struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified"`
}

// Source tags a result as genuine remote data or built-in substitute data.
type Source string

// Result source tags.
const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Listing is the outcome of one category listing call. Files is never empty
// for a known category.
type Listing struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Files    []File   `json:"files"`
	Source   Source   `json:"source"`
	Reason   string   `json:"reason,omitempty"`
}

// Document is the outcome of one content fetch. Text is never empty.
type Document struct {
	Path   string `json:"path"`
	Text   string `json:"text"`
	Source Source `json:"source"`
	Reason string `json:"reason,omitempty"`
}

// Store is the read side of the dataset layer consumed by the HTTP handlers.
// It is satisfied by *Client and by test fakes.
type Store interface {
	ListCategory(ctx context.Context, cat Category) (Listing, error)
	FetchContent(ctx context.Context, path string) Document
}
