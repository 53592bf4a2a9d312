package dataset

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient points a Client at a stub server with a fixed clock.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	clock := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return New(srv.URL, "", WithClock(clock)), srv
}

// unreachableClient returns a Client whose server is already closed, forcing
// transport failures on every call.
func unreachableClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return New(url, "")
}

func checkWellFormed(t *testing.T, l Listing) {
	t.Helper()
	if len(l.Files) == 0 {
		t.Fatalf("category %s: expected non-empty listing", l.Category)
	}
	seen := make(map[string]bool)
	for _, f := range l.Files {
		if f.Name == "" {
			t.Errorf("category %s: file with empty name", l.Category)
		}
		if f.Path == "" {
			t.Errorf("category %s: file %s with empty path", l.Category, f.Name)
		}
		if f.Size < 0 {
			t.Errorf("category %s: file %s with negative size %d", l.Category, f.Name, f.Size)
		}
		if seen[f.Path] {
			t.Errorf("category %s: duplicate path %s", l.Category, f.Path)
		}
		seen[f.Path] = true
	}
}

func TestListCategory_Live(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scripts-data" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[
			{"name": "Queen.txt", "path": "scripts-data/Queen.txt", "size": 48231, "type": "file"},
			{"name": "Dangal.txt", "path": "scripts-data/Dangal.txt", "size": 53977, "type": "file"},
			{"name": "notes", "path": "scripts-data/notes", "size": 0, "type": "dir"}
		]`)
	}))

	listing, err := client.ListCategory(context.Background(), Scripts)
	if err != nil {
		t.Fatalf("ListCategory failed: %v", err)
	}
	if listing.Source != SourceLive {
		t.Fatalf("expected live source, got %s (%s)", listing.Source, listing.Reason)
	}
	if len(listing.Files) != 2 {
		t.Fatalf("expected 2 files after filtering, got %d", len(listing.Files))
	}
	if listing.Files[0].LastModified != "2024-06-01T12:00:00Z" {
		t.Errorf("expected synthesized timestamp, got %s", listing.Files[0].LastModified)
	}
	checkWellFormed(t, listing)
}

func TestListCategory_FallbackOnServerError(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusNotFound} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		for _, cat := range Categories() {
			listing, err := client.ListCategory(context.Background(), cat)
			if err != nil {
				t.Fatalf("status %d, category %s: unexpected error: %v", status, cat, err)
			}
			if listing.Source != SourceFallback {
				t.Errorf("status %d, category %s: expected fallback source", status, cat)
			}
			if listing.Reason == "" {
				t.Errorf("status %d, category %s: expected a reason", status, cat)
			}
			checkWellFormed(t, listing)
		}
	}
}

func TestListCategory_FallbackOnTransportFailure(t *testing.T) {
	client := unreachableClient(t)

	for _, cat := range Categories() {
		listing, err := client.ListCategory(context.Background(), cat)
		if err != nil {
			t.Fatalf("category %s: unexpected error: %v", cat, err)
		}
		if listing.Source != SourceFallback {
			t.Errorf("category %s: expected fallback source", cat)
		}
		checkWellFormed(t, listing)
	}
}

func TestListCategory_FallbackOnMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "rate limit exceeded"},
		{"object instead of array", `{"message": "API rate limit exceeded"}`},
		{"empty array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))

			listing, err := client.ListCategory(context.Background(), PlotSummaries)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if listing.Source != SourceFallback {
				t.Errorf("expected fallback source, got %s", listing.Source)
			}
			checkWellFormed(t, listing)
		})
	}
}

func TestListCategory_FallbackWhenAllEntriesFiltered(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "old", "path": "images-data/old", "size": 0, "type": "dir"},
			{"name": "poster.txt", "path": "images-data/poster.txt", "size": 120, "type": "file"}
		]`)
	}))

	listing, err := client.ListCategory(context.Background(), Images)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.Source != SourceFallback {
		t.Fatalf("expected fallback when nothing survives filtering, got %s", listing.Source)
	}
	for _, f := range listing.Files {
		if f.Name == "poster.txt" || f.Name == "old" {
			t.Errorf("filtered entry %s leaked into the result", f.Name)
		}
	}
	checkWellFormed(t, listing)
}

func TestListCategory_ImageExtensionFilter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "Queen_poster.JPG", "path": "images-data/Queen_poster.JPG", "size": 1000, "type": "file"},
			{"name": "Dangal_poster.webp", "path": "images-data/Dangal_poster.webp", "size": 2000, "type": "file"},
			{"name": "readme.md", "path": "images-data/readme.md", "size": 50, "type": "file"}
		]`)
	}))

	listing, err := client.ListCategory(context.Background(), Images)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.Source != SourceLive {
		t.Fatalf("expected live source, got %s (%s)", listing.Source, listing.Reason)
	}
	if len(listing.Files) != 2 {
		t.Fatalf("expected 2 image files (case-insensitive match), got %d", len(listing.Files))
	}
}

func TestListCategory_UnknownCategory(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	if _, err := client.ListCategory(context.Background(), Category("posters")); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestListCategory_AuthorizationHeader(t *testing.T) {
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		fmt.Fprint(w, `[{"name": "a.txt", "path": "scripts-data/a.txt", "size": 1, "type": "file"}]`)
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	withToken := New(srv.URL, "ghp_sample")
	if _, err := withToken.ListCategory(context.Background(), Scripts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bearer ghp_sample" {
		t.Errorf("expected bearer header, got %q", got)
	}

	anonymous := New(srv.URL, "")
	if _, err := anonymous.ListCategory(context.Background(), Scripts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected no Authorization header without a token, got %q", got)
	}
}

func TestFetchContent_DecodesWrappedBase64(t *testing.T) {
	const want = "RANI\nI booked the honeymoon myself.\n"

	encoded := base64.StdEncoding.EncodeToString([]byte(want))
	// Re-wrap at 16 columns the way the contents API wraps at 60.
	var wrapped strings.Builder
	for i := 0; i < len(encoded); i += 16 {
		end := i + 16
		if end > len(encoded) {
			end = len(encoded)
		}
		wrapped.WriteString(encoded[i:end])
		wrapped.WriteString("\n")
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scripts-data/Queen.txt" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, wrapped.String())
	}))

	doc := client.FetchContent(context.Background(), "scripts-data/Queen.txt")
	if doc.Source != SourceLive {
		t.Fatalf("expected live source, got %s (%s)", doc.Source, doc.Reason)
	}
	if doc.Text != want {
		t.Errorf("decoded text mismatch:\nwant %q\ngot  %q", want, doc.Text)
	}
}

func TestFetchContent_Idempotent(t *testing.T) {
	body := base64.StdEncoding.EncodeToString([]byte("static remote file\n"))
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"content": %q, "encoding": "base64"}`, body)
	}))

	first := client.FetchContent(context.Background(), "wikipedia-data/Sultan_plot.txt")
	second := client.FetchContent(context.Background(), "wikipedia-data/Sultan_plot.txt")
	if first.Text != second.Text {
		t.Error("expected identical text for consecutive fetches of unchanged data")
	}
}

func TestFetchContent_FallbackCases(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"missing content field", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"encoding": "base64"}`)
		}},
		{"invalid base64", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"content": "!!! not base64 !!!", "encoding": "base64"}`)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>rate limited</html>")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			doc := client.FetchContent(context.Background(), "scripts-data/Pink.txt")
			if doc.Source != SourceFallback {
				t.Fatalf("expected fallback source, got %s", doc.Source)
			}
			if doc.Text == "" {
				t.Fatal("expected non-empty synthetic text")
			}
			if doc.Reason == "" {
				t.Error("expected a reason on the fallback document")
			}
		})
	}
}

func TestFetchContent_PatternFallbacks(t *testing.T) {
	client := unreachableClient(t)

	tests := []struct {
		path string
		want string
	}{
		{"Scripts/Queen.txt", "RANI"},
		{"Wikipedia/Anything_plot.txt", "Plot Summary"},
		{"trailer-data/Raazi_trailer.txt", "Trailer Transcript"},
		{"Unrelated/x.txt", "Unrelated/x.txt"},
	}

	for _, tt := range tests {
		doc := client.FetchContent(context.Background(), tt.path)
		if doc.Source != SourceFallback {
			t.Fatalf("%s: expected fallback source", tt.path)
		}
		if !strings.Contains(doc.Text, tt.want) {
			t.Errorf("%s: expected synthetic body to contain %q, got:\n%s", tt.path, tt.want, doc.Text)
		}
	}
}

func TestFetchContent_NeverEmpty(t *testing.T) {
	client := unreachableClient(t)

	for _, path := range []string{"", "   ", "no/such/file.bin", "////", "💥"} {
		doc := client.FetchContent(context.Background(), path)
		if doc.Text == "" {
			t.Errorf("path %q: expected non-empty text", path)
		}
	}
}
