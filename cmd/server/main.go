// Package main is the entry point for the BiasLens server.
package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/biaslens/biaslens/internal/analysis"
	"github.com/biaslens/biaslens/internal/config"
	"github.com/biaslens/biaslens/internal/dataset"
	"github.com/biaslens/biaslens/internal/handler"
	"github.com/biaslens/biaslens/internal/watcher"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed web/*
var webFS embed.FS

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("BiasLens - Bollywood Bias Explorer")
	log.Printf("Config file: %s", cfg.GetConfigFilePath())
	log.Printf("Dataset source: %s", cfg.DatasetBaseURL)
	if cfg.GitHubToken == "" {
		log.Printf("No GitHub token configured; anonymous rate limits apply")
	}
	log.Printf("Server starting at: http://localhost:%d", cfg.Port)

	// Create handlers
	wsHandler := handler.NewWSHandler()
	datasetHandler := handler.NewDatasetHandler(newStore(cfg), wsHandler)
	analyzeHandler := handler.NewAnalyzeHandler(newAnalyzer(cfg))

	// Rebuild the clients that depend on credentials after any settings change
	applySettings := func() {
		datasetHandler.SetStore(newStore(cfg))
		analyzeHandler.SetAnalyzer(newAnalyzer(cfg))
		wsHandler.NotifySettingsChange()
	}
	settingsHandler := handler.NewSettingsHandler(cfg, applySettings)

	// Reload settings when the config file is edited on disk
	if cfg.Watch {
		w, err := watcher.New(cfg.GetConfigFilePath())
		if err != nil {
			log.Printf("Warning: failed to create config watcher: %v", err)
		} else {
			w.OnChange(func() {
				if err := cfg.Reload(); err != nil {
					log.Printf("Warning: config reload failed: %v", err)
					return
				}
				log.Printf("Config reloaded")
				applySettings()
			})
			if err := w.Start(); err != nil {
				log.Printf("Warning: failed to start config watcher: %v", err)
			}
			defer func() { _ = w.Stop() }()
			log.Printf("Config watcher enabled")
		}
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	// API routes
	api := r.Group("/api")
	{
		// Dataset browsing APIs
		api.GET("/dataset", datasetHandler.GetDataset)
		api.GET("/files/*path", datasetHandler.GetDocument)
		api.GET("/ws", wsHandler.HandleWS)

		// Analysis proxy APIs
		api.POST("/analyze", analyzeHandler.Analyze)
		api.POST("/rewrite", analyzeHandler.Rewrite)

		// Settings APIs
		api.GET("/settings", settingsHandler.GetSettings)
		api.PUT("/settings", settingsHandler.UpdateSettings)
	}

	// Serve embedded static files
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		log.Fatalf("Failed to load web assets: %v", err)
	}
	r.NoRoute(gin.WrapH(http.FileServer(http.FS(webContent))))

	// Open browser if requested
	if cfg.Open {
		go openBrowser(fmt.Sprintf("http://localhost:%d", cfg.Port))
	}

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func newStore(cfg *config.Config) dataset.Store {
	return dataset.New(cfg.DatasetBaseURL, cfg.GitHubToken)
}

func newAnalyzer(cfg *config.Config) handler.Analyzer {
	if cfg.AnalyzerURL == "" {
		return nil
	}
	client, err := analysis.New(cfg.AnalyzerURL, cfg.AnalyzerKey, cfg.AnalyzerModel)
	if err != nil {
		log.Printf("Warning: analyzer disabled: %v", err)
		return nil
	}
	return client
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Header("X-Request-ID", id)
		c.Set("requestID", id)
		c.Next()
	}
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // linux, etc.
		cmd = "xdg-open"
		args = []string{url}
	}

	_ = exec.Command(cmd, args...).Start()
}
