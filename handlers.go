package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/kalani/ledlens/layout"
)

// newHTTPServer creates an HTTP handler exposing the pattern's preview and
// mapping table
func newHTTPServer(app *App) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] /health request from %s", r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Pattern   string    `json:"pattern"`
			LEDCount  int       `json:"ledCount"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Pattern:   app.Pattern.Name,
			LEDCount:  len(app.Table),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	mux.HandleFunc("/preview.png", func(w http.ResponseWriter, r *http.Request) {
		frame := frameParam(r, app.Frame)
		renderer := layout.NewPreviewRenderer(app.Pattern, app.Table)
		renderer.ShowIndices = app.ShowIndices

		w.Header().Set("Content-Type", "image/png")
		if err := renderer.RenderPNG(w, frame); err != nil {
			log.Printf("Error rendering preview PNG: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/preview.svg", func(w http.ResponseWriter, r *http.Request) {
		frame := frameParam(r, app.Frame)
		preview := layout.NewVectorPreview(app.Pattern, app.Table)

		w.Header().Set("Content-Type", "image/svg+xml")
		if err := preview.RenderSVG(w, frame); err != nil {
			log.Printf("Error rendering preview SVG: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/mapping.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		payload := struct {
			Kind     layout.LayoutKind   `json:"kind"`
			Grid     layout.GridSize     `json:"grid"`
			LEDCount int                 `json:"ledCount"`
			Table    layout.MappingTable `json:"table"`
		}{
			Kind:     app.Pattern.Geometry.Kind,
			Grid:     app.Pattern.Grid,
			LEDCount: len(app.Table),
			Table:    app.Table,
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Error encoding mapping table: %v", err)
		}
	})

	return mux
}

// frameParam reads the ?frame= query parameter, falling back to the CLI
// default
func frameParam(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("frame"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
