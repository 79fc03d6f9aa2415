package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kalani/ledlens/layout"
)

// App holds the loaded pattern and the resolved mapping table shared by
// all run modes
type App struct {
	Pattern *layout.PatternFile
	Table   layout.MappingTable

	ConfigFile   string
	MappingCache string
	Strict       bool
	Frame        int
	ShowIndices  bool
	OutputFile   string
	RenderFormat string
	VectorFormat string
	DeviceID     string
	HTTPPort     int
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{}
}

// LoadPattern loads the pattern file and resolves its mapping table,
// reusing the on-disk cache when the geometry is unchanged.
func (a *App) LoadPattern() error {
	pattern, err := layout.LoadPatternFile(a.ConfigFile)
	if err != nil {
		return err
	}
	a.Pattern = pattern

	if a.Strict {
		model, table, err := layout.BuildMappingTableStrict(pattern.Geometry, pattern.Grid)
		if err != nil {
			return fmt.Errorf("building mapping table: %w", err)
		}
		a.Pattern.Geometry = model
		a.Table = table
		return nil
	}

	// Warm path: reuse the cached table if it matches the current geometry.
	cache, err := layout.LoadMappingCache(a.MappingCache)
	if err != nil {
		log.Printf("Ignoring unreadable mapping cache: %v", err)
		cache = nil
	}

	if cache != nil && cache.Matches(pattern.Geometry, pattern.Grid) {
		model, table, ok := layout.EnsureMappingTable(pattern.Geometry, pattern.Grid, cache.Table)
		if ok {
			a.Pattern.Geometry = model
			a.Table = table
			return nil
		}
		log.Printf("Cached mapping table failed validation, rebuilding")
	}

	model, table, err := layout.BuildMappingTable(pattern.Geometry, pattern.Grid)
	if err != nil {
		return fmt.Errorf("building mapping table: %w", err)
	}
	a.Pattern.Geometry = model
	a.Table = table

	if saveErr := layout.SaveMappingCache(a.MappingCache, layout.NewMappingCache(model, pattern.Grid, table)); saveErr != nil {
		log.Printf("Could not save mapping cache: %v", saveErr)
	}
	return nil
}

// RunValidate reports whether the mapping table satisfies the geometry
func (a *App) RunValidate() error {
	ok, reason := layout.ValidateMappingTable(a.Pattern.Geometry, a.Pattern.Grid, a.Table)
	if !ok {
		return fmt.Errorf("mapping table invalid: %s", reason)
	}

	expected, err := layout.ExpectedLEDCount(a.Pattern.Geometry, a.Pattern.Grid)
	if err != nil {
		return err
	}
	fmt.Printf("Pattern %q: %s layout, %dx%d grid, %d LEDs, mapping table valid\n",
		a.Pattern.Name, a.Pattern.Geometry.Kind, a.Pattern.Grid.Width, a.Pattern.Grid.Height, expected)
	return nil
}

// RunRender writes a preview image for the selected frame
func (a *App) RunRender() error {
	switch a.RenderFormat {
	case "raster":
		out := a.OutputFile
		if out == "" {
			out = "preview.png"
		}
		renderer := layout.NewPreviewRenderer(a.Pattern, a.Table)
		renderer.ShowIndices = a.ShowIndices
		if err := renderer.SavePNG(out, a.Frame); err != nil {
			return err
		}
		fmt.Printf("Rendered raster preview to %s\n", out)
		return nil

	case "vector":
		ext := a.VectorFormat
		if ext != "svg" && ext != "png" {
			return fmt.Errorf("unknown vector format %q (want svg or png)", ext)
		}
		out := a.OutputFile
		if out == "" {
			out = "preview." + ext
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		preview := layout.NewVectorPreview(a.Pattern, a.Table)
		if ext == "svg" {
			err = preview.RenderSVG(f, a.Frame)
		} else {
			err = preview.RenderPNG(f, a.Frame)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Rendered vector preview to %s\n", out)
		return nil

	default:
		return fmt.Errorf("unknown render format %q (want raster or vector)", a.RenderFormat)
	}
}

// RunExport writes the pattern in a hardware wiring-order format
func (a *App) RunExport(format string) error {
	ext := map[string]string{"leds": "leds", "bin": "bin", "hex": "hex"}[format]
	if ext == "" {
		return fmt.Errorf("unknown export format %q (want leds, bin, or hex)", format)
	}

	out := a.OutputFile
	if out == "" {
		out = "pattern." + ext
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	switch format {
	case "leds":
		err = layout.ExportLEDS(f, a.Pattern, a.Table)
	case "bin":
		err = layout.ExportBinary(f, a.Pattern, a.Table)
	case "hex":
		err = layout.ExportIntelHex(f, a.Pattern, a.Table)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d frames (%d LEDs) to %s\n", len(a.Pattern.Frames), len(a.Table), out)
	return nil
}

// RunPublish connects to the configured broker and publishes every frame
// in sequence, honoring frame durations
func (a *App) RunPublish() error {
	if a.Pattern.MQTT == nil {
		return fmt.Errorf("pattern has no mqtt configuration")
	}
	if len(a.Pattern.Frames) == 0 {
		return fmt.Errorf("pattern has no frames to publish")
	}

	device := a.DeviceID
	if device == "" {
		device = a.Pattern.MQTT.DeviceID
	}
	if device == "" {
		return fmt.Errorf("no device ID: set -device or mqtt.deviceId")
	}

	client, err := layout.ConnectMQTT(a.Pattern.MQTT)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("mqtt broker not configured")
	}
	defer client.Disconnect(250)

	publisher := layout.NewFramePublisher(client, a.Pattern.MQTT.PublishPrefix)
	for idx, frame := range a.Pattern.Frames {
		if err := publisher.PublishFrame(device, a.Pattern, a.Table, idx); err != nil {
			return err
		}
		time.Sleep(time.Duration(frame.DurationMS) * time.Millisecond)
	}
	return nil
}

// RunServe starts the HTTP server and blocks until interrupted
func (a *App) RunServe() error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.HTTPPort),
		Handler: newHTTPServer(a),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%d", a.HTTPPort)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
		return server.Close()
	}
}

// runImport reads PCB placement data and writes a fresh custom-positions
// pattern file with a suggested grid
func runImport(posPath, csvPath, units, outPath string) error {
	var (
		params *layout.CustomParams
		err    error
		source string
	)

	switch {
	case posPath != "":
		f, openErr := os.Open(posPath)
		if openErr != nil {
			return openErr
		}
		defer func() { _ = f.Close() }()
		params, err = layout.ImportKiCadPos(f, layout.PositionUnits(units))
		source = posPath
	case csvPath != "":
		f, openErr := os.Open(csvPath)
		if openErr != nil {
			return openErr
		}
		defer func() { _ = f.Close() }()
		params, err = layout.ImportPositionsCSV(f, layout.PositionUnits(units))
		source = csvPath
	}
	if err != nil {
		return fmt.Errorf("importing %s: %w", source, err)
	}

	grid := layout.SuggestGridSize(len(params.Positions), layout.LayoutCustomPositions)
	pattern := &layout.PatternFile{
		Name:     strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)),
		Grid:     grid,
		Geometry: layout.Model{Kind: layout.LayoutCustomPositions, Custom: params},
	}

	// Fail early if the imported geometry cannot produce a table.
	if _, _, err := layout.BuildMappingTable(pattern.Geometry, pattern.Grid); err != nil {
		return fmt.Errorf("imported positions: %w", err)
	}

	if err := layout.SavePatternFile(outPath, pattern); err != nil {
		return err
	}
	fmt.Printf("Imported %d LED positions from %s to %s (%dx%d grid)\n",
		len(params.Positions), source, outPath, grid.Width, grid.Height)
	return nil
}

// runSuggest prints recommended grid dimensions for an LED count
func runSuggest(ledCount int, kind string) {
	size := layout.SuggestGridSize(ledCount, layout.LayoutKind(kind))
	fmt.Printf("Suggested grid for %d LEDs (%s layout): %dx%d\n", ledCount, kind, size.Width, size.Height)
}
