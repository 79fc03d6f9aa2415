package main

import (
	"flag"
	"fmt"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile   = flag.String("config", "pattern.yaml", "Path to pattern file")
	mappingCache = flag.String("mapping-cache", ".mapping-cache.json", "Path to mapping table cache file")
	strictMode   = flag.Bool("strict", false, "Fail on out-of-bounds LED positions instead of clamping")

	validateOnly = flag.Bool("validate", false, "Validate the pattern's geometry and mapping table and exit")

	renderOnly   = flag.Bool("render", false, "Render a preview image and exit")
	renderFormat = flag.String("format", "raster", "Render format: raster or vector")
	vectorFormat = flag.String("vector-format", "svg", "Vector output format: svg or png")
	frameIndex   = flag.Int("frame", 0, "Frame to render/publish (-1 renders the unlit layout)")
	showIndices  = flag.Bool("show-indices", false, "Label each LED with its wiring index (raster only)")
	outputFile   = flag.String("output", "", "Output file (default derived from mode)")

	exportFormat = flag.String("export", "", "Export pattern in wiring order: leds, bin, or hex")

	publishMode = flag.Bool("publish", false, "Publish frames to the configured MQTT broker")
	deviceID    = flag.String("device", "", "Device ID for MQTT topics (default from pattern mqtt config)")

	httpMode = flag.Bool("http", false, "Serve preview and mapping endpoints over HTTP")
	httpPort = flag.Int("http-port", 8080, "HTTP server port")

	suggestLEDs   = flag.Int("suggest", 0, "Suggest grid dimensions for this LED count and exit")
	suggestLayout = flag.String("layout", "circle", "Layout kind for -suggest")

	importPos   = flag.String("import-pos", "", "Import a KiCad .pos placement file as a custom-positions pattern")
	importCSV   = flag.String("import-csv", "", "Import an x,y CSV file as a custom-positions pattern")
	importUnits = flag.String("units", "mm", "Units of imported positions: grid, mm, or inches")
)

func main() {
	flag.Parse()
	fmt.Printf("ledlens version: %s\n", Version)

	if *suggestLEDs > 0 {
		runSuggest(*suggestLEDs, *suggestLayout)
		return
	}

	if *importPos != "" || *importCSV != "" {
		if err := runImport(*importPos, *importCSV, *importUnits, *configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := NewApp()
	app.ConfigFile = *configFile
	app.MappingCache = *mappingCache
	app.Strict = *strictMode
	app.Frame = *frameIndex
	app.ShowIndices = *showIndices
	app.OutputFile = *outputFile
	app.RenderFormat = *renderFormat
	app.VectorFormat = *vectorFormat
	app.DeviceID = *deviceID
	app.HTTPPort = *httpPort

	if err := app.LoadPattern(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var err error
	switch {
	case *validateOnly:
		err = app.RunValidate()
	case *renderOnly:
		err = app.RunRender()
	case *exportFormat != "":
		err = app.RunExport(*exportFormat)
	case *publishMode:
		err = app.RunPublish()
	case *httpMode:
		err = app.RunServe()
	default:
		flag.Usage()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
