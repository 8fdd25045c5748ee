package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/ironsheep/raster-tools-mcp/internal/imageio"
	"github.com/ironsheep/raster-tools-mcp/internal/parallel"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
	"github.com/ironsheep/raster-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s=%q: %v", key, v, err)
	}
	return n
}

func usage() {
	fmt.Println("raster-tools-mcp - MCP server for raster image processing")
	fmt.Println()
	fmt.Println("Usage: raster-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	pflag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  RASTER_MCP_LOG_LEVEL=debug     Log level (debug, info, warn, error)")
	fmt.Println("  RASTER_MCP_WORKERS=4           Worker goroutines per operation")
	fmt.Println("  RASTER_MCP_JPEG_QUALITY=90     JPEG quality for saved files")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	// Fatal startup errors go to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	showVersion := pflag.BoolP("version", "v", false, "Print version information")
	showHelp := pflag.BoolP("help", "h", false, "Print this help message")
	logLevel := pflag.String("log-level", envOr("RASTER_MCP_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	workers := pflag.Int("workers", envInt("RASTER_MCP_WORKERS", 0), "Worker goroutines per operation, 0 for GOMAXPROCS")
	jpegQuality := pflag.Int("jpeg-quality", envInt("RASTER_MCP_JPEG_QUALITY", imageio.DefaultJPEGQuality), "JPEG quality (1-100) for saved files")
	pflag.Usage = usage
	pflag.Parse()

	if *showVersion {
		fmt.Printf("raster-tools-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}
	if *showHelp {
		usage()
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("invalid log level %q: %v", *logLevel, err)
	}
	if *jpegQuality < 1 || *jpegQuality > 100 {
		log.Fatalf("jpeg quality must be between 1 and 100, got %d", *jpegQuality)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	raster.SetLogger(logger)
	parallel.SetWorkers(*workers)

	logger.Debug("starting raster MCP server",
		"version", Version, "built", BuildTime, "commit", GitCommit, "workers", parallel.Workers())

	srv := server.New(server.Config{
		Version:     Version,
		JPEGQuality: *jpegQuality,
		Logger:      logger,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
