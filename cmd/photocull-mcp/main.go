package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/photocull-mcp/internal/config"
	"github.com/ironsheep/photocull-mcp/internal/imaging"
	"github.com/ironsheep/photocull-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("photocull-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  RAW decoder: %s\n", imaging.RawDecoder)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Photocull MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("cache=%s preview_quality=%d analysis_size=%d thumbnail_size=%d raw=%s",
			cfg.CacheDir, cfg.PreviewQuality, cfg.AnalysisSize, cfg.ThumbnailSize, imaging.RawDecoder)
	}

	if Version != "dev" {
		server.Version = Version
	}
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("photocull-mcp - MCP server for photo culling and editing")
	fmt.Println()
	fmt.Println("Usage: photocull-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Printf("  %s=<dir>           Thumbnail cache root\n", config.EnvCacheDir)
	fmt.Printf("  %s=debug           Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=<1-100>   JPEG quality of previews (default 85)\n", config.EnvPreviewQuality)
	fmt.Printf("  %s=<px>        Long edge used for analysis (default 1024)\n", config.EnvAnalysisSize)
	fmt.Printf("  %s=<px>       Thumbnail size (default 256)\n", config.EnvThumbnailSize)
	fmt.Println()
	fmt.Println("RAW files are decoded with ImageMagick when built with -tags imagick;")
	fmt.Println("otherwise their embedded JPEG preview is used.")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
