package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/regionpng/internal/config"
	"github.com/ironsheep/regionpng/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const configEnv = "REGIONPNG_CONFIG"

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("regionpng-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("regionpng-mcp - MCP server for flat-region PNG compression")
			fmt.Println()
			fmt.Println("Usage: regionpng-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  REGIONPNG_CONFIG=path        YAML config with tool defaults")
			fmt.Println("  REGIONPNG_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg := config.Default()
	if path := os.Getenv(configEnv); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "regionpng-mcp: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if level := os.Getenv(config.LogLevelEnv); level != "" {
		cfg.LogLevel = level
	}

	// Logs go to stderr; stdout is for MCP protocol.
	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "regionpng-mcp: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
