// Command regionpng approximates images with flat-color rectangles and writes
// them as small PNG files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/ironsheep/regionpng/internal/config"
	"github.com/ironsheep/regionpng/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("regionpng", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: regionpng [flags] <input> <output>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "<input> may be a glob such as 'shots/*.png'; <output> is then a directory.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "YAML config file")
	tolerance := fs.Float64("tolerance", config.DefaultTolerance, "largest variance score a region may keep (0 = exact)")
	workers := fs.Int("workers", 0, "goroutines per image (0 = sequential)")
	jobs := fs.Int("jobs", 1, "files processed concurrently")
	optimize := fs.Bool("optimize", true, "run the lossless PNG optimizer")
	level := fs.Int("oxipng-level", 2, "oxipng optimization level (0-6)")
	compression := fs.String("compression", "best", "PNG compression: default, none, speed, best")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	version := fs.Bool("version", false, "print version information")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *version {
		fmt.Fprintf(stdout, "regionpng %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
		return 0
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	input, output := fs.Arg(0), fs.Arg(1)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "regionpng: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if env := os.Getenv(config.LogLevelEnv); env != "" {
		cfg.LogLevel = env
	}

	// Explicit flags win over the config file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tolerance":
			cfg.Tolerance = *tolerance
		case "workers":
			cfg.Workers = *workers
		case "jobs":
			cfg.Jobs = *jobs
		case "optimize":
			cfg.Optimize.Enabled = *optimize
		case "oxipng-level":
			cfg.Optimize.Level = *level
		case "compression":
			cfg.PNGCompression = *compression
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "regionpng: %v\n", err)
		fs.Usage()
		return 2
	}
	logger, err := config.NewLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "regionpng: %v\n", err)
		return 2
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return 2
	}

	var reports []*pipeline.Report
	if isGlob(input) {
		if err := os.MkdirAll(output, 0o755); err != nil {
			logger.Error("cannot create output directory", "dir", output, "err", err)
			return 1
		}
		batch, err := pipeline.Expand(input, output)
		if err != nil {
			logger.Error("cannot expand input", "err", err)
			return 1
		}
		reports, err = p.ProcessBatch(ctx, batch)
		if err != nil {
			logger.Error("batch failed", "err", err)
			return 1
		}
	} else {
		r, err := p.ProcessFile(ctx, input, output)
		if err != nil {
			logger.Error("compression failed", "input", input, "err", err)
			return 1
		}
		reports = append(reports, r)
	}

	for _, r := range reports {
		fmt.Fprintf(stdout, "%s: %dx%d, %d regions, %d -> %d bytes, psnr %.2f dB, mean dE %.2f\n",
			r.Output, r.Width, r.Height, r.Regions, r.InputBytes, r.OutputBytes, r.PSNR, r.MeanDeltaE)
	}
	return 0
}

func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
