// Package pipeline ties decoding, partitioning, encoding and optimization
// together for single files and glob batches.
package pipeline

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/regionpng/internal/config"
	"github.com/ironsheep/regionpng/internal/imaging"
	"github.com/ironsheep/regionpng/internal/optimize"
	"github.com/ironsheep/regionpng/internal/partition"
)

// Report summarizes one processed file.
type Report struct {
	Input  string `json:"input"`
	Output string `json:"output"`

	Width   int `json:"width"`
	Height  int `json:"height"`
	Regions int `json:"regions"`

	InputBytes     int64 `json:"input_bytes"`
	EncodedBytes   int   `json:"encoded_bytes"`
	OutputBytes    int   `json:"output_bytes"`
	EstimatedBytes int   `json:"estimated_bytes"`

	PSNR       float64 `json:"psnr"`
	MeanDeltaE float64 `json:"mean_delta_e"`
	MaxDeltaE  float64 `json:"max_delta_e"`
	Identical  bool    `json:"identical"`

	Optimizer string `json:"optimizer"`

	PartitionTime time.Duration `json:"partition_ns"`
	EncodeTime    time.Duration `json:"encode_ns"`
	OptimizeTime  time.Duration `json:"optimize_ns"`
	TotalTime     time.Duration `json:"total_ns"`
}

// Job is one input/output pair of a batch.
type Job struct {
	Input  string
	Output string
}

// Pipeline processes images with a fixed configuration. It is safe for
// concurrent use.
type Pipeline struct {
	cfg       config.Config
	opts      partition.Options
	level     png.CompressionLevel
	logger    *slog.Logger
	cache     *imaging.ImageCache
	optimizer *optimize.Optimizer
}

// New validates cfg and returns a Pipeline. A nil logger uses slog.Default.
func New(cfg config.Config, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := imaging.ParseCompression(cfg.PNGCompression)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		cfg:    cfg,
		opts:   cfg.PartitionOptions(),
		level:  level,
		logger: logger,
		cache:  imaging.NewImageCache(),
		optimizer: &optimize.Optimizer{
			Level:  cfg.Optimize.Level,
			Logger: logger,
		},
	}
	if cfg.Optimize.Enabled {
		p.optimizer.Binary = cfg.Optimize.Binary
	}
	return p, nil
}

// ProcessFile partitions the image at in and writes the result to out as PNG.
//
// The decoded source stays out of the cache once the call returns.
func (p *Pipeline) ProcessFile(ctx context.Context, in, out string) (*Report, error) {
	start := time.Now()
	log := p.logger.With("input", in)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stat, err := os.Stat(in)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	src, err := p.cache.Load(in)
	if err != nil {
		return nil, err
	}
	defer p.cache.Evict(in)

	t := time.Now()
	res, err := partition.Run(src, p.opts)
	if err != nil {
		return nil, err
	}
	partitionTime := time.Since(t)
	log.Info("partitioned", "regions", len(res.Leaves), "width", res.Width, "height", res.Height, "elapsed", partitionTime)

	t = time.Now()
	encoded, err := imaging.EncodePNG(res.Image, p.level)
	if err != nil {
		return nil, err
	}
	encodeTime := time.Since(t)

	t = time.Now()
	opt := optimize.Result{Data: encoded, Tool: optimize.ToolNone, Before: len(encoded), After: len(encoded)}
	if p.cfg.Optimize.Enabled {
		opt, err = p.optimizer.Optimize(ctx, encoded, res.Image)
		if err != nil {
			return nil, err
		}
	}
	optimizeTime := time.Since(t)

	if err := imaging.WriteFile(out, opt.Data); err != nil {
		return nil, err
	}

	estimate, err := optimize.EstimateSize(res.Image)
	if err != nil {
		return nil, err
	}
	cmp, err := imaging.Compare(src, res.Image)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Input:          in,
		Output:         out,
		Width:          res.Width,
		Height:         res.Height,
		Regions:        len(res.Leaves),
		InputBytes:     stat.Size(),
		EncodedBytes:   len(encoded),
		OutputBytes:    len(opt.Data),
		EstimatedBytes: estimate,
		PSNR:           cmp.PSNR,
		MeanDeltaE:     cmp.MeanDeltaE,
		MaxDeltaE:      cmp.MaxDeltaE,
		Identical:      cmp.Identical,
		Optimizer:      opt.Tool,
		PartitionTime:  partitionTime,
		EncodeTime:     encodeTime,
		OptimizeTime:   optimizeTime,
		TotalTime:      time.Since(start),
	}
	log.Info("wrote", "output", out, "bytes", report.OutputBytes, "optimizer", report.Optimizer, "psnr", report.PSNR)
	return report, nil
}

// Expand resolves pattern into jobs writing into outDir. Each output keeps the
// input's base name with a .png extension. A pattern without glob characters
// names a single file.
//
// # Errors
//
//   - Returns error if the pattern is malformed or matches nothing.
//   - Returns error if two inputs would write the same output.
func Expand(pattern, outDir string) ([]Job, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}

	jobs := make([]Job, 0, len(matches))
	seen := make(map[string]string, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
		out := filepath.Join(outDir, name)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, m, out)
		}
		seen[out] = m
		jobs = append(jobs, Job{Input: m, Output: out})
	}
	return jobs, nil
}

// ProcessBatch runs jobs with up to cfg.Jobs files in flight. Reports are
// returned in job order. The first failure cancels the remaining jobs.
func (p *Pipeline) ProcessBatch(ctx context.Context, jobs []Job) ([]*Report, error) {
	reports := make([]*Report, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Jobs)
	for i, job := range jobs {
		g.Go(func() error {
			r, err := p.ProcessFile(ctx, job.Input, job.Output)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Input, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info("batch complete", "files", len(jobs))
	return reports, nil
}
