// Package optimize shrinks encoded PNG files without changing their pixels.
//
// When an external optimizer (oxipng) is installed it is run on the encoded
// bytes; otherwise, or when it does worse, an in-process re-encode at the
// best zlib level is used. The smallest candidate wins.
package optimize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"golang.org/x/exp/slog"

	"github.com/ironsheep/regionpng/internal/imaging"
)

// Tool names reported in Result.Tool.
const (
	ToolNone     = "none"
	ToolReencode = "reencode"
	ToolOxipng   = "oxipng"
)

// Optimizer runs the lossless pass.
type Optimizer struct {
	// Binary is the oxipng executable name or path. Empty disables the
	// external pass.
	Binary string

	// Level is passed to oxipng as -o <Level>.
	Level int

	Logger *slog.Logger
}

// Result describes the outcome of Optimize.
type Result struct {
	Data   []byte
	Tool   string
	Before int
	After  int
}

// Optimize returns the smallest available encoding of img, starting from data,
// which must be a PNG encoding of img.
//
// A missing external binary is not an error. A binary that is present but
// fails is reported, since its output cannot be trusted.
func (o *Optimizer) Optimize(ctx context.Context, data []byte, img image.Image) (Result, error) {
	log := o.logger()
	best := Result{Data: data, Tool: ToolNone, Before: len(data), After: len(data)}

	if img != nil {
		re, err := imaging.EncodePNG(img, png.BestCompression)
		if err != nil {
			return best, err
		}
		if len(re) < len(best.Data) {
			best.Data, best.Tool = re, ToolReencode
		}
	}

	if o.Binary != "" {
		path, err := exec.LookPath(o.Binary)
		switch {
		case errors.Is(err, exec.ErrNotFound):
			log.Debug("optimizer not found, skipping", "binary", o.Binary)
		case err != nil:
			return best, fmt.Errorf("failed to locate optimizer: %w", err)
		default:
			out, err := o.runExternal(ctx, path, best.Data)
			if err != nil {
				return best, err
			}
			if len(out) < len(best.Data) {
				best.Data, best.Tool = out, ToolOxipng
			}
		}
	}

	best.After = len(best.Data)
	log.Debug("optimized", "tool", best.Tool, "before", best.Before, "after", best.After)
	return best, nil
}

func (o *Optimizer) runExternal(ctx context.Context, path string, data []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "regionpng_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, "-o", strconv.Itoa(o.Level), "--strip", "safe", "--out", out, in)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("optimizer %s failed: %w: %s", filepath.Base(path), err, bytes.TrimSpace(stderr.Bytes()))
	}

	result, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read optimizer output: %w", err)
	}
	return result, nil
}

func (o *Optimizer) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
