package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 16), uint8(y * 16), 40, 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestRun_SingleFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-tolerance", "0", "-optimize=false", "-log-level", "warn", in, out}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, out)
	assert.Contains(t, stdout.String(), "regions")
}

func TestRun_Glob(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	writePNG(t, filepath.Join(dir, "b.png"))
	outDir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-jobs", "2", "-optimize=false", filepath.Join(dir, "*.png"), outDir}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(outDir, "a.png"))
	assert.FileExists(t, filepath.Join(outDir, "b.png"))
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)
	cfgPath := filepath.Join(dir, "regionpng.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tolerance: 1000000\noptimize:\n  enabled: false\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgPath, in, filepath.Join(dir, "out.png")}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), " 1 regions")
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no arguments", nil, 2},
		{"one argument", []string{"in.png"}, 2},
		{"negative tolerance", []string{"-tolerance", "-1", "in.png", "out.png"}, 2},
		{"bad compression", []string{"-compression", "ultra", "in.png", "out.png"}, 2},
		{"unknown flag", []string{"-bogus", "in.png", "out.png"}, 2},
		{"missing input", []string{"-optimize=false", "missing.png", "out.png"}, 1},
		{"help", []string{"-h"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			dir := t.TempDir()
			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				if filepath.Ext(a) == ".png" {
					a = filepath.Join(dir, a)
				}
				args[i] = a
			}
			assert.Equal(t, tt.want, run(context.Background(), args, &stdout, &stderr))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "regionpng")
}
