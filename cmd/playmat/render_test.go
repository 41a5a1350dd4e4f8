package main

import (
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/playmat/internal/raster"
	"github.com/stretchr/testify/require"
)

func TestRenderer_WritesPNG(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "arena.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{
		"version": "1.0",
		"projectName": "Arena",
		"matSize": {"width": 10, "height": 5},
		"dpi": 96,
		"gridSize": -3,
		"zones": []
	}`), 0o644))

	r := &renderer{
		path:   doc,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		loader: raster.NewLoader(nil),
	}
	require.NoError(t, r.render(context.Background()))

	f, err := os.Open(filepath.Join(dir, "Arena.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 378, img.Bounds().Dx())
	require.Equal(t, 189, img.Bounds().Dy())

	r.out = filepath.Join(dir, "out", "hi.png")
	r.dpi = 192
	require.NoError(t, r.render(context.Background()))
	f2, err := os.Open(r.out)
	require.NoError(t, err)
	defer f2.Close()
	cfg, err := png.DecodeConfig(f2)
	require.NoError(t, err)
	require.Equal(t, 756, cfg.Width)
}

func TestRenderer_RejectsNonObject(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(doc, []byte(`[]`), 0o644))
	r := &renderer{path: doc, logger: slog.New(slog.NewTextHandler(io.Discard, nil)), loader: raster.NewLoader(nil)}
	require.Error(t, r.render(context.Background()))
}

func TestLogFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "playmat.log")
	w, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer w.Close()

	chunk := make([]byte, 1024*1024)
	for i := range chunk {
		chunk[i] = 'a'
	}
	for i := 0; i < 7; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.LessOrEqual(t, info.Size(), int64(maxLogSizeBytes))
}
