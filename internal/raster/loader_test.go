package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func dataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestLoaderDataURI(t *testing.T) {
	l := NewLoader(nil)
	img, err := l.Load(context.Background(), dataURI(solidPNG(t, 3, 2, color.White)))
	require.NoError(t, err)
	require.Equal(t, image.Pt(3, 2), img.Bounds().Size())

	_, err = l.Load(context.Background(), "data:image/png;base64")
	require.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = l.Load(context.Background(), "data:text/plain,hello")
	require.Error(t, err)
}

func TestLoaderFileAndCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, solidPNG(t, 4, 4, color.Black), 0o644))

	l := NewLoader(nil, WithLocalFiles())
	first, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	cached, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Same(t, first, cached)

	l.Forget()
	_, err = l.Load(context.Background(), path)
	require.Error(t, err)

	_, err = l.Load(context.Background(), "")
	require.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestLoaderHTTP(t *testing.T) {
	data := solidPNG(t, 5, 1, color.White)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bg.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())
	img, err := l.Load(context.Background(), srv.URL+"/bg.png")
	require.NoError(t, err)
	require.Equal(t, 5, img.Bounds().Dx())

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	require.ErrorContains(t, err, "unexpected status")
}

func TestLoaderFileAccess(t *testing.T) {
	ctx := context.Background()
	assets, elsewhere := t.TempDir(), t.TempDir()
	inside := filepath.Join(assets, "mat.png")
	outside := filepath.Join(elsewhere, "secret.png")
	require.NoError(t, os.WriteFile(inside, solidPNG(t, 2, 2, color.White), 0o644))
	require.NoError(t, os.WriteFile(outside, solidPNG(t, 2, 2, color.Black), 0o644))

	_, err := NewLoader(nil).Load(ctx, inside)
	require.ErrorIs(t, err, ErrFileDenied)
	_, err = NewLoader(nil).Load(ctx, "file://"+inside)
	require.ErrorIs(t, err, ErrFileDenied)

	rooted := NewLoader(nil, WithFileRoot(assets))
	for _, src := range []string{inside, "mat.png", "file://" + inside} {
		img, err := rooted.Load(ctx, src)
		require.NoError(t, err, src)
		require.Equal(t, 2, img.Bounds().Dx())
	}
	rel, err := filepath.Rel(assets, outside)
	require.NoError(t, err)
	for _, src := range []string{outside, rel, "file://" + outside} {
		_, err := rooted.Load(ctx, src)
		require.ErrorIs(t, err, ErrFileDenied, src)
	}

	_, err = NewLoader(nil, WithLocalFiles()).Load(ctx, outside)
	require.NoError(t, err)
}
