package raster

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes caps the size of a fetched or embedded image.
const MaxImageBytes = 64 << 20

var (
	// ErrUnsupportedSource indicates an image reference the loader can't read.
	ErrUnsupportedSource = errors.New("unsupported image source")
	// ErrImageTooLarge indicates an image exceeding MaxImageBytes.
	ErrImageTooLarge = errors.New("image too large")
	// ErrFileDenied indicates a file reference the loader is not permitted
	// to read.
	ErrFileDenied = errors.New("file reference not permitted")
)

// Loader resolves image references (data URIs, http(s) URLs and file paths)
// to decoded images, caching them by reference. File paths are refused
// unless enabled with WithLocalFiles or WithFileRoot.
type Loader struct {
	client   *http.Client
	files    bool
	fileRoot string
	mu       sync.Mutex
	cache    map[string]image.Image
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLocalFiles lets the loader read any local file path.
func WithLocalFiles() LoaderOption {
	return func(l *Loader) {
		l.files = true
		l.fileRoot = ""
	}
}

// WithFileRoot lets the loader read file paths that resolve inside dir.
// Relative paths are taken from dir. An empty dir leaves files disabled.
func WithFileRoot(dir string) LoaderOption {
	return func(l *Loader) {
		l.files = dir != ""
		l.fileRoot = dir
	}
}

// NewLoader returns a loader fetching remote images with client. A nil
// client selects http.DefaultClient.
func NewLoader(client *http.Client, opts ...LoaderOption) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	l := &Loader{client: client, cache: make(map[string]image.Image)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the decoded image for src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	key := cacheKey(src)
	l.mu.Lock()
	img, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err = image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	l.mu.Lock()
	l.cache[key] = img
	l.mu.Unlock()
	return img, nil
}

// Forget drops every cached image.
func (l *Loader) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return decodeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, src)
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		return l.readFile(u.Path)
	case src == "":
		return nil, fmt.Errorf("%w: empty reference", ErrUnsupportedSource)
	}
	return l.readFile(src)
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("building image request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if !l.files {
		return nil, fmt.Errorf("%w: %s", ErrFileDenied, path)
	}
	if l.fileRoot == "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening image: %w", err)
		}
		defer f.Close()
		return readLimited(f)
	}

	root, err := os.OpenRoot(l.fileRoot)
	if err != nil {
		return nil, fmt.Errorf("opening asset dir: %w", err)
	}
	defer root.Close()
	rel := path
	if filepath.IsAbs(path) {
		abs, err := filepath.Abs(l.fileRoot)
		if err != nil {
			return nil, fmt.Errorf("opening asset dir: %w", err)
		}
		if rel, err = filepath.Rel(abs, path); err != nil || !filepath.IsLocal(rel) {
			return nil, fmt.Errorf("%w: %s is outside the asset dir", ErrFileDenied, path)
		}
	}
	f, err := root.Open(rel)
	if err != nil {
		if !filepath.IsLocal(rel) {
			return nil, fmt.Errorf("%w: %s is outside the asset dir", ErrFileDenied, path)
		}
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

// decodeDataURI decodes "data:[<mediatype>][;base64],<data>".
func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", ErrUnsupportedSource)
	}
	if strings.HasSuffix(meta, ";base64") {
		if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
			return nil, ErrImageTooLarge
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	return []byte(data), nil
}

func cacheKey(src string) string {
	if len(src) <= 256 {
		return src
	}
	sum := sha256.Sum256([]byte(src))
	return "sha256:" + hex.EncodeToString(sum[:])
}
