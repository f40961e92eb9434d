package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// ThumbFetcher downloads a recipe thumbnail and keeps a resized local copy so
// the catalog does not depend on the source CDN staying up.
type ThumbFetcher struct {
	http *resty.Client
	dir  string
}

// NewThumbFetcher creates a ThumbFetcher that stores images under dir.
func NewThumbFetcher(dir string, timeout time.Duration) *ThumbFetcher {
	return &ThumbFetcher{
		http: resty.New().SetTimeout(timeout),
		dir:  dir,
	}
}

// Save downloads url, resizes the image to 800px wide and writes it as JPEG
// under the configured directory, returning the stored path.
func (f *ThumbFetcher) Save(ctx context.Context, url string) (string, error) {
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download thumbnail: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("thumbnail download returned status %d", resp.StatusCode())
	}

	img, _, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("failed to decode thumbnail: %w", err)
	}
	img = resize.Resize(800, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	path := filepath.Join(f.dir, uuid.NewString()+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, nil); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return path, nil
}
