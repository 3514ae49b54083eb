package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// ThumbSize is the edge length in pixels of the square stop thumbnails.
const ThumbSize = 160

const maxPhotoBytes = 5 << 20

// PhotoFetcher downloads a place photo.
type PhotoFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// HTTPPhotos fetches photos over HTTP.
type HTTPPhotos struct {
	Client *http.Client
}

func NewHTTPPhotos(timeout time.Duration) *HTTPPhotos {
	return &HTTPPhotos{Client: &http.Client{Timeout: timeout}}
}

func (p *HTTPPhotos) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch photo: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return img, nil
}

// Thumbnail centre-crops img to a square of size pixels.
func Thumbnail(img image.Image, size int) image.Image {
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
