package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"afrikticket_backend/internals/configs"
)

var ErrUnsupportedImage = errors.New("unsupported image format (use jpg/png/webp)")

type WebPOptions struct {
	MaxW     int     // resize keep-aspect
	MaxH     int
	Quality  float32 // used when TargetKB = 0
	TargetKB int     // 0 = disabled
	MinQ     float32
	MaxQ     float32
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:     configs.GetInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:     configs.GetInt("IMAGE_WEBP_MAX_H", 1600),
		Quality:  float32(configs.GetInt("IMAGE_WEBP_QUALITY", 80)),
		TargetKB: configs.GetInt("IMAGE_WEBP_TARGET_KB", 0),
		MinQ:     45,
		MaxQ:     85,
	}
}

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, ErrEmptyPayload
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	ext := strings.ToLower(filepath.Ext(filename))

	if strings.Contains(ct, "webp") || ext == ".webp" {
		img, err := webp.Decode(bytes.NewReader(all))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return img, nil
	}
	img, err := imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

func encodeWebP(img image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToWebP: decode → downscale to fit MaxW×MaxH → encode webp.
// With TargetKB set, quality is binary searched until the output fits.
func ConvertToWebP(all []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	if opt.MaxW > 0 && opt.MaxH > 0 {
		b := img.Bounds()
		if b.Dx() > opt.MaxW || b.Dy() > opt.MaxH {
			img = imaging.Fit(img, opt.MaxW, opt.MaxH, imaging.Lanczos)
		}
	}

	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeWebP(img, q)
	}

	target := opt.TargetKB * 1024
	low, high := opt.MinQ, opt.MaxQ
	if low <= 0 {
		low = 45
	}
	if high <= low {
		high = 85
	}
	var best []byte
	for i := 0; i < 7; i++ {
		q := (low + high) / 2
		data, err := encodeWebP(img, q)
		if err != nil {
			return nil, err
		}
		if len(data) <= target {
			best = data
			low = q
		} else {
			high = q
		}
	}
	if best == nil {
		return encodeWebP(img, opt.MinQ)
	}
	return best, nil
}

// WebPFilename swaps the extension for .webp.
func WebPFilename(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
}
