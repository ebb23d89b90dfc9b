// Package media validates, transforms, and stores uploaded images.
// Processing is all in memory; nothing touches the filesystem until
// Save, so a rejected upload never leaves a partial file behind.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	xwebp "golang.org/x/image/webp"

	"github.com/bananina/storefront-api/apperr"
)

// WebPQuality is the fixed lossy quality for converted gallery images.
const WebPQuality = 80

type Constraints struct {
	// MaxBytes rejects oversize uploads before anything is decoded or
	// written. Zero means no cap.
	MaxBytes int64
	// MaxWidth/MaxHeight downscale the decoded image to fit, keeping
	// aspect ratio. Zero means no resizing.
	MaxWidth  int
	MaxHeight int
	// ConvertWebP re-encodes to lossy WebP. When false the original
	// bytes are stored untouched in their uploaded format.
	ConvertWebP bool
}

var extByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type Result struct {
	Data   []byte
	Ext    string
	Width  int
	Height int
}

// Process validates and transforms an upload. Client-caused failures
// (bad type, oversize, undecodable) come back as Validation errors.
func Process(r io.Reader, size int64, cons Constraints) (*Result, error) {
	if cons.MaxBytes > 0 && size > cons.MaxBytes {
		return nil, apperr.Newf(apperr.Validation, "File too large. Maximum size is %dMB", cons.MaxBytes/(1024*1024))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to read upload", err)
	}
	if cons.MaxBytes > 0 && int64(len(data)) > cons.MaxBytes {
		return nil, apperr.Newf(apperr.Validation, "File too large. Maximum size is %dMB", cons.MaxBytes/(1024*1024))
	}

	mime := http.DetectContentType(data)
	ext, ok := extByMIME[mime]
	if !ok {
		return nil, apperr.New(apperr.Validation, "Invalid file type. Only JPG, PNG and WebP are allowed")
	}

	if !cons.ConvertWebP && cons.MaxWidth == 0 && cons.MaxHeight == 0 {
		return &Result{Data: data, Ext: ext}, nil
	}

	img, err := decode(mime, data)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, "Failed to process image", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if nw, nh, shrink := fitSize(w, h, cons.MaxWidth, cons.MaxHeight); shrink {
		// Lanczos on NRGBA keeps the alpha channel across the resize.
		img = imaging.Resize(img, nw, nh, imaging.Lanczos)
		w, h = nw, nh
	}

	if cons.ConvertWebP {
		var buf bytes.Buffer
		if err := webp.Encode(&buf, img, &webp.Options{Quality: WebPQuality}); err != nil {
			return nil, apperr.Wrap(apperr.Storage, "failed to encode webp", err)
		}
		return &Result{Data: buf.Bytes(), Ext: "webp", Width: w, Height: h}, nil
	}

	// Resized but kept in the original format.
	var buf bytes.Buffer
	switch mime {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		ext = "jpg"
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to encode image", err)
	}
	return &Result{Data: buf.Bytes(), Ext: ext, Width: w, Height: h}, nil
}

// Ingest runs Process on a multipart upload and writes the result under
// dir as base.<ext>, returning the stored filename.
func Ingest(fh *multipart.FileHeader, dir, base string, cons Constraints) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.Validation, "File upload failed", err)
	}
	defer f.Close()

	res, err := Process(f, fh.Size, cons)
	if err != nil {
		return "", err
	}
	return Save(res, dir, base)
}

// Save writes the processed image to dir/base.<ext>.
func Save(res *Result, dir, base string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.Storage, "failed to create upload folder", err)
	}
	filename := fmt.Sprintf("%s.%s", base, res.Ext)
	if err := os.WriteFile(filepath.Join(dir, filename), res.Data, 0o644); err != nil {
		return "", apperr.Wrap(apperr.Storage, "failed to save image", err)
	}
	return filename, nil
}

// Remove is the compensating delete used when a transaction aborts
// after the file was written, or to clear a replaced file after commit.
func Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove media file %s: %v", path, err)
	}
}

func decode(mime string, data []byte) (image.Image, error) {
	switch mime {
	case "image/jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		return png.Decode(bytes.NewReader(data))
	case "image/webp":
		return xwebp.Decode(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unsupported mime type %s", mime)
}

// fitSize scales (w, h) down to fit within (maxW, maxH) using the
// larger-fitting ratio, preserving aspect. Reports whether scaling is
// needed at all.
func fitSize(w, h, maxW, maxH int) (int, int, bool) {
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return w, h, false
	}
	// A zero limit means unconstrained on that side and must not
	// contribute a ratio.
	ratio := 1.0
	if maxW > 0 {
		ratio = float64(maxW) / float64(w)
	}
	if maxH > 0 {
		if r := float64(maxH) / float64(h); r < ratio {
			ratio = r
		}
	}
	nw := int(float64(w) * ratio)
	nh := int(float64(h) * ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh, true
}
