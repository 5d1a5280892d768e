package source

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Endpoint is a parsed reference to one transition image.
//
//	photo.png       a single image file
//	slides/         the first image of a directory (name order)
//	deck.pdf#3      page 3 of a PDF (pages start at 1)
//	qr:hello        a QR code card with the given content
type Endpoint struct {
	Path string
	Page int // zero-based
	QR   bool
}

// ParseEndpoint splits ref into a path and an optional "#page" suffix
func ParseEndpoint(ref string) (Endpoint, error) {
	if ref == "" {
		return Endpoint{}, fmt.Errorf("empty endpoint reference")
	}
	if content, ok := strings.CutPrefix(ref, "qr:"); ok {
		return Endpoint{Path: content, QR: true}, nil
	}

	ep := Endpoint{Path: ref}
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		page, err := strconv.Atoi(ref[i+1:])
		if err == nil {
			if page < 1 {
				return Endpoint{}, fmt.Errorf("page numbers start at 1: %s", ref)
			}
			ep.Path = ref[:i]
			ep.Page = page - 1
		}
	}
	return ep, nil
}

// Open returns the source behind an endpoint
func (ep Endpoint) Open() (Source, error) {
	switch {
	case ep.QR:
		return NewQRSource(ep.Path, DefaultQRSize), nil
	case strings.HasSuffix(strings.ToLower(ep.Path), ".pdf"):
		return NewFitzPDFSource(ep.Path)
	default:
		return NewImageSource(ep.Path)
	}
}

// Load opens ref and renders its selected page at dpi
func Load(ref string, dpi int) (image.Image, error) {
	ep, err := ParseEndpoint(ref)
	if err != nil {
		return nil, err
	}

	src, err := ep.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	defer src.Close()

	if src.PageCount() == 0 {
		return nil, fmt.Errorf("%s contains no images", ref)
	}
	img, err := src.RenderPage(ep.Page, dpi)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", ref, err)
	}
	return img, nil
}

// Dimensions returns the pixel size ref renders to at dpi without decoding
// the image itself.
func Dimensions(ref string, dpi int) (width, height int, err error) {
	ep, err := ParseEndpoint(ref)
	if err != nil {
		return 0, 0, err
	}

	src, err := ep.Open()
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", ref, err)
	}
	defer src.Close()

	w, h, err := src.GetPageDimensions(ep.Page)
	if err != nil {
		return 0, 0, fmt.Errorf("measure %s: %w", ref, err)
	}
	if _, ok := src.(*FitzPDFSource); ok {
		scale := float64(dpi) / PointsPerInch
		w, h = w*scale, h*scale
	}
	return int(math.Round(w)), int(math.Round(h)), nil
}
