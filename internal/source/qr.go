package source

import (
	"image"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of generated QR cards
const DefaultQRSize = 512

// QRSource renders its content as a single QR code page. It makes a
// self-contained test card for transitions.
type QRSource struct {
	Content string
	Size    int
}

func NewQRSource(content string, size int) *QRSource {
	if size <= 0 {
		size = DefaultQRSize
	}
	return &QRSource{Content: content, Size: size}
}

func (s *QRSource) PageCount() int {
	return 1
}

func (s *QRSource) GetPageDimensions(index int) (float64, float64, error) {
	return float64(s.Size), float64(s.Size), nil
}

func (s *QRSource) RenderPage(index int, dpi int) (image.Image, error) {
	q, err := qrcode.New(s.Content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return q.Image(s.Size), nil
}

func (s *QRSource) Close() error {
	return nil
}
