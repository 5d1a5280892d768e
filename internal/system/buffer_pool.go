package system

import (
	"image"
	"sync"
)

// ImagePool reuses *image.RGBA buffers of the same bounds to relieve the
// garbage collector while frames are converted for encoding.
type ImagePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &ImagePool{
	pools: make(map[string]*sync.Pool),
}

// GetImage returns an *image.RGBA from the pool, or a new one when the pool
// has no image of that size.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands an *image.RGBA back for reuse.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// MaskPool reuses float64 mask buffers keyed by length. A mask is read-only
// while a frame is composited, so one buffer per worker is enough.
type MaskPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalMaskPool = &MaskPool{
	pools: make(map[int]*sync.Pool),
}

// GetMaskBuffer returns a buffer of exactly n values. Contents are undefined.
func GetMaskBuffer(n int) *[]float64 {
	return globalMaskPool.Get(n)
}

// PutMaskBuffer hands a buffer obtained from GetMaskBuffer back for reuse.
func PutMaskBuffer(buf *[]float64) {
	globalMaskPool.Put(buf)
}

func (p *MaskPool) Get(n int) *[]float64 {
	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[n]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					buf := make([]float64, n)
					return &buf
				},
			}
			p.pools[n] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*[]float64)
}

func (p *MaskPool) Put(buf *[]float64) {
	if buf == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[len(*buf)]
	p.mu.RUnlock()

	if exists {
		pool.Put(buf)
	}
}
