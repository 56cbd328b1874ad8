package encoder

import (
	"bytes"
	"image"
	"image/png"
	"sync"
)

// PNGEncoder writes lossless PNG. It is the default thumbnail format
// because every sample survives the round trip. The zlib buffers are
// pooled across calls, so one encoder may serve all workers.
type PNGEncoder struct {
	once sync.Once
	enc  *png.Encoder
}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	e.once.Do(func() {
		e.enc = &png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       &bufferPool{},
		}
	})

	var buf bytes.Buffer
	buf.Grow(growHint(img, 4, 512*1024))
	if err := e.enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// bufferPool implements png.EncoderBufferPool over a sync.Pool.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}
