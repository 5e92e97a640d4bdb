package raster

import (
	"fmt"
	"image"
	"image/color"
)

var _ image.Image = (*Buffer)(nil)

// Buffer is a dense row-major RGBA pixel buffer, 8 bits per channel.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte // len = Width * Height * 4
}

// NewBuffer allocates a fully transparent w×h buffer.
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{
		Width:  w,
		Height: h,
		Pix:    make([]byte, w*h*4),
	}
}

// Validate reports whether the buffer dimensions and pixel slice agree.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("buffer is nil")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid buffer dimensions: %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("buffer length mismatch: expected %d bytes for %dx%d RGBA, got %d", want, b.Width, b.Height, len(b.Pix))
	}
	return nil
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// SetPixel overwrites the pixel at (x, y). Coordinates outside the buffer are ignored.
func (b *Buffer) SetPixel(x, y int, c Color) {
	if !b.inBounds(x, y) {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// Pixel returns the color at (x, y), or the zero Color outside the buffer.
func (b *Buffer) Pixel(x, y int) Color {
	if !b.inBounds(x, y) {
		return Color{}
	}
	i := (y*b.Width + x) * 4
	return Color{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Row returns the raw bytes of row y.
func (b *Buffer) Row(y int) []byte {
	stride := b.Width * 4
	return b.Pix[y*stride : (y+1)*stride]
}

func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

func (b *Buffer) At(x, y int) color.Color {
	c := b.Pixel(x, y)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Set lets the buffer act as a draw.Image destination.
func (b *Buffer) Set(x, y int, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	b.SetPixel(x, y, Color{R: n.R, G: n.G, B: n.B, A: n.A})
}
