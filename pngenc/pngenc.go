// Package pngenc writes 8-bit RGBA raster buffers as minimal PNG files:
// IHDR, a single IDAT and IEND, with no ancillary chunks.
package pngenc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/k1LoW/errors"
	"github.com/klauspost/compress/zlib"
	"github.com/patchpilot/iconkit/raster"
)

// Signature is the fixed 8-byte PNG magic.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	bitDepth       = 8
	colorTypeRGBA  = 6
	filterNone     = 0
	ihdrPayloadLen = 13
	// ChunkOverhead is the length, tag and CRC bytes wrapped around every payload.
	ChunkOverhead = 12
)

type chunk struct {
	tag  [4]byte
	data []byte
}

func newChunk(tag string, data []byte) chunk {
	c := chunk{data: data}
	copy(c.tag[:], tag)
	return c
}

// crc covers tag and payload, never the length field.
func (c chunk) crc() uint32 {
	h := crc32.NewIEEE()
	_, _ = h.Write(c.tag[:])
	_, _ = h.Write(c.data)
	return h.Sum32()
}

func (c chunk) writeTo(w io.Writer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(len(c.data)))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.tag[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.data); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(u32[:], c.crc())
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	return nil
}

func ihdr(width, height int) []byte {
	b := make([]byte, ihdrPayloadLen)
	binary.BigEndian.PutUint32(b[0:4], uint32(width))
	binary.BigEndian.PutUint32(b[4:8], uint32(height))
	b[8] = bitDepth
	b[9] = colorTypeRGBA
	// compression, filter and interlace methods stay 0
	return b
}

// scanlines frames every row with a leading filter-type byte.
func scanlines(b *raster.Buffer) []byte {
	stride := b.Width * 4
	raw := make([]byte, 0, (stride+1)*b.Height)
	for y := 0; y < b.Height; y++ {
		raw = append(raw, filterNone)
		raw = append(raw, b.Row(y)...)
	}
	return raw
}

func compress(raw []byte) (_ []byte, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode returns the PNG encoding of b. It only fails for a malformed buffer.
func Encode(b *raster.Buffer) (_ []byte, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var buf bytes.Buffer
	if err := Write(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the PNG encoding of b to w.
func Write(w io.Writer, b *raster.Buffer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := b.Validate(); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	idat, err := compress(scanlines(b))
	if err != nil {
		return fmt.Errorf("failed to compress image data: %w", err)
	}
	if _, err := w.Write(Signature[:]); err != nil {
		return err
	}
	for _, c := range []chunk{
		newChunk("IHDR", ihdr(b.Width, b.Height)),
		newChunk("IDAT", idat),
		newChunk("IEND", nil),
	} {
		if err := c.writeTo(w); err != nil {
			return fmt.Errorf("failed to write %s chunk: %w", c.tag[:], err)
		}
	}
	return nil
}

// WriteFile encodes b and writes it to path.
func WriteFile(path string, b *raster.Buffer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write png %s: %w", path, err)
	}
	return nil
}
