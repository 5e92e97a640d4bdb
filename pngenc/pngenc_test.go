package pngenc

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/patchpilot/iconkit/raster"
)

type parsedChunk struct {
	Tag    string
	Length uint32
	Data   []byte
	CRC    uint32
}

// readChunks walks an encoded PNG independently of the encoder.
func readChunks(t *testing.T, b []byte) []parsedChunk {
	t.Helper()
	if !bytes.HasPrefix(b, Signature[:]) {
		t.Fatalf("missing png signature: % x", b[:min(8, len(b))])
	}
	var chunks []parsedChunk
	p := b[8:]
	for len(p) > 0 {
		if len(p) < ChunkOverhead {
			t.Fatalf("truncated chunk header: %d bytes left", len(p))
		}
		n := binary.BigEndian.Uint32(p[0:4])
		if uint32(len(p)) < n+ChunkOverhead {
			t.Fatalf("truncated chunk %q", p[4:8])
		}
		chunks = append(chunks, parsedChunk{
			Tag:    string(p[4:8]),
			Length: n,
			Data:   p[8 : 8+n],
			CRC:    binary.BigEndian.Uint32(p[8+n : 12+n]),
		})
		p = p[12+n:]
	}
	return chunks
}

func solid(w, h int, c raster.Color) *raster.Buffer {
	b := raster.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetPixel(x, y, c)
		}
	}
	return b
}

func patterned(w, h int) *raster.Buffer {
	b := raster.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetPixel(x, y, raster.Color{
				R: uint8(x * 37),
				G: uint8(y * 91),
				B: uint8((x ^ y) * 13),
				A: uint8((x + y) * 29),
			})
		}
	}
	return b
}

func TestEncodeRedSquare(t *testing.T) {
	b := solid(2, 2, raster.RGB(255, 0, 0))
	got, err := Encode(b)
	if err != nil {
		t.Fatal(err)
	}

	chunks := readChunks(t, got)
	var tags []string
	for _, c := range chunks {
		tags = append(tags, c.Tag)
	}
	if diff := cmp.Diff([]string{"IHDR", "IDAT", "IEND"}, tags); diff != "" {
		t.Fatalf("chunk order mismatch (-want +got):\n%s", diff)
	}

	idat := chunks[1]
	want := 8 + 25 + (ChunkOverhead + int(idat.Length)) + 12
	if len(got) != want {
		t.Errorf("encoded length = %d, want %d", len(got), want)
	}

	wantIHDR := []byte{0, 0, 0, 2, 0, 0, 0, 2, 8, 6, 0, 0, 0}
	if diff := cmp.Diff(wantIHDR, chunks[0].Data); diff != "" {
		t.Errorf("IHDR payload mismatch (-want +got):\n%s", diff)
	}
	if chunks[2].Length != 0 {
		t.Errorf("IEND length = %d, want 0", chunks[2].Length)
	}

	img, err := png.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("reference decoder rejected output: %v", err)
	}
	if bnd := img.Bounds(); bnd.Dx() != 2 || bnd.Dy() != 2 {
		t.Fatalf("decoded size = %v, want 2x2", bnd)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c != (color.NRGBA{R: 255, A: 255}) {
				t.Errorf("pixel (%d, %d) = %v, want opaque red", x, y, c)
			}
		}
	}
}

func TestEncodeChunkIntegrity(t *testing.T) {
	got, err := Encode(patterned(7, 5))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range readChunks(t, got) {
		if int(c.Length) != len(c.Data) {
			t.Errorf("%s: length field %d, payload %d", c.Tag, c.Length, len(c.Data))
		}
		want := crc32.ChecksumIEEE(append([]byte(c.Tag), c.Data...))
		if c.CRC != want {
			t.Errorf("%s: crc = %08x, want %08x", c.Tag, c.CRC, want)
		}
	}
}

func TestEncodeScanlineFraming(t *testing.T) {
	b := patterned(3, 4)
	got, err := Encode(b)
	if err != nil {
		t.Fatal(err)
	}
	idat := readChunks(t, got)[1]
	zr, err := zlib.NewReader(bytes.NewReader(idat.Data))
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	stride := b.Width * 4
	if len(raw) != (stride+1)*b.Height {
		t.Fatalf("inflated %d bytes, want %d", len(raw), (stride+1)*b.Height)
	}
	for y := 0; y < b.Height; y++ {
		row := raw[y*(stride+1):]
		if row[0] != 0 {
			t.Errorf("row %d filter byte = %d, want 0", y, row[0])
		}
		if !bytes.Equal(row[1:stride+1], b.Row(y)) {
			t.Errorf("row %d bytes differ from the buffer", y)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		b    *raster.Buffer
	}{
		{"1x1 transparent", raster.NewBuffer(1, 1)},
		{"wide", patterned(31, 2)},
		{"tall", patterned(3, 40)},
		{"square", patterned(16, 16)},
		{"translucent", solid(5, 3, raster.Color{R: 12, G: 200, B: 99, A: 17})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.b)
			if err != nil {
				t.Fatal(err)
			}
			img, err := png.Decode(bytes.NewReader(got))
			if err != nil {
				t.Fatalf("reference decoder rejected output: %v", err)
			}
			nrgba, ok := img.(*image.NRGBA)
			if !ok {
				t.Fatalf("decoded %T, want *image.NRGBA", img)
			}
			if nrgba.Rect.Dx() != tt.b.Width || nrgba.Rect.Dy() != tt.b.Height {
				t.Fatalf("decoded %v, want %dx%d", nrgba.Rect, tt.b.Width, tt.b.Height)
			}
			if diff := cmp.Diff(tt.b.Pix, nrgba.Pix); diff != "" {
				t.Errorf("pixels differ after round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		b    *raster.Buffer
	}{
		{"nil", nil},
		{"zero size", &raster.Buffer{}},
		{"length mismatch", &raster.Buffer{Width: 2, Height: 2, Pix: make([]byte, 12)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Encode(tt.b); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	b := patterned(4, 4)
	if err := WriteFile(path, b); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := Encode(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("file content differs from Encode output")
	}

	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.png"), b); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
