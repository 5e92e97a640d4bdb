// Package iconset scales a master icon into the renditions an icns tag table names.
package iconset

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/corona10/goimagehash"
	"github.com/k1LoW/errors"
	"github.com/patchpilot/iconkit/icns"
	"github.com/patchpilot/iconkit/pngenc"
	"github.com/patchpilot/iconkit/raster"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// DefaultVerifyThreshold is the largest perceptual hash distance Verify accepts.
const DefaultVerifyThreshold = 10

// Rendition is one generated file of the iconset.
type Rendition struct {
	Entry  icns.Entry
	Path   string
	Buffer *raster.Buffer
}

// Scale resamples src to an n×n buffer. The master is shared read-only.
func Scale(src image.Image, n int) *raster.Buffer {
	dst := raster.NewBuffer(n, n)
	if src.Bounds().Dx() == n && src.Bounds().Dy() == n {
		draw.Copy(dst, image.Point{}, src, src.Bounds(), draw.Src, nil)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Generate writes one PNG per table entry into dir and returns the renditions
// in table order.
func Generate(ctx context.Context, master image.Image, dir string, table []icns.Entry) (_ []Rendition, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := icns.ValidateTable(table); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create iconset directory %s: %w", dir, err)
	}
	renditions := make([]Rendition, len(table))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range table {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf := Scale(master, e.Pixels())
			p := filepath.Join(dir, e.Filename)
			if err := pngenc.WriteFile(p, buf); err != nil {
				return fmt.Errorf("failed to write rendition %s: %w", e.Tag, err)
			}
			renditions[i] = Rendition{Entry: e, Path: p, Buffer: buf}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return renditions, nil
}

// Mismatch reports a rendition that drifted from the master.
type Mismatch struct {
	Tag      string
	Distance int
}

// Verify compares every rendition against the master by perception hash and
// returns those whose distance exceeds threshold.
func Verify(master image.Image, renditions []Rendition, threshold int) (_ []Mismatch, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	want, err := goimagehash.PerceptionHash(master)
	if err != nil {
		return nil, fmt.Errorf("failed to compute perceptual hash of master: %w", err)
	}
	var mismatches []Mismatch
	for _, r := range renditions {
		got, err := goimagehash.PerceptionHash(r.Buffer)
		if err != nil {
			return nil, fmt.Errorf("failed to compute perceptual hash of %s: %w", r.Entry.Tag, err)
		}
		d, err := want.Distance(got)
		if err != nil {
			return nil, err
		}
		if d > threshold {
			mismatches = append(mismatches, Mismatch{Tag: r.Entry.Tag, Distance: d})
		}
	}
	return mismatches, nil
}
