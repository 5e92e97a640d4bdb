package iconkit

import (
	"image"
	"math"

	"github.com/patchpilot/iconkit/raster"
)

// DefaultSize is the edge length of the master icon.
const DefaultSize = 1024

// Palette holds the colors of the default icon.
type Palette struct {
	Top         raster.Color
	Bottom      raster.Color
	Ring        raster.Color
	Patch       raster.Color
	PatchAccent raster.Color
	Sparkle     raster.Color
}

func DefaultPalette() Palette {
	return Palette{
		Top:         raster.RGB(94, 209, 193),
		Bottom:      raster.RGB(47, 138, 163),
		Ring:        raster.RGB(250, 252, 255),
		Patch:       raster.RGB(243, 217, 163),
		PatchAccent: raster.RGB(209, 168, 104),
		Sparkle:     raster.RGB(255, 246, 210),
	}
}

// Geometry holds the pixel measurements of the default icon at a given size.
type Geometry struct {
	Size         int
	CornerRadius int

	RingOuter int
	RingInner int

	PointerAngle  float64 // degrees
	PointerSpread float64 // degrees
	PointerTip    int     // added to RingOuter
	PointerBase   int     // subtracted from RingOuter

	PatchW, PatchH int
	PatchRadius    int
	HoleSpacing    int
	HoleRadius     int

	SparkleOffset int
	SparkleOuter  int
	SparkleInner  int
}

// DefaultGeometry returns the measurements of the 1024px master.
func DefaultGeometry() Geometry {
	return Geometry{
		Size:          DefaultSize,
		CornerRadius:  220,
		RingOuter:     320,
		RingInner:     250,
		PointerAngle:  -40,
		PointerSpread: 16,
		PointerTip:    18,
		PointerBase:   10,
		PatchW:        300,
		PatchH:        190,
		PatchRadius:   44,
		HoleSpacing:   70,
		HoleRadius:    14,
		SparkleOffset: 210,
		SparkleOuter:  24,
		SparkleInner:  10,
	}
}

// ScaledGeometry scales the master measurements linearly to size.
// At DefaultSize it equals DefaultGeometry.
func ScaledGeometry(size int) Geometry {
	g := DefaultGeometry()
	if size == g.Size {
		return g
	}
	f := float64(size) / float64(g.Size)
	s := func(v int) int {
		return int(math.Round(float64(v) * f))
	}
	return Geometry{
		Size:          size,
		CornerRadius:  s(g.CornerRadius),
		RingOuter:     s(g.RingOuter),
		RingInner:     s(g.RingInner),
		PointerAngle:  g.PointerAngle,
		PointerSpread: g.PointerSpread,
		PointerTip:    s(g.PointerTip),
		PointerBase:   s(g.PointerBase),
		PatchW:        s(g.PatchW),
		PatchH:        s(g.PatchH),
		PatchRadius:   s(g.PatchRadius),
		HoleSpacing:   s(g.HoleSpacing),
		HoleRadius:    s(g.HoleRadius),
		SparkleOffset: s(g.SparkleOffset),
		SparkleOuter:  s(g.SparkleOuter),
		SparkleInner:  s(g.SparkleInner),
	}
}

// Center returns the canvas center.
func (g Geometry) Center() image.Point {
	return image.Pt(g.Size/2, g.Size/2)
}

// CanvasMask is the rounded-square outline of the icon.
func (g Geometry) CanvasMask() raster.Mask {
	return raster.RoundedRect(0, 0, g.Size, g.Size, g.CornerRadius)
}

// Pointer returns the tip and base corners of the triangle tangent to the ring.
func (g Geometry) Pointer() (tip, base1, base2 image.Point) {
	c := g.Center()
	angle := g.PointerAngle * math.Pi / 180
	spread := g.PointerSpread * math.Pi / 180
	at := func(a float64, r int) image.Point {
		return image.Pt(
			int(float64(c.X)+math.Cos(a)*float64(r)),
			int(float64(c.Y)+math.Sin(a)*float64(r)),
		)
	}
	tipR := g.RingOuter + g.PointerTip
	baseR := g.RingOuter - g.PointerBase
	return at(angle, tipR), at(angle+spread, baseR), at(angle-spread, baseR)
}

// Render draws the default icon onto a new buffer.
func Render(g Geometry, p Palette) *raster.Buffer {
	b := raster.NewBuffer(g.Size, g.Size)
	drawBackground(b, g, p)

	c := g.Center()
	tip, base1, base2 := g.Pointer()
	shapes := []raster.Shape{
		raster.Ring{CX: c.X, CY: c.Y, Inner: g.RingInner, Outer: g.RingOuter, Color: p.Ring, Clip: g.CanvasMask()},
		raster.Triangle{P1: tip, P2: base1, P3: base2, Color: p.Ring},
		raster.Rect{X: c.X - g.PatchW/2, Y: c.Y - g.PatchH/2, W: g.PatchW, H: g.PatchH, Radius: g.PatchRadius, Color: p.Patch},
	}
	for _, i := range []int{-1, 0, 1} {
		shapes = append(shapes, raster.Circle{CX: c.X + i*g.HoleSpacing, CY: c.Y, Radius: g.HoleRadius, Color: p.PatchAccent})
	}
	sx, sy := c.X+g.SparkleOffset, c.Y-g.SparkleOffset
	shapes = append(shapes,
		raster.Diamond{CX: sx, CY: sy, Size: g.SparkleOuter, Color: p.Sparkle},
		raster.Diamond{CX: sx, CY: sy, Size: g.SparkleInner, Color: p.Ring},
	)
	raster.Draw(b, shapes...)
	return b
}

// drawBackground fills the rounded canvas with a vertical gradient brightened
// toward the center.
func drawBackground(b *raster.Buffer, g Geometry, p Palette) {
	c := g.Center()
	maxDist := math.Hypot(float64(c.X), float64(c.Y))
	if maxDist == 0 {
		maxDist = 1
	}
	last := float64(g.Size - 1)
	if last <= 0 {
		last = 1
	}
	for y := 0; y < g.Size; y++ {
		t := float64(y) / last
		baseR := lerp(p.Top.R, p.Bottom.R, t)
		baseG := lerp(p.Top.G, p.Bottom.G, t)
		baseB := lerp(p.Top.B, p.Bottom.B, t)
		for x := 0; x < g.Size; x++ {
			if !raster.RoundedRectMask(x, y, g.Size, g.Size, g.CornerRadius) {
				continue
			}
			dist := math.Hypot(float64(x-c.X), float64(y-c.Y)) / maxDist
			// float64() conversions forbid fused multiply-add.
			highlight := 1.08 - float64(dist*0.18)
			b.SetPixel(x, y, raster.RGB(
				raster.Clamp(baseR*highlight),
				raster.Clamp(baseG*highlight),
				raster.Clamp(baseB*highlight),
			))
		}
	}
}

func lerp(a, b uint8, t float64) float64 {
	return float64(float64(a)*(1-t)) + float64(float64(b)*t)
}
