package raster

import "image"

// Shape is one of the closed set of drawable variants in this package.
type Shape interface {
	draw(b *Buffer)
}

var (
	_ Shape = Rect{}
	_ Shape = Circle{}
	_ Shape = Triangle{}
	_ Shape = Diamond{}
	_ Shape = Ring{}
)

// Rect is a rounded rectangle; Radius 0 gives square corners.
type Rect struct {
	X, Y, W, H int
	Radius     int
	Color      Color
}

type Circle struct {
	CX, CY, Radius int
	Color          Color
}

type Triangle struct {
	P1, P2, P3 image.Point
	Color      Color
}

type Diamond struct {
	CX, CY, Size int
	Color        Color
}

// Ring is an annulus, optionally clipped by Clip.
type Ring struct {
	CX, CY       int
	Inner, Outer int
	Color        Color
	Clip         Mask
}

func (s Rect) draw(b *Buffer) { DrawRoundedRect(b, s.X, s.Y, s.W, s.H, s.Radius, s.Color) }

func (s Circle) draw(b *Buffer) { DrawCircle(b, s.CX, s.CY, s.Radius, s.Color) }

func (s Triangle) draw(b *Buffer) { DrawTriangle(b, s.P1, s.P2, s.P3, s.Color) }

func (s Diamond) draw(b *Buffer) { DrawDiamond(b, s.CX, s.CY, s.Size, s.Color) }

func (s Ring) draw(b *Buffer) { DrawRing(b, s.CX, s.CY, s.Inner, s.Outer, s.Color, s.Clip) }

// Draw paints shapes in order; later shapes overwrite earlier ones.
func Draw(b *Buffer, shapes ...Shape) {
	for _, s := range shapes {
		s.draw(b)
	}
}
