package raster

import "image"

// Mask reports whether a point belongs to a region.
type Mask func(x, y int) bool

// RoundedRectMask reports whether (x, y), relative to a w×h rectangle, lies inside
// the rectangle with corners rounded by radius r.
func RoundedRectMask(x, y, w, h, r int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	if (r <= x && x < w-r) || (r <= y && y < h-r) {
		return true
	}
	cx := w - r - 1
	if x < r {
		cx = r
	}
	cy := h - r - 1
	if y < r {
		cy = r
	}
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy <= r*r
}

// RoundedRect returns a Mask for a w×h rounded rectangle whose top-left corner is (x0, y0).
func RoundedRect(x0, y0, w, h, r int) Mask {
	return func(x, y int) bool {
		return RoundedRectMask(x-x0, y-y0, w, h, r)
	}
}

// DrawRoundedRect fills a w×h rectangle at (x0, y0) with corner radius r.
func DrawRoundedRect(b *Buffer, x0, y0, w, h, r int, c Color) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			if RoundedRectMask(x-x0, y-y0, w, h, r) {
				b.SetPixel(x, y, c)
			}
		}
	}
}

// DrawCircle fills every pixel whose squared distance from (cx, cy) is at most radius².
func DrawCircle(b *Buffer, cx, cy, radius int, c Color) {
	r2 := radius * radius
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= r2 {
				b.SetPixel(x, y, c)
			}
		}
	}
}

// DrawDiamond fills every pixel within Manhattan distance size of (cx, cy).
func DrawDiamond(b *Buffer, cx, cy, size int, c Color) {
	for y := cy - size; y <= cy+size; y++ {
		for x := cx - size; x <= cx+size; x++ {
			if abs(x-cx)+abs(y-cy) <= size {
				b.SetPixel(x, y, c)
			}
		}
	}
}

// DrawRing fills the annulus inner² <= d² <= outer² around (cx, cy).
// A nil clip accepts every pixel.
func DrawRing(b *Buffer, cx, cy, inner, outer int, c Color, clip Mask) {
	in2 := inner * inner
	out2 := outer * outer
	for y := cy - outer; y <= cy+outer; y++ {
		for x := cx - outer; x <= cx+outer; x++ {
			if clip != nil && !clip(x, y) {
				continue
			}
			dx := x - cx
			dy := y - cy
			d2 := dx*dx + dy*dy
			if in2 <= d2 && d2 <= out2 {
				b.SetPixel(x, y, c)
			}
		}
	}
}

// DrawTriangle fills the triangle p1, p2, p3 using an edge sign test over its
// bounding box clamped to the buffer. No anti-aliasing.
func DrawTriangle(b *Buffer, p1, p2, p3 image.Point, c Color) {
	minX := max(min(p1.X, p2.X, p3.X), 0)
	maxX := min(max(p1.X, p2.X, p3.X), b.Width-1)
	minY := max(min(p1.Y, p2.Y, p3.Y), 0)
	maxY := min(max(p1.Y, p2.Y, p3.Y), b.Height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := image.Pt(x, y)
			if InTriangle(p, p1, p2, p3) {
				b.SetPixel(x, y, c)
			}
		}
	}
}

// InTriangle reports whether the cross-product signs of p against the edges
// p1→p2, p2→p3 and p3→p1 all agree.
func InTriangle(p, p1, p2, p3 image.Point) bool {
	b1 := edgeSign(p, p1, p2) < 0
	b2 := edgeSign(p, p2, p3) < 0
	b3 := edgeSign(p, p3, p1) < 0
	return b1 == b2 && b2 == b3
}

func edgeSign(p, a, b image.Point) int {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
