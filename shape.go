package tapmap

import "math"

// ShapeKind enumerates the hit-test geometry variants a region can carry.
type ShapeKind uint8

const (
	ShapeBounds  ShapeKind = iota // axis-aligned box from explicit position and size
	ShapeCircle                   // center plus radius
	ShapeEllipse                  // center plus two radii
	ShapePolygon                  // arbitrary closed polygon, ray-cast
	ShapeSegment                  // stroke-width band around a line
	ShapeToggle                   // fixed-size control hit zone
)

// Geometry holds the numeric parameters for one region's hit test, with the
// owning sibling's stacking offset already applied to every y-coordinate.
// Only the fields for the region's ShapeKind are meaningful. The host embed
// margin is NOT baked in; each contains function applies ContentMargin
// itself so the quirks per shape stay visible in one place.
type Geometry struct {
	// Bounds and Toggle
	X, Y, Width, Height float64

	// Circle and Ellipse
	CX, CY float64
	R      float64 // circle radius
	RX, RY float64 // ellipse radii

	// Polygon
	Points []Vec2

	// Segment
	X1, Y1, X2, Y2 float64
	Stroke         float64
}

// --- Per-kind contains functions ---

// Hit tests are total over the coordinate domain: degenerate geometry that
// produces non-finite intermediates reports "no hit" instead of failing.

// boundsContains shifts the box by the embed margin. The right edge loses
// the margin like the left, but the bottom edge keeps the full declared
// height — that asymmetry matches how the host crops embedded content.
func boundsContains(g Geometry, x, y float64) bool {
	return x > g.X+ContentMargin && x < g.X+g.Width-ContentMargin &&
		y > g.Y+ContentMargin && y < g.Y+g.Height
}

// circleContains tests strict Euclidean distance to the margin-shifted center.
func circleContains(g Geometry, x, y float64) bool {
	dx := x - (g.CX + ContentMargin)
	dy := y - (g.CY + ContentMargin)
	d := math.Sqrt(dx*dx + dy*dy)
	return isFinite(d) && d < g.R
}

// ellipseContains tests the normalized ellipse equation, strictly inside.
func ellipseContains(g Geometry, x, y float64) bool {
	nx := (x - g.CX - ContentMargin) / g.RX
	ny := (y - g.CY - ContentMargin) / g.RY
	v := nx*nx + ny*ny
	return isFinite(v) && v < 1
}

// polygonRayCasts counts full ray-casting runs. Plain counter, no atomic —
// hit testing runs on the dispatch sequence only. Tests read it to verify
// the bounding-box short-circuit skips the ray cast entirely.
var polygonRayCasts int

// polygonContains ray-casts against the polygon after a bounding-box
// rejection pass. The query point is shifted by -ContentMargin instead of
// shifting every vertex by +ContentMargin; the two are equivalent.
func polygonContains(g Geometry, x, y float64) bool {
	pts := g.Points
	if len(pts) < 3 {
		return false
	}
	qx := x - ContentMargin
	qy := y - ContentMargin
	bb := polygonBounds(pts)
	if !bb.Contains(qx, qy) {
		return false
	}
	polygonRayCasts++
	return rayCrossings(pts, bb, qx, qy)%2 == 1
}

// polygonBounds returns the axis-aligned bounding box of the vertex list.
func polygonBounds(pts []Vec2) Rect {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// rayCrossings counts how many polygon edges the ray from a reference point
// above the polygon to the query point crosses. Odd means inside.
func rayCrossings(pts []Vec2, bb Rect, qx, qy float64) int {
	// The reference point sits above the bounding box, nudged half a unit
	// off the first vertex so the ray does not run along a vertical edge.
	rx := pts[0].X + 0.5
	ry := bb.Y - 1
	count := 0
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		if segmentsCross(rx, ry, qx, qy, a.X, a.Y, b.X, b.Y, bb) {
			count++
		}
	}
	return count
}

// segmentsCross intersects the ray segment (x1,y1)-(x2,y2) and one polygon
// edge (x3,y3)-(x4,y4) as parametric lines, keeping only intersection points
// that fall within both segments' coordinate ranges and the polygon's
// bounding box. Parallel lines and non-finite results count as no crossing.
func segmentsCross(x1, y1, x2, y2, x3, y3, x4, y4 float64, bb Rect) bool {
	d1x, d1y := x2-x1, y2-y1
	d2x, d2y := x4-x3, y4-y3
	denom := d1x*d2y - d1y*d2x
	if denom == 0 {
		return false
	}
	t := ((x3-x1)*d2y - (y3-y1)*d2x) / denom
	ix := x1 + t*d1x
	iy := y1 + t*d1y
	if !isFinite(ix) || !isFinite(iy) {
		return false
	}
	return within(ix, x1, x2) && within(iy, y1, y2) &&
		within(ix, x3, x4) && within(iy, y3, y4) &&
		ix >= bb.X && ix <= bb.X+bb.Width &&
		iy >= bb.Y-1 && iy <= bb.Y+bb.Height
}

// segmentContains tests the vertical distance to the infinite line through
// the margin-shifted endpoints: |y - (m·x + b)| < strokeWidth.
//
// The test is intentionally not clipped to the segment's finite extent, so
// clicks slightly past an endpoint still land on thin strokes. Vertical
// segments have an undefined slope and report no hit.
func segmentContains(g Geometry, x, y float64) bool {
	x1, y1 := g.X1+ContentMargin, g.Y1+ContentMargin
	x2, y2 := g.X2+ContentMargin, g.Y2+ContentMargin
	m := (y2 - y1) / (x2 - x1)
	b := y1 - m*x1
	d := math.Abs(y - (m*x + b))
	return isFinite(d) && d < g.Stroke
}

// toggleContains tests the fixed ToggleHitWidth by ToggleHitHeight box
// anchored at the margin-shifted declared position.
func toggleContains(g Geometry, x, y float64) bool {
	left := g.X + ContentMargin
	top := g.Y + ContentMargin
	return x >= left && x <= left+ToggleHitWidth &&
		y >= top && y <= top+ToggleHitHeight
}

// within reports whether v lies in the closed range spanned by a and b.
func within(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
