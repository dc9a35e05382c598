package tapmap

// Vec2 is a 2D point used for polygon vertices and click coordinates.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Layout constants tied to the host's image embedding. The host container
// pads the generated raster by a constant margin on every side, so every hit
// test shifts its geometry by the same amount. Changing the host's embed
// padding means changing ContentMargin here, nowhere else.
const (
	// ContentMargin is the padding the host adds around embedded content.
	ContentMargin = 15

	// ToggleHitWidth and ToggleHitHeight define the fixed hit zone of a
	// toggle control, independent of its rendered size.
	ToggleHitWidth  = 100
	ToggleHitHeight = 20
)

// ClickContext carries the data handed to a node's click callback.
type ClickContext struct {
	// Node is the visual node whose region consumed the click.
	Node *VisualNode
	// X, Y is the absolute screen coordinate the observer reported.
	X, Y int
}
