package tapmap

// NodeKind distinguishes the element variants a VisualNode can describe.
type NodeKind uint8

const (
	KindGroup   NodeKind = iota // generic container/element with no intrinsic geometry
	KindText                    // inline text content
	KindImage                   // embedded image reference
	KindCircle                  // circle with center and radius
	KindEllipse                 // ellipse with center and two radii
	KindPolygon                 // closed polygon from an ordered vertex list
	KindLine                    // line segment with a stroke width
	KindToggle                  // toggle control with a fixed hit zone
)

// String returns the kind's element name as used in serialized markup
// and error messages.
func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindCircle:
		return "circle"
	case KindEllipse:
		return "ellipse"
	case KindPolygon:
		return "polygon"
	case KindLine:
		return "line"
	case KindToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// VisualNode is one element of the input tree handed to the surface each
// content generation. A tree is built once, treated as immutable, and
// superseded wholesale by the next generation — nodes are never mutated in
// place after being passed to a Surface.
//
// Geometry lives in Attrs under conventional names ("x", "y", "width",
// "height", "cx", "cy", "r", "rx", "ry", "x1", "y1", "x2", "y2",
// "strokeWidth"). Polygon vertices live in Points. Everything else a host
// renderer might care about goes in Extra and is passed through to markup
// untouched.
type VisualNode struct {
	Kind NodeKind

	// Attrs holds named numeric attributes: position, size, and
	// shape-specific parameters.
	Attrs map[string]float64

	// Points holds polygon vertices in declaration order.
	Points []Vec2

	// Text is inline content for text-bearing nodes.
	Text string

	// Extra holds pass-through string attributes (class, src, fill, ...).
	Extra map[string]string

	// OnClick, when set, makes the node interactive: the registry builder
	// derives a hit-testable region for it.
	OnClick func(ClickContext)

	children []*VisualNode
}

// newNode allocates a node of the given kind with an empty attribute map.
func newNode(kind NodeKind) *VisualNode {
	return &VisualNode{Kind: kind, Attrs: map[string]float64{}}
}

// NewGroup creates a generic container node. A group needs explicit
// "x"/"y"/"width"/"height" attributes before it may carry a click callback.
func NewGroup() *VisualNode {
	return newNode(KindGroup)
}

// NewBox creates a group node with explicit position and size, the minimum
// an interactive generic element must declare.
func NewBox(x, y, width, height float64) *VisualNode {
	n := newNode(KindGroup)
	n.Attrs["x"] = x
	n.Attrs["y"] = y
	n.Attrs["width"] = width
	n.Attrs["height"] = height
	return n
}

// NewText creates a text node with the given content.
func NewText(text string) *VisualNode {
	n := newNode(KindText)
	n.Text = text
	return n
}

// NewImage creates an image node referencing the given source.
func NewImage(src string) *VisualNode {
	n := newNode(KindImage)
	n.Extra = map[string]string{"src": src}
	return n
}

// NewCircle creates a circle node centered at (cx, cy) with radius r.
func NewCircle(cx, cy, r float64) *VisualNode {
	n := newNode(KindCircle)
	n.Attrs["cx"] = cx
	n.Attrs["cy"] = cy
	n.Attrs["r"] = r
	return n
}

// NewEllipse creates an ellipse node centered at (cx, cy) with radii rx, ry.
func NewEllipse(cx, cy, rx, ry float64) *VisualNode {
	n := newNode(KindEllipse)
	n.Attrs["cx"] = cx
	n.Attrs["cy"] = cy
	n.Attrs["rx"] = rx
	n.Attrs["ry"] = ry
	return n
}

// NewPolygon creates a polygon node from an ordered vertex list.
func NewPolygon(points ...Vec2) *VisualNode {
	n := newNode(KindPolygon)
	n.Points = points
	return n
}

// NewLine creates a line segment node between (x1, y1) and (x2, y2).
func NewLine(x1, y1, x2, y2, strokeWidth float64) *VisualNode {
	n := newNode(KindLine)
	n.Attrs["x1"] = x1
	n.Attrs["y1"] = y1
	n.Attrs["x2"] = x2
	n.Attrs["y2"] = y2
	n.Attrs["strokeWidth"] = strokeWidth
	return n
}

// NewToggle creates a toggle control node anchored at (x, y). Its hit zone
// is always ToggleHitWidth by ToggleHitHeight regardless of rendered size.
func NewToggle(x, y float64) *VisualNode {
	n := newNode(KindToggle)
	n.Attrs["x"] = x
	n.Attrs["y"] = y
	return n
}

// AddChild appends child to the node's ordered child list.
func (n *VisualNode) AddChild(child *VisualNode) {
	if child == nil {
		panic("tapmap: cannot add nil child")
	}
	n.children = append(n.children, child)
}

// Children returns the node's ordered child list. The returned slice is the
// node's own storage; callers must not modify it.
func (n *VisualNode) Children() []*VisualNode {
	return n.children
}

// Attr returns the named numeric attribute and whether it is set.
func (n *VisualNode) Attr(name string) (float64, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// SetAttr sets a named numeric attribute, allocating the map if needed.
func (n *VisualNode) SetAttr(name string, v float64) {
	if n.Attrs == nil {
		n.Attrs = map[string]float64{}
	}
	n.Attrs[name] = v
}

// attrOr returns the attribute value, or def when unset.
func (n *VisualNode) attrOr(name string, def float64) float64 {
	if v, ok := n.Attrs[name]; ok {
		return v
	}
	return def
}
