package tapmap

import (
	"fmt"
	"strings"
)

// Region is a flattened, hit-testable record derived from one interactive
// visual node. Regions are owned by their Registry and live for exactly one
// content generation.
type Region struct {
	Kind     ShapeKind
	Geom     Geometry
	Callback func(ClickContext)

	node *VisualNode
}

// Contains dispatches to the hit test for the region's shape kind.
func (r *Region) Contains(x, y float64) bool {
	switch r.Kind {
	case ShapeBounds:
		return boundsContains(r.Geom, x, y)
	case ShapeCircle:
		return circleContains(r.Geom, x, y)
	case ShapeEllipse:
		return ellipseContains(r.Geom, x, y)
	case ShapePolygon:
		return polygonContains(r.Geom, x, y)
	case ShapeSegment:
		return segmentContains(r.Geom, x, y)
	case ShapeToggle:
		return toggleContains(r.Geom, x, y)
	default:
		return false
	}
}

// Registry is an ordered sequence of regions. Order is depth-first
// declaration order, which doubles as dispatch priority: when regions
// overlap, the earliest declared one wins. A registry is immutable once
// built; content changes replace it wholesale.
type Registry struct {
	regions []Region
}

// Len returns the number of regions in the registry.
func (reg *Registry) Len() int {
	return len(reg.regions)
}

// HitTest scans regions in declaration order and returns the first one
// containing (x, y), or nil when nothing matches.
func (reg *Registry) HitTest(x, y float64) *Region {
	for i := range reg.regions {
		if reg.regions[i].Contains(x, y) {
			return &reg.regions[i]
		}
	}
	return nil
}

// MissingGeometryError reports an interactive node with no resolvable
// hit-test geometry. It is raised while the registry is being built, not at
// dispatch time: a tree that declares a callback without geometry is a
// structural defect, and the previous registry stays authoritative until
// the tree is fixed.
type MissingGeometryError struct {
	Kind    NodeKind
	Missing []string
}

func (e *MissingGeometryError) Error() string {
	return fmt.Sprintf("interactive %s node missing %s",
		e.Kind, strings.Join(e.Missing, ", "))
}

// BuildRegistry flattens a visual tree into an ordered registry of
// hit-testable regions.
//
// Top-level siblings stack vertically: each occupies a band equal to its
// declared height (0 when unset), and every interactive descendant's
// y-coordinate is translated by the combined height of the bands above it.
// The returned registry is complete or nil — a geometry error aborts the
// whole build so a dispatcher can never observe a partially built registry.
func BuildRegistry(roots []*VisualNode) (*Registry, error) {
	reg := &Registry{}
	offset := 0.0
	for _, root := range roots {
		if err := collectRegions(root, offset, reg); err != nil {
			return nil, err
		}
		offset += root.attrOr("height", 0)
	}
	return reg, nil
}

// collectRegions appends a region for n if it carries a callback, then
// recurses into its children in declaration order.
func collectRegions(n *VisualNode, offset float64, reg *Registry) error {
	if n.OnClick != nil {
		r, err := makeRegion(n, offset)
		if err != nil {
			return err
		}
		reg.regions = append(reg.regions, r)
	}
	for _, child := range n.children {
		if err := collectRegions(child, offset, reg); err != nil {
			return err
		}
	}
	return nil
}

// makeRegion derives hit-test geometry for one interactive node, applying
// the stacking offset to every y-coordinate. Shape kinds with
// self-describing geometry use their own parameters; anything else must
// declare explicit position and size.
func makeRegion(n *VisualNode, offset float64) (Region, error) {
	r := Region{Callback: n.OnClick, node: n}
	switch n.Kind {
	case KindCircle:
		r.Kind = ShapeCircle
		r.Geom = Geometry{
			CX: n.attrOr("cx", 0),
			CY: n.attrOr("cy", 0) + offset,
			R:  n.attrOr("r", 0),
		}
	case KindEllipse:
		r.Kind = ShapeEllipse
		r.Geom = Geometry{
			CX: n.attrOr("cx", 0),
			CY: n.attrOr("cy", 0) + offset,
			RX: n.attrOr("rx", 0),
			RY: n.attrOr("ry", 0),
		}
	case KindPolygon:
		pts := make([]Vec2, len(n.Points))
		for i, p := range n.Points {
			pts[i] = Vec2{X: p.X, Y: p.Y + offset}
		}
		r.Kind = ShapePolygon
		r.Geom = Geometry{Points: pts}
	case KindLine:
		r.Kind = ShapeSegment
		r.Geom = Geometry{
			X1:     n.attrOr("x1", 0),
			Y1:     n.attrOr("y1", 0) + offset,
			X2:     n.attrOr("x2", 0),
			Y2:     n.attrOr("y2", 0) + offset,
			Stroke: n.attrOr("strokeWidth", 1),
		}
	case KindToggle:
		r.Kind = ShapeToggle
		r.Geom = Geometry{
			X: n.attrOr("x", 0),
			Y: n.attrOr("y", 0) + offset,
		}
	default:
		var missing []string
		for _, name := range [...]string{"x", "y", "width", "height"} {
			if _, ok := n.Attr(name); !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return Region{}, &MissingGeometryError{Kind: n.Kind, Missing: missing}
		}
		r.Kind = ShapeBounds
		r.Geom = Geometry{
			X:      n.attrOr("x", 0),
			Y:      n.attrOr("y", 0) + offset,
			Width:  n.attrOr("width", 0),
			Height: n.attrOr("height", 0),
		}
	}
	return r, nil
}
