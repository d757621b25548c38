package quadtree

import (
	"fmt"
	"math"

	"github.com/IvanBrykalov/lodcache/internal/util"
)

// AABB is an axis aligned box in pixels. Min is inclusive, Max exclusive.
type AABB struct {
	MinX, MinY int64
	MaxX, MaxY int64
}

// Contains reports whether (x, y) lies inside the half-open box.
func (b AABB) Contains(x, y float64) bool {
	px, okx := pixel(x)
	py, oky := pixel(y)
	return okx && oky && b.containsPixel(px, py)
}

func (b AABB) containsPixel(px, py int64) bool {
	return px >= b.MinX && px < b.MaxX && py >= b.MinY && py < b.MaxY
}

// pixelLimit bounds every coordinate a tree can cover (see util.MaxLevel).
const pixelLimit = 1 << 62

// pixel returns the integer pixel holding v. Box corners are integers, so v
// lies in [a,b) exactly when floor(v) does, and int64 comparisons stay exact
// where float64 no longer represents every corner (beyond 2^53).
func pixel(v float64) (int64, bool) {
	if !(v >= -pixelLimit && v < pixelLimit) {
		return 0, false
	}
	return int64(math.Floor(v)), true
}

// IntersectsCircle reports whether the circle around (cx, cy) with radius r
// overlaps the box, using the closest point of the box to the center.
func (b AABB) IntersectsCircle(cx, cy, r float64) bool {
	px := clamp(cx, float64(b.MinX), float64(b.MaxX))
	py := clamp(cy, float64(b.MinY), float64(b.MaxY))
	dx, dy := cx-px, cy-py
	return dx*dx+dy*dy < r*r
}

func (b AABB) String() string {
	return fmt.Sprintf("[%d,%d]x[%d,%d]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scale returns the number of leaves along one side of n (2^level).
func (t *Tree[V]) Scale(n *Node[V]) int64 { return int64(1) << uint(n.level) }

// Span returns the side length of n in pixels (LeafSize * 2^level).
func (t *Tree[V]) Span(n *Node[V]) int64 { return util.Span(t.leafSize, n.level) }

// NodeAABB returns the pixel box covered by n.
func (t *Tree[V]) NodeAABB(n *Node[V]) AABB {
	span := t.Span(n)
	minX, minY := n.x*t.leafSize, n.y*t.leafSize
	return AABB{MinX: minX, MinY: minY, MaxX: minX + span, MaxY: minY + span}
}

// NodeContainsPoint reports whether the pixel (x, y) falls inside n.
func (t *Tree[V]) NodeContainsPoint(n *Node[V], x, y float64) bool {
	return t.NodeAABB(n).Contains(x, y)
}

// ContainsPoint reports whether the tree currently covers the pixel (x, y).
func (t *Tree[V]) ContainsPoint(x, y float64) bool {
	t.mustLive()
	return t.NodeContainsPoint(t.root, x, y)
}

// ContainingChildIndex returns the quadrant of n holding (x, y).
// The point must lie inside n.
func (t *Tree[V]) ContainingChildIndex(n *Node[V], x, y float64) int {
	px, okx := pixel(x)
	py, oky := pixel(y)
	if !okx || !oky {
		panic(fmt.Sprintf("quadtree: point (%g,%g) outside node %s", x, y, t.NodeAABB(n)))
	}
	return t.childIndex(n, px, py)
}

func (t *Tree[V]) childIndex(n *Node[V], px, py int64) int {
	box := t.NodeAABB(n)
	if !box.containsPixel(px, py) {
		panic(fmt.Sprintf("quadtree: pixel (%d,%d) outside node %s", px, py, box))
	}
	half := t.Span(n) / 2
	i := 0
	if px >= box.MinX+half {
		i |= 1
	}
	if py >= box.MinY+half {
		i |= 2
	}
	return i
}

// point converts a pixel position to integer pixels. Values no tree can
// cover, NaN and infinities included, panic.
func (t *Tree[V]) point(x, y float64) (int64, int64) {
	px, okx := pixel(x)
	py, oky := pixel(y)
	if !okx || !oky {
		panic(fmt.Sprintf("quadtree: cannot expand to (%g,%g)", x, y))
	}
	return px, py
}
