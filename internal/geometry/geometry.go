package geometry

// Position is a point in board coordinates (canvas content space, never screen pixels).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the offset from o to p.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// IsZero reports whether p is the zero offset.
func (p Position) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Size is the extent of a board object.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoundingBox is an axis-aligned rectangle in board coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the box area. Degenerate boxes have area 0.
func (b BoundingBox) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// ContainsPoint reports whether p lies inside the box (edges inclusive).
func (b BoundingBox) ContainsPoint(p Position) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// ContainsBox reports whether o lies entirely inside b (edges inclusive).
func (b BoundingBox) ContainsBox(o BoundingBox) bool {
	return o.X >= b.X && o.Y >= b.Y &&
		o.X+o.Width <= b.X+b.Width &&
		o.Y+o.Height <= b.Y+b.Height
}

// Intersection returns the overlapping region of b and o. The second return
// value is false when the boxes are disjoint.
func (b BoundingBox) Intersection(o BoundingBox) (BoundingBox, bool) {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return BoundingBox{}, false
	}
	return BoundingBox{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// IntersectionArea returns the area shared by b and o, 0 when disjoint.
func (b BoundingBox) IntersectionArea(o BoundingBox) float64 {
	overlap, ok := b.Intersection(o)
	if !ok {
		return 0
	}
	return overlap.Area()
}

// Translate returns the box shifted by (dx, dy).
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	return BoundingBox{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// Origin returns the top-left corner of the box.
func (b BoundingBox) Origin() Position {
	return Position{X: b.X, Y: b.Y}
}
