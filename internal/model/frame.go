package model

import (
	"slices"

	"whiteboard-backend/internal/container"
	"whiteboard-backend/internal/geometry"
)

// SnapBehavior controls how children align inside a frame.
type SnapBehavior string

const (
	SnapNone SnapBehavior = "none"
	SnapGrid SnapBehavior = "grid"
)

// Padding is the inset between a frame's bounds and its content area.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultTitleBarHeight is the height reserved for a frame's title bar.
const DefaultTitleBarHeight = 32

// DefaultPadding is applied to new frames on all four sides.
var DefaultPadding = Padding{Top: 8, Right: 8, Bottom: 8, Left: 8}

// Frame is a container object: it owns an ordered list of child ids and
// tests geometric containment against its content area. Frames themselves
// never nest inside other frames.
type Frame struct {
	base
	Title          string       `json:"title"`
	TitleBarHeight float64      `json:"titleBarHeight"`
	Pad            Padding      `json:"padding"`
	Locked         bool         `json:"locked"`
	Snap           SnapBehavior `json:"snapBehavior"`
	Children       []string     `json:"childIds"`
}

// NewFrame creates an unlocked frame with the default title bar and padding.
func NewFrame(pos geometry.Position, size geometry.Size, title string) *Frame {
	return &Frame{
		base:           newBase(pos, size),
		Title:          title,
		TitleBarHeight: DefaultTitleBarHeight,
		Pad:            DefaultPadding,
		Snap:           SnapNone,
	}
}

func (f *Frame) ObjectType() ObjectType { return TypeFrame }

func (f *Frame) Clone() Object {
	clone := *f
	clone.Children = append([]string(nil), f.Children...)
	return &clone
}

// ContainerID implements container.Container.
func (f *Frame) ContainerID() string { return f.ID }

// AcceptsChildren is false while the frame is locked.
func (f *Frame) AcceptsChildren() bool { return !f.Locked }

// ContentBounds is the frame's bounds minus title bar and padding; children
// are positioned relative to its origin.
func (f *Frame) ContentBounds() geometry.BoundingBox {
	b := f.Bounds()
	return geometry.BoundingBox{
		X:      b.X + f.Pad.Left,
		Y:      b.Y + f.TitleBarHeight + f.Pad.Top,
		Width:  b.Width - f.Pad.Left - f.Pad.Right,
		Height: b.Height - f.TitleBarHeight - f.Pad.Top - f.Pad.Bottom,
	}
}

// ChildIDs returns a copy of the ordered child id list.
func (f *Frame) ChildIDs() []string {
	return append([]string(nil), f.Children...)
}

// AddChildID appends id, refusing duplicates.
func (f *Frame) AddChildID(id string) bool {
	if slices.Contains(f.Children, id) {
		return false
	}
	f.Children = append(f.Children, id)
	return true
}

// RemoveChildID removes id from the child list, false if absent.
func (f *Frame) RemoveChildID(id string) bool {
	i := slices.Index(f.Children, id)
	if i < 0 {
		return false
	}
	f.Children = slices.Delete(f.Children, i, i+1)
	return true
}

// CheckContainment tests objectBounds against the frame. Full containment is
// measured against the content bounds; overlap against the outer bounds.
func (f *Frame) CheckContainment(objectBounds geometry.BoundingBox) container.ContainmentResult {
	res := container.ContainmentResult{}
	area := objectBounds.Area()
	if area == 0 {
		return res
	}
	intersection := f.Bounds().IntersectionArea(objectBounds)
	res.OverlapPercentage = intersection / area
	res.IsOverlapping = intersection > 0
	res.IsContained = f.ContentBounds().ContainsBox(objectBounds)
	return res
}
