// Package model defines the board object types placed on the canvas and the
// rows used to persist board state.
package model

import (
	"github.com/google/uuid"

	"whiteboard-backend/internal/container"
	"whiteboard-backend/internal/geometry"
)

// ObjectType tags the concrete kind of a board object.
type ObjectType string

const (
	TypeStickyNote ObjectType = "sticky_note"
	TypeShape      ObjectType = "shape"
	TypeText       ObjectType = "text"
	TypeConnector  ObjectType = "connector"
	TypeFrame      ObjectType = "frame"
)

// ColorScheme groups the paintable fields of an object.
type ColorScheme struct {
	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`
	Text   string `json:"text"`
}

// Object is the behavior shared by everything placed on a board.
type Object interface {
	ObjectID() string
	ObjectType() ObjectType
	Position() geometry.Position
	SetPosition(p geometry.Position)
	Size() geometry.Size
	SetSize(s geometry.Size)
	Rotation() float64
	SetRotation(deg float64)
	ZIndex() int
	SetZIndex(z int)
	Bounds() geometry.BoundingBox
	// Clone returns a deep copy carrying the same id, so a deleted object can
	// be restored with its identity intact.
	Clone() Object
}

// ContentHolder is implemented by objects with editable text content.
type ContentHolder interface {
	Content() string
	SetContent(text string)
}

// Colorable is implemented by objects with a mutable color scheme.
type Colorable interface {
	Colors() ColorScheme
	SetColors(c ColorScheme)
}

// base carries the attributes every board object has.
type base struct {
	ID  string            `json:"id"`
	Pos geometry.Position `json:"position"`
	Dim geometry.Size     `json:"size"`
	Rot float64           `json:"rotation"`
	Z   int               `json:"zIndex"`
}

func newBase(pos geometry.Position, size geometry.Size) base {
	return base{ID: uuid.NewString(), Pos: pos, Dim: size}
}

func (b *base) ObjectID() string                { return b.ID }
func (b *base) Position() geometry.Position     { return b.Pos }
func (b *base) SetPosition(p geometry.Position) { b.Pos = p }
func (b *base) Size() geometry.Size             { return b.Dim }
func (b *base) SetSize(s geometry.Size)         { b.Dim = s }
func (b *base) Rotation() float64               { return b.Rot }
func (b *base) SetRotation(deg float64)         { b.Rot = deg }
func (b *base) ZIndex() int                     { return b.Z }
func (b *base) SetZIndex(z int)                 { b.Z = z }
func (b *base) setID(id string)                 { b.ID = id }

func (b *base) Bounds() geometry.BoundingBox {
	return geometry.BoundingBox{X: b.Pos.X, Y: b.Pos.Y, Width: b.Dim.Width, Height: b.Dim.Height}
}

// containable extends base with the weak back-reference to a parent frame.
type containable struct {
	base
	ContainerID string            `json:"containerId,omitempty"`
	RelPos      geometry.Position `json:"relativePosition"`
	HasRelPos   bool              `json:"hasRelativePosition,omitempty"`
}

func (c *containable) ContainableID() string   { return c.ID }
func (c *containable) ParentContainer() string { return c.ContainerID }

func (c *containable) SetParentContainer(id string) {
	c.ContainerID = id
	if id == "" {
		c.RelPos = geometry.Position{}
		c.HasRelPos = false
	}
}

func (c *containable) RelativePosition() (geometry.Position, bool) {
	return c.RelPos, c.HasRelPos
}

func (c *containable) SetRelativePosition(p geometry.Position) {
	c.RelPos = p
	c.HasRelPos = true
}

// CloneOffset returns a deep copy of o with a fresh id, translated by
// (dx, dy) and detached from any container. Used to pre-compute duplicates.
func CloneOffset(o Object, dx, dy float64) Object {
	c := o.Clone()
	c.(interface{ setID(id string) }).setID(uuid.NewString())
	c.SetPosition(c.Position().Add(geometry.Position{X: dx, Y: dy}))
	if cb, ok := c.(container.Containable); ok {
		cb.SetParentContainer("")
	}
	if f, ok := c.(*Frame); ok {
		// a duplicated frame starts empty; the children stay with the original
		f.Children = nil
	}
	return c
}
