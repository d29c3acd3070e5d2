package model

import (
	"whiteboard-backend/internal/geometry"
)

// StickyNote is a colored note with editable text.
type StickyNote struct {
	containable
	Text   string      `json:"content"`
	Scheme ColorScheme `json:"colors"`
}

// NewStickyNote creates a note at pos with the given content and colors.
func NewStickyNote(pos geometry.Position, size geometry.Size, content string, colors ColorScheme) *StickyNote {
	return &StickyNote{
		containable: containable{base: newBase(pos, size)},
		Text:        content,
		Scheme:      colors,
	}
}

func (n *StickyNote) ObjectType() ObjectType  { return TypeStickyNote }
func (n *StickyNote) Content() string         { return n.Text }
func (n *StickyNote) SetContent(text string)  { n.Text = text }
func (n *StickyNote) Colors() ColorScheme     { return n.Scheme }
func (n *StickyNote) SetColors(c ColorScheme) { n.Scheme = c }

func (n *StickyNote) Clone() Object {
	clone := *n
	return &clone
}

// ShapeKind enumerates the supported shape geometries.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeDiamond   ShapeKind = "diamond"
)

// Shape is a geometric figure with an optional text label.
type Shape struct {
	containable
	Kind   ShapeKind   `json:"kind"`
	Label  string      `json:"content,omitempty"`
	Scheme ColorScheme `json:"colors"`
}

func NewShape(pos geometry.Position, size geometry.Size, kind ShapeKind, colors ColorScheme) *Shape {
	return &Shape{
		containable: containable{base: newBase(pos, size)},
		Kind:        kind,
		Scheme:      colors,
	}
}

func (s *Shape) ObjectType() ObjectType  { return TypeShape }
func (s *Shape) Content() string         { return s.Label }
func (s *Shape) SetContent(text string)  { s.Label = text }
func (s *Shape) Colors() ColorScheme     { return s.Scheme }
func (s *Shape) SetColors(c ColorScheme) { s.Scheme = c }

func (s *Shape) Clone() Object {
	clone := *s
	return &clone
}

// TextBlock is free-standing text on the canvas.
type TextBlock struct {
	containable
	Text     string      `json:"content"`
	FontSize float64     `json:"fontSize"`
	Scheme   ColorScheme `json:"colors"`
}

func NewTextBlock(pos geometry.Position, size geometry.Size, content string, fontSize float64) *TextBlock {
	return &TextBlock{
		containable: containable{base: newBase(pos, size)},
		Text:        content,
		FontSize:    fontSize,
	}
}

func (t *TextBlock) ObjectType() ObjectType  { return TypeText }
func (t *TextBlock) Content() string         { return t.Text }
func (t *TextBlock) SetContent(text string)  { t.Text = text }
func (t *TextBlock) Colors() ColorScheme     { return t.Scheme }
func (t *TextBlock) SetColors(c ColorScheme) { t.Scheme = c }

func (t *TextBlock) Clone() Object {
	clone := *t
	return &clone
}

// Connector links two objects by id. Endpoints are resolved by the rendering
// layer; the engine only tracks the ids and routed waypoints.
type Connector struct {
	containable
	FromID string              `json:"fromId"`
	ToID   string              `json:"toId"`
	Points []geometry.Position `json:"points,omitempty"`
	Scheme ColorScheme         `json:"colors"`
}

func NewConnector(fromID, toID string) *Connector {
	return &Connector{
		containable: containable{base: newBase(geometry.Position{}, geometry.Size{})},
		FromID:      fromID,
		ToID:        toID,
	}
}

func (c *Connector) ObjectType() ObjectType   { return TypeConnector }
func (c *Connector) Colors() ColorScheme      { return c.Scheme }
func (c *Connector) SetColors(cs ColorScheme) { c.Scheme = cs }

func (c *Connector) Clone() Object {
	clone := *c
	clone.Points = append([]geometry.Position(nil), c.Points...)
	return &clone
}
