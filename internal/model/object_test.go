package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard-backend/internal/geometry"
)

func TestStickyNoteClone(t *testing.T) {
	note := NewStickyNote(
		geometry.Position{X: 10, Y: 20},
		geometry.Size{Width: 200, Height: 150},
		"hello",
		ColorScheme{Fill: "#ffeb3b", Stroke: "#fbc02d", Text: "#212121"},
	)
	note.SetZIndex(3)

	clone := note.Clone().(*StickyNote)
	assert.Equal(t, note.ObjectID(), clone.ObjectID())
	assert.Equal(t, "hello", clone.Content())

	clone.SetContent("changed")
	clone.SetPosition(geometry.Position{X: 99, Y: 99})
	assert.Equal(t, "hello", note.Content(), "clones are independent")
	assert.Equal(t, geometry.Position{X: 10, Y: 20}, note.Position())
}

func TestConnectorCloneDeepCopiesPoints(t *testing.T) {
	c := NewConnector("from-1", "to-1")
	c.Points = []geometry.Position{{X: 1, Y: 1}, {X: 2, Y: 2}}

	clone := c.Clone().(*Connector)
	clone.Points[0] = geometry.Position{X: 100, Y: 100}
	assert.Equal(t, geometry.Position{X: 1, Y: 1}, c.Points[0])
}

func TestCloneOffset(t *testing.T) {
	note := NewStickyNote(geometry.Position{X: 10, Y: 20}, geometry.Size{Width: 200, Height: 150}, "hello", ColorScheme{})
	note.SetParentContainer("frame-1")
	note.SetRelativePosition(geometry.Position{X: 5, Y: 5})

	dup := CloneOffset(note, 16, 16)
	assert.NotEqual(t, note.ObjectID(), dup.ObjectID(), "duplicates get a fresh id")
	assert.Equal(t, geometry.Position{X: 26, Y: 36}, dup.Position())

	dupNote := dup.(*StickyNote)
	assert.Equal(t, "", dupNote.ParentContainer(), "duplicates start detached")
	_, hasRel := dupNote.RelativePosition()
	assert.False(t, hasRel)
	assert.Equal(t, "frame-1", note.ParentContainer(), "the source keeps its parent")
}

func TestCloneOffsetFrameStartsEmpty(t *testing.T) {
	frame := NewFrame(geometry.Position{X: 100, Y: 100}, geometry.Size{Width: 400, Height: 300}, "Sprint board")
	frame.AddChildID("note-1")
	frame.AddChildID("note-2")

	dup := CloneOffset(frame, 16, 16).(*Frame)
	assert.NotEqual(t, frame.ObjectID(), dup.ObjectID())
	assert.Empty(t, dup.ChildIDs(), "a duplicated frame does not claim the source's children")
	assert.Equal(t, []string{"note-1", "note-2"}, frame.ChildIDs(), "the source keeps its children")
}

func TestContainableDetachClearsRelativePosition(t *testing.T) {
	note := NewStickyNote(geometry.Position{X: 10, Y: 20}, geometry.Size{Width: 100, Height: 100}, "", ColorScheme{})

	_, ok := note.RelativePosition()
	assert.False(t, ok)

	note.SetParentContainer("frame-1")
	note.SetRelativePosition(geometry.Position{X: 4, Y: 8})
	rel, ok := note.RelativePosition()
	require.True(t, ok)
	assert.Equal(t, geometry.Position{X: 4, Y: 8}, rel)

	note.SetParentContainer("")
	_, ok = note.RelativePosition()
	assert.False(t, ok)
}

func TestBounds(t *testing.T) {
	shape := NewShape(geometry.Position{X: 10, Y: 20}, geometry.Size{Width: 30, Height: 40}, ShapeEllipse, ColorScheme{})
	assert.Equal(t, geometry.BoundingBox{X: 10, Y: 20, Width: 30, Height: 40}, shape.Bounds())
}

func TestCodecRoundTrip(t *testing.T) {
	frame := NewFrame(geometry.Position{X: 100, Y: 100}, geometry.Size{Width: 400, Height: 300}, "Sprint board")
	note := NewStickyNote(geometry.Position{X: 150, Y: 160}, geometry.Size{Width: 100, Height: 80}, "todo", ColorScheme{Fill: "#ffeb3b"})
	note.SetParentContainer(frame.ObjectID())
	note.SetRelativePosition(geometry.Position{X: 42, Y: 20})
	frame.AddChildID(note.ObjectID())
	conn := NewConnector(note.ObjectID(), frame.ObjectID())
	conn.Points = []geometry.Position{{X: 1, Y: 2}}

	data, err := MarshalObjects([]Object{frame, note, conn})
	require.NoError(t, err)

	restored, err := UnmarshalObjects(data)
	require.NoError(t, err)
	require.Len(t, restored, 3)

	rf, ok := restored[0].(*Frame)
	require.True(t, ok)
	assert.Equal(t, frame.ObjectID(), rf.ObjectID())
	assert.Equal(t, "Sprint board", rf.Title)
	assert.Equal(t, []string{note.ObjectID()}, rf.ChildIDs(), "membership survives the round trip")

	rn, ok := restored[1].(*StickyNote)
	require.True(t, ok)
	assert.Equal(t, "todo", rn.Content())
	assert.Equal(t, frame.ObjectID(), rn.ParentContainer())
	rel, hasRel := rn.RelativePosition()
	require.True(t, hasRel)
	assert.Equal(t, geometry.Position{X: 42, Y: 20}, rel)

	rc, ok := restored[2].(*Connector)
	require.True(t, ok)
	assert.Equal(t, note.ObjectID(), rc.FromID)
	assert.Equal(t, []geometry.Position{{X: 1, Y: 2}}, rc.Points)
}

func TestUnmarshalUnknownType(t *testing.T) {
	_, err := UnmarshalObjects([]byte(`[{"type":"hologram","data":{}}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown object type")
}
