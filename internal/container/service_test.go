package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard-backend/internal/geometry"
)

// fakeContainer is a minimal Container for registry tests. Content bounds
// equal the outer bounds inset by 10 on every side.
type fakeContainer struct {
	id       string
	bounds   geometry.BoundingBox
	locked   bool
	children []string
}

func newFakeContainer(id string, bounds geometry.BoundingBox) *fakeContainer {
	return &fakeContainer{id: id, bounds: bounds}
}

func (f *fakeContainer) ContainerID() string          { return f.id }
func (f *fakeContainer) Bounds() geometry.BoundingBox { return f.bounds }
func (f *fakeContainer) AcceptsChildren() bool        { return !f.locked }

func (f *fakeContainer) ContentBounds() geometry.BoundingBox {
	return geometry.BoundingBox{
		X:      f.bounds.X + 10,
		Y:      f.bounds.Y + 10,
		Width:  f.bounds.Width - 20,
		Height: f.bounds.Height - 20,
	}
}

func (f *fakeContainer) ChildIDs() []string {
	return append([]string(nil), f.children...)
}

func (f *fakeContainer) AddChildID(id string) bool {
	for _, existing := range f.children {
		if existing == id {
			return false
		}
	}
	f.children = append(f.children, id)
	return true
}

func (f *fakeContainer) RemoveChildID(id string) bool {
	for i, existing := range f.children {
		if existing == id {
			f.children = append(f.children[:i], f.children[i+1:]...)
			return true
		}
	}
	return false
}

func (f *fakeContainer) CheckContainment(objectBounds geometry.BoundingBox) ContainmentResult {
	res := ContainmentResult{}
	area := objectBounds.Area()
	if area == 0 {
		return res
	}
	intersection := f.bounds.IntersectionArea(objectBounds)
	res.OverlapPercentage = intersection / area
	res.IsOverlapping = intersection > 0
	res.IsContained = f.ContentBounds().ContainsBox(objectBounds)
	return res
}

type fakeContainable struct {
	id        string
	pos       geometry.Position
	parent    string
	relPos    geometry.Position
	hasRelPos bool
}

func newFakeContainable(id string, pos geometry.Position) *fakeContainable {
	return &fakeContainable{id: id, pos: pos}
}

func (f *fakeContainable) ContainableID() string           { return f.id }
func (f *fakeContainable) Position() geometry.Position     { return f.pos }
func (f *fakeContainable) SetPosition(p geometry.Position) { f.pos = p }
func (f *fakeContainable) ParentContainer() string         { return f.parent }

func (f *fakeContainable) SetParentContainer(id string) {
	f.parent = id
	if id == "" {
		f.relPos = geometry.Position{}
		f.hasRelPos = false
	}
}

func (f *fakeContainable) RelativePosition() (geometry.Position, bool) {
	return f.relPos, f.hasRelPos
}

func (f *fakeContainable) SetRelativePosition(p geometry.Position) {
	f.relPos = p
	f.hasRelPos = true
}

func TestAddToContainer(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{X: 100, Y: 100, Width: 200, Height: 200})
	note := newFakeContainable("note-1", geometry.Position{X: 150, Y: 150})
	s.RegisterContainer(frame)
	s.RegisterContainable(note)

	require.True(t, s.AddToContainer("frame-1", "note-1"))
	assert.Equal(t, "frame-1", note.ParentContainer())
	assert.Equal(t, []string{"note-1"}, frame.ChildIDs())

	rel, ok := note.RelativePosition()
	require.True(t, ok)
	assert.Equal(t, geometry.Position{X: 40, Y: 40}, rel, "relative to content origin (110,110)")
}

func TestAddToContainerRejections(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{Width: 100, Height: 100})
	note := newFakeContainable("note-1", geometry.Position{})
	s.RegisterContainer(frame)
	s.RegisterContainable(note)

	assert.False(t, s.AddToContainer("missing", "note-1"))
	assert.False(t, s.AddToContainer("frame-1", "missing"))

	frame.locked = true
	assert.False(t, s.AddToContainer("frame-1", "note-1"))
	frame.locked = false

	require.True(t, s.AddToContainer("frame-1", "note-1"))
	assert.False(t, s.AddToContainer("frame-1", "note-1"), "re-adding a member is refused")
	assert.Equal(t, []string{"note-1"}, frame.ChildIDs())
}

func TestExclusivity(t *testing.T) {
	s := NewService(0)
	a := newFakeContainer("frame-a", geometry.BoundingBox{Width: 100, Height: 100})
	b := newFakeContainer("frame-b", geometry.BoundingBox{X: 200, Width: 100, Height: 100})
	note := newFakeContainable("note-1", geometry.Position{X: 20, Y: 20})
	s.RegisterContainer(a)
	s.RegisterContainer(b)
	s.RegisterContainable(note)

	var events []ChangeEvent
	s.AddChangeListener(func(ev ChangeEvent) { events = append(events, ev) })

	require.True(t, s.AddToContainer("frame-a", "note-1"))
	require.True(t, s.AddToContainer("frame-b", "note-1"))

	assert.Empty(t, a.ChildIDs(), "moved out of the previous container")
	assert.Equal(t, []string{"note-1"}, b.ChildIDs())
	assert.Equal(t, "frame-b", note.ParentContainer())

	// the silent detach fires no remove event, only one add per call
	require.Len(t, events, 2)
	assert.Equal(t, ChangeAdd, events[0].ChangeType)
	assert.Equal(t, "frame-a", events[0].ContainerID)
	assert.Equal(t, ChangeAdd, events[1].ChangeType)
	assert.Equal(t, "frame-b", events[1].ContainerID)
}

func TestRemoveFromContainer(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{Width: 100, Height: 100})
	note := newFakeContainable("note-1", geometry.Position{X: 20, Y: 20})
	s.RegisterContainer(frame)
	s.RegisterContainable(note)

	assert.False(t, s.RemoveFromContainer("note-1"), "not contained yet")

	require.True(t, s.AddToContainer("frame-1", "note-1"))
	require.True(t, s.RemoveFromContainer("note-1"))

	assert.Empty(t, frame.ChildIDs())
	assert.Equal(t, "", note.ParentContainer())
	_, ok := note.RelativePosition()
	assert.False(t, ok, "relative position cleared on detach")

	assert.False(t, s.RemoveFromContainer("note-1"))
}

func TestUnregisterContainerDetachesChildren(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{Width: 100, Height: 100})
	note := newFakeContainable("note-1", geometry.Position{X: 20, Y: 20})
	s.RegisterContainer(frame)
	s.RegisterContainable(note)
	require.True(t, s.AddToContainer("frame-1", "note-1"))

	var events []ChangeEvent
	s.AddChangeListener(func(ev ChangeEvent) { events = append(events, ev) })

	require.True(t, s.UnregisterContainer("frame-1"))
	assert.Equal(t, "", note.ParentContainer())
	assert.Empty(t, events, "unregister detaches silently")
	assert.Nil(t, s.ContainerFor("note-1"))
	assert.False(t, s.UnregisterContainer("frame-1"))
}

func TestUnregisterContainable(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{Width: 100, Height: 100})
	note := newFakeContainable("note-1", geometry.Position{X: 20, Y: 20})
	s.RegisterContainer(frame)
	s.RegisterContainable(note)
	require.True(t, s.AddToContainer("frame-1", "note-1"))

	require.True(t, s.UnregisterContainable("note-1"))
	assert.Empty(t, frame.ChildIDs())
	assert.False(t, s.UnregisterContainable("note-1"))
	assert.False(t, s.AddToContainer("frame-1", "note-1"), "no longer registered")
}

func TestChildrenOrder(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{Width: 300, Height: 300})
	s.RegisterContainer(frame)
	for _, id := range []string{"c", "a", "b"} {
		s.RegisterContainable(newFakeContainable(id, geometry.Position{}))
		require.True(t, s.AddToContainer("frame-1", id))
	}

	children := s.Children("frame-1")
	require.Len(t, children, 3)
	assert.Equal(t, "c", children[0].ContainableID(), "insertion order is preserved")
	assert.Equal(t, "a", children[1].ContainableID())
	assert.Equal(t, "b", children[2].ContainableID())

	assert.Empty(t, s.Children("missing"))
}

func TestContainersAtPoint(t *testing.T) {
	s := NewService(0)
	s.RegisterContainer(newFakeContainer("frame-b", geometry.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}))
	s.RegisterContainer(newFakeContainer("frame-a", geometry.BoundingBox{X: 50, Y: 50, Width: 100, Height: 100}))
	s.RegisterContainer(newFakeContainer("frame-c", geometry.BoundingBox{X: 500, Y: 500, Width: 100, Height: 100}))

	hits := s.ContainersAtPoint(geometry.Position{X: 75, Y: 75})
	require.Len(t, hits, 2)
	assert.Equal(t, "frame-a", hits[0].ContainerID(), "sorted by id")
	assert.Equal(t, "frame-b", hits[1].ContainerID())

	hits = s.ContainersAtPoint(geometry.Position{X: 75, Y: 75}, "frame-a")
	require.Len(t, hits, 1)
	assert.Equal(t, "frame-b", hits[0].ContainerID())

	assert.Empty(t, s.ContainersAtPoint(geometry.Position{X: -10, Y: -10}))
}

func TestCheckAutoContainment(t *testing.T) {
	s := NewService(0.5)
	s.RegisterContainer(newFakeContainer("frame-1", geometry.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}))

	// 60% of the object lies inside the frame
	match, ok := s.CheckAutoContainment(geometry.BoundingBox{X: 40, Y: 0, Width: 100, Height: 100})
	require.True(t, ok)
	assert.Equal(t, "frame-1", match.Container.ContainerID())
	assert.InDelta(t, 0.6, match.OverlapPercentage, 1e-9)

	// exactly at the threshold still matches
	match, ok = s.CheckAutoContainment(geometry.BoundingBox{X: 50, Y: 0, Width: 100, Height: 100})
	require.True(t, ok)
	assert.InDelta(t, 0.5, match.OverlapPercentage, 1e-9)

	// below the threshold
	_, ok = s.CheckAutoContainment(geometry.BoundingBox{X: 60, Y: 0, Width: 100, Height: 100})
	assert.False(t, ok)

	// zero-area objects never match
	_, ok = s.CheckAutoContainment(geometry.BoundingBox{X: 10, Y: 10})
	assert.False(t, ok)
}

func TestCheckAutoContainmentBestMatch(t *testing.T) {
	s := NewService(0.5)
	s.RegisterContainer(newFakeContainer("frame-small", geometry.BoundingBox{X: 0, Y: 0, Width: 70, Height: 100}))
	s.RegisterContainer(newFakeContainer("frame-big", geometry.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}))

	obj := geometry.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}
	match, ok := s.CheckAutoContainment(obj)
	require.True(t, ok)
	assert.Equal(t, "frame-big", match.Container.ContainerID())
	assert.InDelta(t, 1.0, match.OverlapPercentage, 1e-9)

	match, ok = s.CheckAutoContainment(obj, "frame-big")
	require.True(t, ok)
	assert.Equal(t, "frame-small", match.Container.ContainerID())
	assert.InDelta(t, 0.7, match.OverlapPercentage, 1e-9)
}

func TestCheckAutoContainmentSkipsLocked(t *testing.T) {
	s := NewService(0.5)
	locked := newFakeContainer("frame-1", geometry.BoundingBox{X: 0, Y: 0, Width: 100, Height: 100})
	locked.locked = true
	s.RegisterContainer(locked)

	_, ok := s.CheckAutoContainment(geometry.BoundingBox{X: 10, Y: 10, Width: 50, Height: 50})
	assert.False(t, ok)
}

func TestOnContainerMoved(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{X: 100, Y: 100, Width: 200, Height: 200})
	a := newFakeContainable("note-a", geometry.Position{X: 120, Y: 130})
	b := newFakeContainable("note-b", geometry.Position{X: 200, Y: 210})
	outsider := newFakeContainable("note-c", geometry.Position{X: 500, Y: 500})
	s.RegisterContainer(frame)
	s.RegisterContainable(a)
	s.RegisterContainable(b)
	s.RegisterContainable(outsider)
	require.True(t, s.AddToContainer("frame-1", "note-a"))
	require.True(t, s.AddToContainer("frame-1", "note-b"))

	s.OnContainerMoved("frame-1", geometry.Position{X: 100, Y: 100}, geometry.Position{X: 110, Y: 105})

	assert.Equal(t, geometry.Position{X: 130, Y: 135}, a.Position())
	assert.Equal(t, geometry.Position{X: 210, Y: 215}, b.Position())
	assert.Equal(t, geometry.Position{X: 500, Y: 500}, outsider.Position(), "non-members stay put")
}

func TestOnContainerMovedZeroDelta(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{X: 100, Y: 100, Width: 200, Height: 200})
	note := newFakeContainable("note-1", geometry.Position{X: 120, Y: 130})
	s.RegisterContainer(frame)
	s.RegisterContainable(note)
	require.True(t, s.AddToContainer("frame-1", "note-1"))

	s.OnContainerMoved("frame-1", geometry.Position{X: 100, Y: 100}, geometry.Position{X: 100, Y: 100})
	assert.Equal(t, geometry.Position{X: 120, Y: 130}, note.Position())
}

func TestChangeListenerRemoval(t *testing.T) {
	s := NewService(0)
	frame := newFakeContainer("frame-1", geometry.BoundingBox{Width: 100, Height: 100})
	note := newFakeContainable("note-1", geometry.Position{})
	s.RegisterContainer(frame)
	s.RegisterContainable(note)

	var first, second int
	removeFirst := s.AddChangeListener(func(ChangeEvent) { first++ })
	s.AddChangeListener(func(ChangeEvent) { second++ })

	require.True(t, s.AddToContainer("frame-1", "note-1"))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	removeFirst()
	require.True(t, s.RemoveFromContainer("note-1"))
	assert.Equal(t, 1, first, "removed listener no longer fires")
	assert.Equal(t, 2, second)
}

func TestThresholdDefault(t *testing.T) {
	s := NewService(-1)
	assert.Equal(t, DefaultOverlapThreshold, s.threshold)

	s = NewService(0.75)
	assert.Equal(t, 0.75, s.threshold)
}
