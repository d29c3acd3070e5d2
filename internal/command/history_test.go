package command

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard-backend/internal/geometry"
	"whiteboard-backend/internal/model"
)

// store is a minimal object table standing in for a board session.
type store struct {
	objects map[string]model.Object
}

func newStore() *store {
	return &store{objects: make(map[string]model.Object)}
}

func (s *store) add(obj model.Object) error {
	id := obj.ObjectID()
	if _, exists := s.objects[id]; exists {
		return fmt.Errorf("object %s already present", id)
	}
	s.objects[id] = obj
	return nil
}

func (s *store) remove(id string) error {
	if _, exists := s.objects[id]; !exists {
		return fmt.Errorf("object %s not present", id)
	}
	delete(s.objects, id)
	return nil
}

func (s *store) updatePosition(id string, pos geometry.Position) error {
	obj, exists := s.objects[id]
	if !exists {
		return fmt.Errorf("object %s not present", id)
	}
	obj.SetPosition(pos)
	return nil
}

func (s *store) note(id string, x, y float64) *model.StickyNote {
	n := model.NewStickyNote(geometry.Position{X: x, Y: y}, geometry.Size{Width: 100, Height: 80}, "note "+id, model.ColorScheme{})
	return n
}

func TestExecuteThenUndo(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)
	note := s.note("a", 10, 20)

	require.NoError(t, h.Execute(NewCreate(note, "alice", s.add, s.remove)))
	assert.Len(t, s.objects, 1)
	assert.True(t, h.State().CanUndo)
	assert.False(t, h.State().CanRedo)

	cmd, err := h.Undo()
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Empty(t, s.objects)
	assert.False(t, h.State().CanUndo)
	assert.True(t, h.State().CanRedo)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)

	for i := 0; i < 5; i++ {
		note := s.note(fmt.Sprintf("n%d", i), float64(i*10), 0)
		require.NoError(t, h.Execute(NewCreate(note, "alice", s.add, s.remove)))
	}
	require.Len(t, s.objects, 5)

	for i := 0; i < 5; i++ {
		_, err := h.Undo()
		require.NoError(t, err)
	}
	assert.Empty(t, s.objects)
	assert.Equal(t, 5, h.State().RedoCount)

	for i := 0; i < 5; i++ {
		_, err := h.Redo()
		require.NoError(t, err)
	}
	assert.Len(t, s.objects, 5)
	assert.Equal(t, 5, h.State().UndoCount)
	assert.Equal(t, 0, h.State().RedoCount)
}

func TestEmptyUndoRedo(t *testing.T) {
	h := NewHistory(0, 0)

	cmd, err := h.Undo()
	assert.NoError(t, err)
	assert.Nil(t, cmd)

	cmd, err = h.Redo()
	assert.NoError(t, err)
	assert.Nil(t, cmd)
}

func TestExecuteClearsRedo(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)

	require.NoError(t, h.Execute(NewCreate(s.note("a", 0, 0), "alice", s.add, s.remove)))
	require.NoError(t, h.Execute(NewCreate(s.note("b", 10, 0), "alice", s.add, s.remove)))
	_, err := h.Undo()
	require.NoError(t, err)
	require.Equal(t, 1, h.State().RedoCount)

	require.NoError(t, h.Execute(NewCreate(s.note("c", 20, 0), "alice", s.add, s.remove)))
	assert.Equal(t, 0, h.State().RedoCount, "a new edit forks the timeline")
	assert.Equal(t, 2, h.State().UndoCount)
}

func TestMoveMergeCollapsesToOneUndoStep(t *testing.T) {
	s := newStore()
	h := NewHistory(0, time.Second)
	note := s.note("a", 0, 0)
	require.NoError(t, s.add(note))

	id := note.ObjectID()
	start := map[string]geometry.Position{id: {X: 0, Y: 0}}
	mid := map[string]geometry.Position{id: {X: 10, Y: 10}}
	end := map[string]geometry.Position{id: {X: 30, Y: 5}}

	require.NoError(t, h.Execute(NewMove(start, mid, "alice", s.updatePosition)))
	require.NoError(t, h.Execute(NewMove(mid, end, "alice", s.updatePosition)))

	assert.Equal(t, 1, h.State().UndoCount, "a drag gesture is one undo step")
	assert.Equal(t, geometry.Position{X: 30, Y: 5}, note.Position())

	_, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, geometry.Position{X: 0, Y: 0}, note.Position(), "undo restores the pre-gesture position")

	_, err = h.Redo()
	require.NoError(t, err)
	assert.Equal(t, geometry.Position{X: 30, Y: 5}, note.Position())
}

func TestMoveMergeWindowExpiry(t *testing.T) {
	s := newStore()
	h := NewHistory(0, time.Nanosecond)
	note := s.note("a", 0, 0)
	require.NoError(t, s.add(note))

	id := note.ObjectID()
	require.NoError(t, h.Execute(NewMove(
		map[string]geometry.Position{id: {X: 0, Y: 0}},
		map[string]geometry.Position{id: {X: 10, Y: 0}},
		"alice", s.updatePosition)))

	time.Sleep(time.Millisecond)
	require.NoError(t, h.Execute(NewMove(
		map[string]geometry.Position{id: {X: 10, Y: 0}},
		map[string]geometry.Position{id: {X: 20, Y: 0}},
		"alice", s.updatePosition)))

	assert.Equal(t, 2, h.State().UndoCount, "stale moves do not merge")
}

func TestMovesOverDifferentSetsDoNotMerge(t *testing.T) {
	s := newStore()
	h := NewHistory(0, time.Second)
	a := s.note("a", 0, 0)
	b := s.note("b", 50, 0)
	require.NoError(t, s.add(a))
	require.NoError(t, s.add(b))

	require.NoError(t, h.Execute(NewMove(
		map[string]geometry.Position{a.ObjectID(): {X: 0, Y: 0}},
		map[string]geometry.Position{a.ObjectID(): {X: 10, Y: 0}},
		"alice", s.updatePosition)))
	require.NoError(t, h.Execute(NewMove(
		map[string]geometry.Position{b.ObjectID(): {X: 50, Y: 0}},
		map[string]geometry.Position{b.ObjectID(): {X: 60, Y: 0}},
		"alice", s.updatePosition)))

	assert.Equal(t, 2, h.State().UndoCount)
}

func TestMergeClearsRedo(t *testing.T) {
	s := newStore()
	h := NewHistory(0, time.Hour)
	a := s.note("a", 0, 0)
	require.NoError(t, s.add(a))
	id := a.ObjectID()

	require.NoError(t, h.Execute(NewCreate(s.note("b", 100, 0), "alice", s.add, s.remove)))
	require.NoError(t, h.Execute(NewMove(
		map[string]geometry.Position{id: {X: 0, Y: 0}},
		map[string]geometry.Position{id: {X: 10, Y: 0}},
		"alice", s.updatePosition)))
	_, err := h.Undo()
	require.NoError(t, err)
	_, err = h.Redo()
	require.NoError(t, err)

	// now undo the create so a redo entry exists, then merge on top
	_, err = h.Undo()
	require.NoError(t, err)
	_, err = h.Undo()
	require.NoError(t, err)
	require.Equal(t, 2, h.State().RedoCount)
	_, err = h.Redo()
	require.NoError(t, err)
	_, err = h.Redo()
	require.NoError(t, err)

	require.NoError(t, h.Execute(NewMove(
		map[string]geometry.Position{id: {X: 10, Y: 0}},
		map[string]geometry.Position{id: {X: 20, Y: 0}},
		"alice", s.updatePosition)))
	assert.Equal(t, 0, h.State().RedoCount)
	assert.Equal(t, 2, h.State().UndoCount, "the merge replaced the stack top")
}

func TestEditContentMerge(t *testing.T) {
	s := newStore()
	h := NewHistory(0, time.Second)
	note := s.note("a", 0, 0)
	note.SetContent("h")
	require.NoError(t, s.add(note))

	update := func(id, content string) error {
		obj, exists := s.objects[id]
		if !exists {
			return fmt.Errorf("object %s not present", id)
		}
		obj.(model.ContentHolder).SetContent(content)
		return nil
	}

	id := note.ObjectID()
	require.NoError(t, h.Execute(NewEditContent(id, "h", "he", "alice", update)))
	require.NoError(t, h.Execute(NewEditContent(id, "he", "hel", "alice", update)))
	require.NoError(t, h.Execute(NewEditContent(id, "hel", "hello", "alice", update)))

	assert.Equal(t, 1, h.State().UndoCount, "a typing burst is one undo step")
	assert.Equal(t, "hello", note.Content())

	_, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, "h", note.Content())
}

func TestMaxSizeEviction(t *testing.T) {
	s := newStore()
	h := NewHistory(3, 0)

	for i := 0; i < 5; i++ {
		note := s.note(fmt.Sprintf("n%d", i), 0, 0)
		require.NoError(t, h.Execute(NewCreate(note, "alice", s.add, s.remove)))
	}

	assert.Equal(t, 3, h.State().UndoCount, "oldest entries are evicted silently")
	require.Len(t, s.objects, 5)

	for i := 0; i < 3; i++ {
		cmd, err := h.Undo()
		require.NoError(t, err)
		require.NotNil(t, cmd)
	}
	cmd, err := h.Undo()
	assert.NoError(t, err)
	assert.Nil(t, cmd, "evicted entries are gone for good")
	assert.Len(t, s.objects, 2, "the two oldest creates stay applied")
}

func TestFailingUndoRestoresStack(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)
	note := s.note("a", 0, 0)

	require.NoError(t, h.Execute(NewCreate(note, "alice", s.add, s.remove)))

	// sabotage: the object disappears behind the history's back
	delete(s.objects, note.ObjectID())

	cmd, err := h.Undo()
	assert.Error(t, err)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, h.State().UndoCount, "the failed entry stays on the undo stack")
	assert.Equal(t, 0, h.State().RedoCount)
}

func TestFailingRedoRestoresStack(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)
	note := s.note("a", 0, 0)

	require.NoError(t, h.Execute(NewCreate(note, "alice", s.add, s.remove)))
	_, err := h.Undo()
	require.NoError(t, err)

	// sabotage: the id is occupied again
	require.NoError(t, s.add(note))

	cmd, err := h.Redo()
	assert.Error(t, err)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, h.State().RedoCount, "the failed entry stays on the redo stack")
}

func TestFailingExecuteRecordsNothing(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)
	note := s.note("a", 0, 0)
	require.NoError(t, s.add(note))

	err := h.Execute(NewCreate(note, "alice", s.add, s.remove))
	assert.Error(t, err, "the id is already taken")
	assert.Equal(t, 0, h.State().UndoCount)
}

func TestClear(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)

	require.NoError(t, h.Execute(NewCreate(s.note("a", 0, 0), "alice", s.add, s.remove)))
	require.NoError(t, h.Execute(NewCreate(s.note("b", 0, 0), "alice", s.add, s.remove)))
	_, err := h.Undo()
	require.NoError(t, err)

	h.Clear()
	state := h.State()
	assert.False(t, state.CanUndo)
	assert.False(t, state.CanRedo)
	assert.Len(t, s.objects, 1, "clear never touches board state")
}

func TestStateDescriptions(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)
	note := s.note("a", 0, 0)

	require.NoError(t, h.Execute(NewCreate(note, "alice", s.add, s.remove)))
	assert.Equal(t, "Create sticky_note", h.State().UndoDescription)
	assert.Empty(t, h.State().RedoDescription)

	_, err := h.Undo()
	require.NoError(t, err)
	assert.Empty(t, h.State().UndoDescription)
	assert.Equal(t, "Create sticky_note", h.State().RedoDescription)
}

func TestOnChangeListeners(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)

	var first []Action
	var second []Action
	removeFirst := h.OnChange(func(ev Event) { first = append(first, ev.Action) })
	h.OnChange(func(ev Event) { second = append(second, ev.Action) })

	require.NoError(t, h.Execute(NewCreate(s.note("a", 0, 0), "alice", s.add, s.remove)))
	_, err := h.Undo()
	require.NoError(t, err)
	_, err = h.Redo()
	require.NoError(t, err)

	removeFirst()
	h.Clear()

	assert.Equal(t, []Action{ActionExecute, ActionUndo, ActionRedo}, first)
	assert.Equal(t, []Action{ActionExecute, ActionUndo, ActionRedo, ActionClear}, second)
}

func TestListenerSeesFreshState(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)

	var got State
	h.OnChange(func(ev Event) { got = ev.State })

	require.NoError(t, h.Execute(NewCreate(s.note("a", 0, 0), "alice", s.add, s.remove)))
	assert.True(t, got.CanUndo)
	assert.Equal(t, 1, got.UndoCount)
}

// failCmd always fails, for exercising error paths without a store.
type failCmd struct {
	meta
}

func (f *failCmd) Execute() error { return errors.New("execute failed") }
func (f *failCmd) Undo() error    { return errors.New("undo failed") }

func TestExecuteErrorLeavesRedoIntact(t *testing.T) {
	s := newStore()
	h := NewHistory(0, 0)

	require.NoError(t, h.Execute(NewCreate(s.note("a", 0, 0), "alice", s.add, s.remove)))
	_, err := h.Undo()
	require.NoError(t, err)
	require.Equal(t, 1, h.State().RedoCount)

	err = h.Execute(&failCmd{meta: newMeta(TypeCreate, "boom", "alice")})
	assert.Error(t, err)
	assert.Equal(t, 1, h.State().RedoCount, "a failed execute does not fork the timeline")
}
