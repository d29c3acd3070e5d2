// Package board composes the command history and the containment service
// over an in-memory object table, one instance per open board session.
package board

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"whiteboard-backend/internal/command"
	"whiteboard-backend/internal/container"
	"whiteboard-backend/internal/geometry"
	"whiteboard-backend/internal/model"
)

// Config tunes the per-board engines.
type Config struct {
	MaxHistorySize   int
	MergeWindow      time.Duration
	OverlapThreshold float64
}

// Board owns one board's live state: the object table, the undo/redo
// history bound to it, and the spatial containment service. All public
// methods serialize on an internal mutex; the engines underneath are
// single-threaded by contract.
type Board struct {
	mu         sync.Mutex
	id         string
	cfg        Config
	objects    map[string]model.Object
	history    *command.History
	spatial    *container.Service
	version    int64
	lastAccess time.Time
}

// New creates an empty board session.
func New(id string, cfg Config) *Board {
	return &Board{
		id:         id,
		cfg:        cfg,
		objects:    make(map[string]model.Object),
		history:    command.NewHistory(cfg.MaxHistorySize, cfg.MergeWindow),
		spatial:    container.NewService(cfg.OverlapThreshold),
		lastAccess: time.Now(),
	}
}

func (b *Board) ID() string { return b.id }

// Version increments on every successful mutation; snapshots carry it.
func (b *Board) Version() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// LastAccess reports when the board was last touched, for idle eviction.
func (b *Board) LastAccess() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAccess
}

// Touch refreshes the idle-eviction clock.
func (b *Board) Touch() {
	b.mu.Lock()
	b.lastAccess = time.Now()
	b.mu.Unlock()
}

// Injected mutation callbacks. Commands close over these; they run with the
// board lock already held by the public method that executed the command.

func (b *Board) addObject(obj model.Object) error {
	id := obj.ObjectID()
	if _, exists := b.objects[id]; exists {
		return fmt.Errorf("object %s already on board", id)
	}
	b.objects[id] = obj
	if c, ok := obj.(container.Container); ok {
		b.spatial.RegisterContainer(c)
		b.reconcileChildren(c)
	}
	if c, ok := obj.(container.Containable); ok {
		b.spatial.RegisterContainable(c)
		b.reconcileParent(c)
	}
	return nil
}

// reconcileParent re-links an inserted object that still carries a parent
// reference. Undoing a delete re-inserts a clone whose containerId survived
// while the frame's child list no longer names it; the link is restored on
// both sides, or dropped when the frame is gone.
func (b *Board) reconcileParent(c container.Containable) {
	parentID := c.ParentContainer()
	if parentID == "" {
		return
	}
	parent, ok := b.objects[parentID]
	if !ok {
		c.SetParentContainer("")
		return
	}
	pc, ok := parent.(container.Container)
	if !ok {
		c.SetParentContainer("")
		return
	}
	pc.AddChildID(c.ContainableID())
	c.SetRelativePosition(c.Position().Sub(pc.ContentBounds().Origin()))
}

// reconcileChildren prunes an inserted container's child list against live
// state and restores the back-references of children that were detached when
// the container left the board.
func (b *Board) reconcileChildren(c container.Container) {
	for _, childID := range c.ChildIDs() {
		obj, ok := b.objects[childID]
		if !ok {
			c.RemoveChildID(childID)
			continue
		}
		cb, ok := obj.(container.Containable)
		if !ok {
			c.RemoveChildID(childID)
			continue
		}
		switch cb.ParentContainer() {
		case c.ContainerID():
			// link already consistent
		case "":
			cb.SetParentContainer(c.ContainerID())
			cb.SetRelativePosition(cb.Position().Sub(c.ContentBounds().Origin()))
		default:
			// the child joined another container in the meantime
			c.RemoveChildID(childID)
		}
	}
}

func (b *Board) removeObject(id string) error {
	obj, exists := b.objects[id]
	if !exists {
		return fmt.Errorf("object %s not on board", id)
	}
	if c, ok := obj.(container.Container); ok {
		b.spatial.UnregisterContainer(c.ContainerID())
	}
	if c, ok := obj.(container.Containable); ok {
		b.spatial.UnregisterContainable(c.ContainableID())
	}
	delete(b.objects, id)
	return nil
}

func (b *Board) updatePosition(id string, pos geometry.Position) error {
	obj, exists := b.objects[id]
	if !exists {
		return fmt.Errorf("object %s not on board", id)
	}
	old := obj.Position()
	obj.SetPosition(pos)
	// moving a frame drags its children along
	if c, ok := obj.(container.Container); ok {
		b.spatial.OnContainerMoved(c.ContainerID(), old, pos)
	}
	return nil
}

func (b *Board) updateSize(id string, size geometry.Size) error {
	obj, exists := b.objects[id]
	if !exists {
		return fmt.Errorf("object %s not on board", id)
	}
	obj.SetSize(size)
	return nil
}

func (b *Board) updateRotation(id string, deg float64) error {
	obj, exists := b.objects[id]
	if !exists {
		return fmt.Errorf("object %s not on board", id)
	}
	obj.SetRotation(deg)
	return nil
}

func (b *Board) updateContent(id string, content string) error {
	obj, exists := b.objects[id]
	if !exists {
		return fmt.Errorf("object %s not on board", id)
	}
	holder, ok := obj.(model.ContentHolder)
	if !ok {
		return fmt.Errorf("object %s has no editable content", id)
	}
	holder.SetContent(content)
	return nil
}

func (b *Board) updateColors(id string, colors model.ColorScheme) error {
	obj, exists := b.objects[id]
	if !exists {
		return fmt.Errorf("object %s not on board", id)
	}
	colorable, ok := obj.(model.Colorable)
	if !ok {
		return fmt.Errorf("object %s has no color scheme", id)
	}
	colorable.SetColors(colors)
	return nil
}

func (b *Board) updateZIndex(id string, z int) error {
	obj, exists := b.objects[id]
	if !exists {
		return fmt.Errorf("object %s not on board", id)
	}
	obj.SetZIndex(z)
	return nil
}

// Undo reverses the most recent history entry.
func (b *Board) Undo() (command.Command, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = time.Now()
	cmd, err := b.history.Undo()
	if cmd != nil {
		b.version++
	}
	return cmd, err
}

// Redo re-applies the most recently undone entry.
func (b *Board) Redo() (command.Command, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = time.Now()
	cmd, err := b.history.Redo()
	if cmd != nil {
		b.version++
	}
	return cmd, err
}

// ClearHistory drops both stacks without touching board state.
func (b *Board) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.Clear()
}

// HistoryState returns the current undo/redo snapshot.
func (b *Board) HistoryState() command.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.State()
}

// OnHistoryChange subscribes to history notifications.
func (b *Board) OnHistoryChange(fn func(command.Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.OnChange(fn)
}

// OnMembershipChange subscribes to containment change notifications.
func (b *Board) OnMembershipChange(fn func(container.ChangeEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spatial.AddChangeListener(fn)
}

// Object returns a clone of the object with the given id.
func (b *Board) Object(id string) (model.Object, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.objects[id]
	if !ok {
		return nil, false
	}
	return obj.Clone(), true
}

// Objects returns clones of every object, ordered by z-index then id.
func (b *Board) Objects() []model.Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedClones()
}

func (b *Board) sortedClones() []model.Object {
	objects := make([]model.Object, 0, len(b.objects))
	for _, obj := range b.objects {
		objects = append(objects, obj.Clone())
	}
	sort.Slice(objects, func(i, j int) bool {
		if objects[i].ZIndex() != objects[j].ZIndex() {
			return objects[i].ZIndex() < objects[j].ZIndex()
		}
		return objects[i].ObjectID() < objects[j].ObjectID()
	})
	return objects
}

// AttachToFrame adds an object to a frame's child list.
func (b *Board) AttachToFrame(frameID, childID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = time.Now()
	if !b.spatial.AddToContainer(frameID, childID) {
		return false
	}
	b.version++
	return true
}

// DetachFromFrame removes an object from its current frame.
func (b *Board) DetachFromFrame(childID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = time.Now()
	if !b.spatial.RemoveFromContainer(childID) {
		return false
	}
	b.version++
	return true
}

// FrameFor returns the id of the frame childID belongs to, or "".
func (b *Board) FrameFor(childID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.spatial.ContainerFor(childID)
	if c == nil {
		return ""
	}
	return c.ContainerID()
}

// FrameChildren returns clones of the objects nested in frameID, in child
// order.
func (b *Board) FrameChildren(frameID string) []model.Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	children := b.spatial.Children(frameID)
	objects := make([]model.Object, 0, len(children))
	for _, c := range children {
		if obj, ok := b.objects[c.ContainableID()]; ok {
			objects = append(objects, obj.Clone())
		}
	}
	return objects
}

// FramesAtPoint returns ids of frames whose bounds contain p.
func (b *Board) FramesAtPoint(p geometry.Position, exclude ...string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	hits := b.spatial.ContainersAtPoint(p, exclude...)
	ids := make([]string, 0, len(hits))
	for _, c := range hits {
		ids = append(ids, c.ContainerID())
	}
	return ids
}

// AutoContain scores bounds against every frame and returns the best match
// clearing the overlap threshold.
func (b *Board) AutoContain(bounds geometry.BoundingBox, exclude ...string) (frameID string, overlap float64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	match, found := b.spatial.CheckAutoContainment(bounds, exclude...)
	if !found {
		return "", 0, false
	}
	return match.Container.ContainerID(), match.OverlapPercentage, true
}

// DropObject resolves containment after a drag ends: the object joins the
// best-overlapping frame, or leaves its current one when nothing qualifies.
func (b *Board) DropObject(objectID string) (frameID string, attached bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = time.Now()
	obj, exists := b.objects[objectID]
	if !exists {
		return "", false
	}
	if _, ok := obj.(container.Containable); !ok {
		return "", false
	}
	match, found := b.spatial.CheckAutoContainment(obj.Bounds(), objectID)
	if !found {
		if b.spatial.RemoveFromContainer(objectID) {
			b.version++
		}
		return "", false
	}
	id := match.Container.ContainerID()
	if b.spatial.AddToContainer(id, objectID) {
		b.version++
	}
	return id, true
}

// Snapshot serializes the full object set.
func (b *Board) Snapshot() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.MarshalObjects(b.sortedClones())
}

// Restore replaces the object table from a snapshot, re-registers the
// spatial roles and resets the history. Membership survives through the
// persisted child lists and parent references.
func (b *Board) Restore(data []byte) error {
	objects, err := model.UnmarshalObjects(data)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects = make(map[string]model.Object, len(objects))
	b.spatial = container.NewService(b.cfg.OverlapThreshold)
	for _, obj := range objects {
		b.objects[obj.ObjectID()] = obj
		if c, ok := obj.(container.Container); ok {
			b.spatial.RegisterContainer(c)
		}
		if c, ok := obj.(container.Containable); ok {
			b.spatial.RegisterContainable(c)
		}
	}
	b.history.Clear()
	b.lastAccess = time.Now()
	return nil
}
