package command

import (
	"whiteboard-backend/internal/geometry"
)

// Move writes new positions for a set of objects. Two moves over the
// identical id set merge into one undo step.
type Move struct {
	meta
	oldPositions map[string]geometry.Position
	newPositions map[string]geometry.Position
	update       UpdatePositionFunc
}

// NewMove captures the old positions at construction; they are never
// recomputed later.
func NewMove(oldPositions, newPositions map[string]geometry.Position, executedBy string, update UpdatePositionFunc) *Move {
	return &Move{
		meta:         newMeta(TypeMove, "Move objects", executedBy),
		oldPositions: copyPositions(oldPositions),
		newPositions: copyPositions(newPositions),
		update:       update,
	}
}

func (m *Move) Execute() error {
	for id, pos := range m.newPositions {
		if err := m.update(id, pos); err != nil {
			return err
		}
	}
	return nil
}

func (m *Move) Undo() error {
	for id, pos := range m.oldPositions {
		if err := m.update(id, pos); err != nil {
			return err
		}
	}
	return nil
}

// CanMergeWith accepts another move over the identical id set.
func (m *Move) CanMergeWith(other Command) bool {
	o, ok := other.(*Move)
	if !ok || len(o.newPositions) != len(m.newPositions) {
		return false
	}
	for id := range m.newPositions {
		if _, ok := o.newPositions[id]; !ok {
			return false
		}
	}
	return true
}

// MergeWith keeps m's old positions and takes other's new ones, so one undo
// restores the state before the first move of the gesture. The merged
// command carries other's timestamp so a continuing drag keeps merging.
func (m *Move) MergeWith(other Command) Command {
	o := other.(*Move)
	merged := &Move{
		meta:         newMeta(TypeMove, o.description, o.executedBy),
		oldPositions: copyPositions(m.oldPositions),
		newPositions: copyPositions(o.newPositions),
		update:       m.update,
	}
	merged.timestamp = o.timestamp
	return merged
}

func copyPositions(src map[string]geometry.Position) map[string]geometry.Position {
	dst := make(map[string]geometry.Position, len(src))
	for id, p := range src {
		dst[id] = p
	}
	return dst
}

// Resize writes a new size and position for one object; resizing from a
// top or left handle moves the origin too.
type Resize struct {
	meta
	objectID         string
	oldSize, newSize geometry.Size
	oldPos, newPos   geometry.Position
	updateSize       UpdateSizeFunc
	updatePos        UpdatePositionFunc
}

func NewResize(objectID string, oldSize, newSize geometry.Size, oldPos, newPos geometry.Position, executedBy string, updateSize UpdateSizeFunc, updatePos UpdatePositionFunc) *Resize {
	return &Resize{
		meta:       newMeta(TypeResize, "Resize object", executedBy),
		objectID:   objectID,
		oldSize:    oldSize,
		newSize:    newSize,
		oldPos:     oldPos,
		newPos:     newPos,
		updateSize: updateSize,
		updatePos:  updatePos,
	}
}

func (r *Resize) Execute() error {
	if err := r.updateSize(r.objectID, r.newSize); err != nil {
		return err
	}
	return r.updatePos(r.objectID, r.newPos)
}

func (r *Resize) Undo() error {
	if err := r.updateSize(r.objectID, r.oldSize); err != nil {
		return err
	}
	return r.updatePos(r.objectID, r.oldPos)
}

// Rotate writes a new rotation for one object.
type Rotate struct {
	meta
	objectID       string
	oldDeg, newDeg float64
	update         UpdateRotationFunc
}

func NewRotate(objectID string, oldDeg, newDeg float64, executedBy string, update UpdateRotationFunc) *Rotate {
	return &Rotate{
		meta:     newMeta(TypeRotate, "Rotate object", executedBy),
		objectID: objectID,
		oldDeg:   oldDeg,
		newDeg:   newDeg,
		update:   update,
	}
}

func (r *Rotate) Execute() error { return r.update(r.objectID, r.newDeg) }
func (r *Rotate) Undo() error    { return r.update(r.objectID, r.oldDeg) }

// Reorder writes a new z-index per object id.
type Reorder struct {
	meta
	oldZ, newZ map[string]int
	update     UpdateZIndexFunc
}

func NewReorder(oldZ, newZ map[string]int, executedBy string, update UpdateZIndexFunc) *Reorder {
	return &Reorder{
		meta:   newMeta(TypeReorder, "Reorder objects", executedBy),
		oldZ:   copyZ(oldZ),
		newZ:   copyZ(newZ),
		update: update,
	}
}

func (r *Reorder) Execute() error {
	for id, z := range r.newZ {
		if err := r.update(id, z); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reorder) Undo() error {
	for id, z := range r.oldZ {
		if err := r.update(id, z); err != nil {
			return err
		}
	}
	return nil
}

func copyZ(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for id, z := range src {
		dst[id] = z
	}
	return dst
}
