package board

import (
	"fmt"
	"time"

	"whiteboard-backend/internal/command"
	"whiteboard-backend/internal/geometry"
	"whiteboard-backend/internal/model"
)

// Op describes one board edit before it becomes a command. Exactly the
// fields relevant to Kind are set; the rest stay zero.
type Op struct {
	Kind      command.Type
	Object    model.Object                 // create
	Objects   []model.Object               // paste
	IDs       []string                     // delete, duplicate
	Positions map[string]geometry.Position // move targets
	ObjectID  string                       // resize, rotate, edit, color
	Size      *geometry.Size               // resize
	Position  *geometry.Position           // resize origin, optional
	Rotation  *float64                     // rotate
	Content   *string                      // edit
	Colors    *model.ColorScheme           // color
	ZIndexes  map[string]int               // reorder targets
	Offset    geometry.Position            // duplicate delta
}

// Apply turns op into a command bound to this board's callbacks, captures
// the old values it needs to invert, and runs it through the history.
func (b *Board) Apply(actor string, op Op) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = time.Now()
	cmd, err := b.buildCommand(actor, op)
	if err != nil {
		return err
	}
	if err := b.history.Execute(cmd); err != nil {
		return err
	}
	b.version++
	return nil
}

// ApplyBatch runs ops as one atomic history entry: forward in order,
// undone in reverse.
func (b *Board) ApplyBatch(actor, description string, ops []Op) error {
	if len(ops) == 0 {
		return fmt.Errorf("empty batch")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastAccess = time.Now()
	children := make([]command.Command, 0, len(ops))
	for _, op := range ops {
		cmd, err := b.buildCommand(actor, op)
		if err != nil {
			return err
		}
		children = append(children, cmd)
	}
	if err := b.history.Execute(command.NewBatch(description, actor, children...)); err != nil {
		return err
	}
	b.version++
	return nil
}

// buildCommand snapshots every "old" value at construction time, before any
// mutation runs, so undo stays exact whatever happens in between. Caller
// holds the board lock.
func (b *Board) buildCommand(actor string, op Op) (command.Command, error) {
	switch op.Kind {
	case command.TypeCreate:
		if op.Object == nil {
			return nil, fmt.Errorf("create: missing object")
		}
		return command.NewCreate(op.Object, actor, b.addObject, b.removeObject), nil

	case command.TypeDelete:
		objects, err := b.lookupAll(op.IDs)
		if err != nil {
			return nil, err
		}
		return command.NewDelete(objects, actor, b.addObject, b.removeObject), nil

	case command.TypeMove:
		if len(op.Positions) == 0 {
			return nil, fmt.Errorf("move: no targets")
		}
		old := make(map[string]geometry.Position, len(op.Positions))
		for id := range op.Positions {
			obj, exists := b.objects[id]
			if !exists {
				return nil, fmt.Errorf("move: object %s not on board", id)
			}
			old[id] = obj.Position()
		}
		return command.NewMove(old, op.Positions, actor, b.updatePosition), nil

	case command.TypeResize:
		obj, exists := b.objects[op.ObjectID]
		if !exists {
			return nil, fmt.Errorf("resize: object %s not on board", op.ObjectID)
		}
		if op.Size == nil {
			return nil, fmt.Errorf("resize: missing size")
		}
		newPos := obj.Position()
		if op.Position != nil {
			newPos = *op.Position
		}
		return command.NewResize(op.ObjectID, obj.Size(), *op.Size, obj.Position(), newPos, actor, b.updateSize, b.updatePosition), nil

	case command.TypeRotate:
		obj, exists := b.objects[op.ObjectID]
		if !exists {
			return nil, fmt.Errorf("rotate: object %s not on board", op.ObjectID)
		}
		if op.Rotation == nil {
			return nil, fmt.Errorf("rotate: missing rotation")
		}
		return command.NewRotate(op.ObjectID, obj.Rotation(), *op.Rotation, actor, b.updateRotation), nil

	case command.TypeEdit:
		obj, exists := b.objects[op.ObjectID]
		if !exists {
			return nil, fmt.Errorf("edit: object %s not on board", op.ObjectID)
		}
		holder, ok := obj.(model.ContentHolder)
		if !ok {
			return nil, fmt.Errorf("edit: object %s has no editable content", op.ObjectID)
		}
		if op.Content == nil {
			return nil, fmt.Errorf("edit: missing content")
		}
		return command.NewEditContent(op.ObjectID, holder.Content(), *op.Content, actor, b.updateContent), nil

	case command.TypeColor:
		obj, exists := b.objects[op.ObjectID]
		if !exists {
			return nil, fmt.Errorf("color: object %s not on board", op.ObjectID)
		}
		colorable, ok := obj.(model.Colorable)
		if !ok {
			return nil, fmt.Errorf("color: object %s has no color scheme", op.ObjectID)
		}
		if op.Colors == nil {
			return nil, fmt.Errorf("color: missing colors")
		}
		return command.NewChangeColor(op.ObjectID, colorable.Colors(), *op.Colors, actor, b.updateColors), nil

	case command.TypeDuplicate:
		sources, err := b.lookupAll(op.IDs)
		if err != nil {
			return nil, err
		}
		clones := make([]model.Object, 0, len(sources))
		for _, src := range sources {
			clones = append(clones, model.CloneOffset(src, op.Offset.X, op.Offset.Y))
		}
		return command.NewDuplicate(clones, actor, b.addObject, b.removeObject), nil

	case command.TypePaste:
		if len(op.Objects) == 0 {
			return nil, fmt.Errorf("paste: no objects")
		}
		return command.NewPaste(op.Objects, actor, b.addObject, b.removeObject), nil

	case command.TypeReorder:
		if len(op.ZIndexes) == 0 {
			return nil, fmt.Errorf("reorder: no targets")
		}
		old := make(map[string]int, len(op.ZIndexes))
		for id := range op.ZIndexes {
			obj, exists := b.objects[id]
			if !exists {
				return nil, fmt.Errorf("reorder: object %s not on board", id)
			}
			old[id] = obj.ZIndex()
		}
		return command.NewReorder(old, op.ZIndexes, actor, b.updateZIndex), nil

	default:
		return nil, fmt.Errorf("unsupported command type %q", op.Kind)
	}
}

func (b *Board) lookupAll(ids []string) ([]model.Object, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no object ids given")
	}
	objects := make([]model.Object, 0, len(ids))
	for _, id := range ids {
		obj, exists := b.objects[id]
		if !exists {
			return nil, fmt.Errorf("object %s not on board", id)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
