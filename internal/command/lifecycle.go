package command

import "whiteboard-backend/internal/model"

// Create inserts one object on execute and removes it by id on undo.
type Create struct {
	meta
	object model.Object
	add    AddObjectFunc
	remove RemoveObjectFunc
}

func NewCreate(obj model.Object, executedBy string, add AddObjectFunc, remove RemoveObjectFunc) *Create {
	return &Create{
		meta:   newMeta(TypeCreate, "Create "+string(obj.ObjectType()), executedBy),
		object: obj,
		add:    add,
		remove: remove,
	}
}

func (c *Create) Execute() error { return c.add(c.object) }
func (c *Create) Undo() error    { return c.remove(c.object.ObjectID()) }

// Delete removes a set of objects. Deep clones are captured at construction
// time so undo can re-insert them exactly as they were, regardless of what
// happened in between.
type Delete struct {
	meta
	clones []model.Object
	add    AddObjectFunc
	remove RemoveObjectFunc
}

func NewDelete(objects []model.Object, executedBy string, add AddObjectFunc, remove RemoveObjectFunc) *Delete {
	clones := make([]model.Object, 0, len(objects))
	for _, o := range objects {
		clones = append(clones, o.Clone())
	}
	return &Delete{
		meta:   newMeta(TypeDelete, "Delete objects", executedBy),
		clones: clones,
		add:    add,
		remove: remove,
	}
}

func (d *Delete) Execute() error {
	for _, c := range d.clones {
		if err := d.remove(c.ObjectID()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Delete) Undo() error {
	for _, c := range d.clones {
		// re-insert a fresh copy so the captured snapshot stays pristine
		if err := d.add(c.Clone()); err != nil {
			return err
		}
	}
	return nil
}

// Duplicate inserts pre-computed clones. The clones are built by the caller
// (fresh ids, offset by a fixed delta) before the command is constructed.
type Duplicate struct {
	meta
	clones []model.Object
	add    AddObjectFunc
	remove RemoveObjectFunc
}

func NewDuplicate(clones []model.Object, executedBy string, add AddObjectFunc, remove RemoveObjectFunc) *Duplicate {
	return &Duplicate{
		meta:   newMeta(TypeDuplicate, "Duplicate objects", executedBy),
		clones: clones,
		add:    add,
		remove: remove,
	}
}

func (d *Duplicate) Execute() error {
	for _, c := range d.clones {
		if err := d.add(c.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Duplicate) Undo() error {
	for _, c := range d.clones {
		if err := d.remove(c.ObjectID()); err != nil {
			return err
		}
	}
	return nil
}

// Paste inserts pre-built objects whose ids were already assigned by the
// clipboard layer.
type Paste struct {
	meta
	objects []model.Object
	add     AddObjectFunc
	remove  RemoveObjectFunc
}

func NewPaste(objects []model.Object, executedBy string, add AddObjectFunc, remove RemoveObjectFunc) *Paste {
	return &Paste{
		meta:    newMeta(TypePaste, "Paste objects", executedBy),
		objects: objects,
		add:     add,
		remove:  remove,
	}
}

func (p *Paste) Execute() error {
	for _, o := range p.objects {
		if err := p.add(o.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Paste) Undo() error {
	for _, o := range p.objects {
		if err := p.remove(o.ObjectID()); err != nil {
			return err
		}
	}
	return nil
}
