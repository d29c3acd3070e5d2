package command

import "whiteboard-backend/internal/model"

// EditContent writes new text content for one object. Consecutive edits on
// the same object merge, preserving per-burst undo granularity.
type EditContent struct {
	meta
	objectID   string
	oldContent string
	newContent string
	update     UpdateContentFunc
}

func NewEditContent(objectID, oldContent, newContent, executedBy string, update UpdateContentFunc) *EditContent {
	return &EditContent{
		meta:       newMeta(TypeEdit, "Edit content", executedBy),
		objectID:   objectID,
		oldContent: oldContent,
		newContent: newContent,
		update:     update,
	}
}

func (e *EditContent) Execute() error { return e.update(e.objectID, e.newContent) }
func (e *EditContent) Undo() error    { return e.update(e.objectID, e.oldContent) }

// CanMergeWith accepts another edit on the same object.
func (e *EditContent) CanMergeWith(other Command) bool {
	o, ok := other.(*EditContent)
	return ok && o.objectID == e.objectID
}

// MergeWith keeps e's old content and takes other's new content; the merged
// command carries other's timestamp so a typing burst keeps merging.
func (e *EditContent) MergeWith(other Command) Command {
	o := other.(*EditContent)
	merged := &EditContent{
		meta:       newMeta(TypeEdit, o.description, o.executedBy),
		objectID:   e.objectID,
		oldContent: e.oldContent,
		newContent: o.newContent,
		update:     e.update,
	}
	merged.timestamp = o.timestamp
	return merged
}

// ChangeColor writes new color scheme fields for one object.
type ChangeColor struct {
	meta
	objectID  string
	oldColors model.ColorScheme
	newColors model.ColorScheme
	update    UpdateColorsFunc
}

func NewChangeColor(objectID string, oldColors, newColors model.ColorScheme, executedBy string, update UpdateColorsFunc) *ChangeColor {
	return &ChangeColor{
		meta:      newMeta(TypeColor, "Change colors", executedBy),
		objectID:  objectID,
		oldColors: oldColors,
		newColors: newColors,
		update:    update,
	}
}

func (c *ChangeColor) Execute() error { return c.update(c.objectID, c.newColors) }
func (c *ChangeColor) Undo() error    { return c.update(c.objectID, c.oldColors) }
