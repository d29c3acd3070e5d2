// Package command implements the reversible board mutation system: one
// command per semantic edit, each carrying the exact data needed to invert
// itself, and a history that executes, merges, undoes and redoes them.
package command

import (
	"time"

	"github.com/google/uuid"

	"whiteboard-backend/internal/geometry"
	"whiteboard-backend/internal/model"
)

// Type tags the command variant.
type Type string

const (
	TypeCreate    Type = "create"
	TypeDelete    Type = "delete"
	TypeMove      Type = "move"
	TypeResize    Type = "resize"
	TypeRotate    Type = "rotate"
	TypeEdit      Type = "edit"
	TypeColor     Type = "color"
	TypeDuplicate Type = "duplicate"
	TypePaste     Type = "paste"
	TypeReorder   Type = "reorder"
	TypeBatch     Type = "batch"
)

// Command is one reversible unit of board mutation. Execute applies the
// forward effect, Undo the exact inverse; both mutate only through the
// callbacks the command was constructed with.
type Command interface {
	ID() string
	Type() Type
	Description() string
	Timestamp() time.Time
	ExecutedBy() string
	Execute() error
	Undo() error
}

// Merger is the optional merge capability. Only move and edit commands
// implement it: a drag gesture or a typing burst collapses into one undo
// step. MergeWith returns a new command whose forward effect equals running
// both in sequence and whose undo restores the state before the first.
type Merger interface {
	Command
	CanMergeWith(other Command) bool
	MergeWith(other Command) Command
}

// Mutation callbacks injected at construction time. Commands never reach
// into a store directly; the board session binds these to its object table.
type (
	AddObjectFunc      func(obj model.Object) error
	RemoveObjectFunc   func(id string) error
	UpdatePositionFunc func(id string, pos geometry.Position) error
	UpdateSizeFunc     func(id string, size geometry.Size) error
	UpdateRotationFunc func(id string, deg float64) error
	UpdateContentFunc  func(id string, content string) error
	UpdateColorsFunc   func(id string, colors model.ColorScheme) error
	UpdateZIndexFunc   func(id string, z int) error
)

// meta carries the identity attributes shared by every variant.
type meta struct {
	id          string
	typ         Type
	description string
	timestamp   time.Time
	executedBy  string
}

func newMeta(typ Type, description, executedBy string) meta {
	return meta{
		id:          uuid.NewString(),
		typ:         typ,
		description: description,
		timestamp:   time.Now(),
		executedBy:  executedBy,
	}
}

func (m meta) ID() string           { return m.id }
func (m meta) Type() Type           { return m.typ }
func (m meta) Description() string  { return m.description }
func (m meta) Timestamp() time.Time { return m.timestamp }
func (m meta) ExecutedBy() string   { return m.executedBy }
