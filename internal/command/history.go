package command

import (
	"time"
)

// Defaults applied by NewHistory when a config value is non-positive.
const (
	DefaultMaxHistorySize = 50
	DefaultMergeWindow    = 300 * time.Millisecond
)

// Action tags a history notification.
type Action string

const (
	ActionExecute Action = "execute"
	ActionUndo    Action = "undo"
	ActionRedo    Action = "redo"
	ActionClear   Action = "clear"
)

// State is a read-only snapshot of the history, safe to hand to callers.
type State struct {
	CanUndo         bool   `json:"canUndo"`
	CanRedo         bool   `json:"canRedo"`
	UndoCount       int    `json:"undoCount"`
	RedoCount       int    `json:"redoCount"`
	UndoDescription string `json:"undoDescription,omitempty"`
	RedoDescription string `json:"redoDescription,omitempty"`
}

// Event is delivered to OnChange subscribers after every committed history
// mutation. Command is nil for clear.
type Event struct {
	State   State
	Command Command
	Action  Action
}

// History is the undo/redo engine for one board. Both stacks are ordered
// oldest first, most recently executed last, and are mutated only through
// Execute, Undo, Redo and Clear. Methods are synchronous; the owning board
// serializes access. Listener callbacks run inline and must not re-enter
// the history.
type History struct {
	undoStack    []Command
	redoStack    []Command
	maxSize      int
	mergeWindow  time.Duration
	listeners    map[int]func(Event)
	nextListener int
}

// NewHistory creates an empty history. Non-positive parameters fall back to
// the package defaults.
func NewHistory(maxSize int, mergeWindow time.Duration) *History {
	if maxSize <= 0 {
		maxSize = DefaultMaxHistorySize
	}
	if mergeWindow <= 0 {
		mergeWindow = DefaultMergeWindow
	}
	return &History{
		maxSize:     maxSize,
		mergeWindow: mergeWindow,
		listeners:   make(map[int]func(Event)),
	}
}

// Execute applies cmd's forward effect and records it. When the top of the
// undo stack can merge with cmd and cmd arrived within the merge window,
// the top entry is replaced by the merged command instead of pushing a new
// one, so a drag gesture collapses into a single undo step. Either way the
// redo stack is cleared and the oldest entry is evicted, silently, once the
// stack exceeds its cap. On error nothing is recorded and the redo stack is
// left untouched.
func (h *History) Execute(cmd Command) error {
	if top, ok := h.mergeTarget(cmd); ok {
		if err := cmd.Execute(); err != nil {
			return err
		}
		merged := top.MergeWith(cmd)
		h.undoStack[len(h.undoStack)-1] = merged
		h.redoStack = h.redoStack[:0]
		h.notify(Event{State: h.State(), Command: merged, Action: ActionExecute})
		return nil
	}

	if err := cmd.Execute(); err != nil {
		return err
	}
	h.undoStack = append(h.undoStack, cmd)
	h.redoStack = h.redoStack[:0]
	if len(h.undoStack) > h.maxSize {
		over := len(h.undoStack) - h.maxSize
		h.undoStack = append(h.undoStack[:0:0], h.undoStack[over:]...)
	}
	h.notify(Event{State: h.State(), Command: cmd, Action: ActionExecute})
	return nil
}

func (h *History) mergeTarget(cmd Command) (Merger, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	top, ok := h.undoStack[len(h.undoStack)-1].(Merger)
	if !ok || !top.CanMergeWith(cmd) {
		return nil, false
	}
	if cmd.Timestamp().Sub(top.Timestamp()) >= h.mergeWindow {
		return nil, false
	}
	return top, true
}

// Undo reverses the most recent entry and moves it to the redo stack.
// Returns (nil, nil) when there is nothing to undo. If the command's undo
// fails, the entry is restored to the undo stack before the error is
// returned, so the stacks stay consistent with live state as far as the
// history can know it.
func (h *History) Undo() (Command, error) {
	if len(h.undoStack) == 0 {
		return nil, nil
	}
	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	if err := top.Undo(); err != nil {
		h.undoStack = append(h.undoStack, top)
		return nil, err
	}
	h.redoStack = append(h.redoStack, top)
	h.notify(Event{State: h.State(), Command: top, Action: ActionUndo})
	return top, nil
}

// Redo re-applies the most recently undone entry and moves it back to the
// undo stack. Returns (nil, nil) when there is nothing to redo. A failing
// re-execution restores the entry to the redo stack.
func (h *History) Redo() (Command, error) {
	if len(h.redoStack) == 0 {
		return nil, nil
	}
	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	if err := top.Execute(); err != nil {
		h.redoStack = append(h.redoStack, top)
		return nil, err
	}
	h.undoStack = append(h.undoStack, top)
	h.notify(Event{State: h.State(), Command: top, Action: ActionRedo})
	return top, nil
}

// Clear empties both stacks without invoking any command.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.notify(Event{State: h.State(), Action: ActionClear})
}

// State returns a defensive snapshot of the stack tops and counts.
func (h *History) State() State {
	s := State{
		CanUndo:   len(h.undoStack) > 0,
		CanRedo:   len(h.redoStack) > 0,
		UndoCount: len(h.undoStack),
		RedoCount: len(h.redoStack),
	}
	if s.CanUndo {
		s.UndoDescription = h.undoStack[len(h.undoStack)-1].Description()
	}
	if s.CanRedo {
		s.RedoDescription = h.redoStack[len(h.redoStack)-1].Description()
	}
	return s
}

// OnChange subscribes fn to history notifications and returns an
// unsubscribe function. Unsubscribing one listener leaves the others
// untouched.
func (h *History) OnChange(fn func(Event)) func() {
	token := h.nextListener
	h.nextListener++
	h.listeners[token] = fn
	return func() {
		delete(h.listeners, token)
	}
}

func (h *History) notify(ev Event) {
	for _, fn := range h.listeners {
		fn(ev)
	}
}
