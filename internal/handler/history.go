package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"whiteboard-backend/internal/auth"
	"whiteboard-backend/internal/board"
)

// HistoryHandler exposes the undo/redo surface of a board session.
type HistoryHandler struct {
	manager *board.Manager
	log     zerolog.Logger
}

func NewHistoryHandler(manager *board.Manager, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{manager: manager, log: log}
}

func (h *HistoryHandler) open(c *fiber.Ctx) (*board.Board, error) {
	return h.manager.Open(c.Context(), c.Params("id"), auth.UserID(c))
}

// GetState returns the current undo/redo snapshot.
func (h *HistoryHandler) GetState(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	return c.JSON(fiber.Map{"success": true, "state": b.HistoryState()})
}

// Undo reverses the most recent edit. Undoing an empty history succeeds
// with undone=false.
func (h *HistoryHandler) Undo(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	cmd, err := b.Undo()
	if err != nil {
		h.log.Error().Err(err).Str("board", b.ID()).Msg("undo failed")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"undone":  cmd != nil,
		"state":   b.HistoryState(),
	})
}

// Redo re-applies the most recently undone edit.
func (h *HistoryHandler) Redo(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	cmd, err := b.Redo()
	if err != nil {
		h.log.Error().Err(err).Str("board", b.ID()).Msg("redo failed")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"redone":  cmd != nil,
		"state":   b.HistoryState(),
	})
}

// Clear drops both history stacks without touching board state.
func (h *HistoryHandler) Clear(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	b.ClearHistory()
	return c.JSON(fiber.Map{"success": true, "state": b.HistoryState()})
}
