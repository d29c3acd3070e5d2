package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"whiteboard-backend/internal/auth"
	"whiteboard-backend/internal/board"
	"whiteboard-backend/internal/command"
	"whiteboard-backend/internal/geometry"
	"whiteboard-backend/internal/model"
)

// BoardHandler exposes board editing over HTTP. Every edit flows through
// the board's command history so it stays undoable.
type BoardHandler struct {
	manager *board.Manager
	log     zerolog.Logger
}

func NewBoardHandler(manager *board.Manager, log zerolog.Logger) *BoardHandler {
	return &BoardHandler{manager: manager, log: log}
}

// CommandRequest is the edit envelope. Type selects the variant; only the
// matching fields are read. Batch wraps a list of child envelopes.
type CommandRequest struct {
	Type        string                       `json:"type"`
	Description string                       `json:"description,omitempty"`
	Objects     json.RawMessage              `json:"objects,omitempty"`   // create/paste: type-tagged object list
	IDs         []string                     `json:"ids,omitempty"`       // delete/duplicate
	Positions   map[string]geometry.Position `json:"positions,omitempty"` // move
	ObjectID    string                       `json:"objectId,omitempty"`
	Size        *geometry.Size               `json:"size,omitempty"`
	Position    *geometry.Position           `json:"position,omitempty"`
	Rotation    *float64                     `json:"rotation,omitempty"`
	Content     *string                      `json:"content,omitempty"`
	Colors      *model.ColorScheme           `json:"colors,omitempty"`
	ZIndexes    map[string]int               `json:"zIndexes,omitempty"` // reorder
	Offset      *geometry.Position           `json:"offset,omitempty"`   // duplicate
	Commands    []CommandRequest             `json:"commands,omitempty"` // batch children
}

// ApplyCommand executes one edit (or batch) on the board.
func (h *BoardHandler) ApplyCommand(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	b, err := h.manager.Open(c.Context(), c.Params("id"), userID)
	if err != nil {
		h.log.Warn().Err(err).Str("board", c.Params("id")).Msg("open board failed")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}

	if req.Type == string(command.TypeBatch) {
		ops := make([]board.Op, 0, len(req.Commands))
		for _, child := range req.Commands {
			op, err := toOp(child)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			ops = append(ops, op)
		}
		description := req.Description
		if description == "" {
			description = "Batch edit"
		}
		if err := b.ApplyBatch(userID, description, ops); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
	} else {
		op, err := toOp(req)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err := b.Apply(userID, op); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"state":   b.HistoryState(),
	})
}

func toOp(req CommandRequest) (board.Op, error) {
	op := board.Op{
		Kind:      command.Type(req.Type),
		IDs:       req.IDs,
		Positions: req.Positions,
		ObjectID:  req.ObjectID,
		Size:      req.Size,
		Position:  req.Position,
		Rotation:  req.Rotation,
		Content:   req.Content,
		Colors:    req.Colors,
		ZIndexes:  req.ZIndexes,
	}
	if req.Offset != nil {
		op.Offset = *req.Offset
	}
	if len(req.Objects) > 0 {
		objects, err := model.UnmarshalObjects(req.Objects)
		if err != nil {
			return board.Op{}, err
		}
		switch op.Kind {
		case command.TypeCreate:
			if len(objects) != 1 {
				return board.Op{}, fiber.NewError(fiber.StatusBadRequest, "create takes exactly one object")
			}
			op.Object = objects[0]
		default:
			op.Objects = objects
		}
	}
	return op, nil
}

// GetObjects returns the board's object set, served from live state or the
// snapshot cache when possible.
func (h *BoardHandler) GetObjects(c *fiber.Ctx) error {
	boardID := c.Params("id")
	if data, ok := h.manager.CachedSnapshot(c.Context(), boardID); ok {
		c.Set("Content-Type", "application/json")
		return c.Send(data)
	}

	b, err := h.manager.Open(c.Context(), boardID, auth.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	data, err := b.Snapshot()
	if err != nil {
		h.log.Error().Err(err).Str("board", boardID).Msg("snapshot failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to serialize board"})
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

// Checkpoint persists the board's current snapshot.
func (h *BoardHandler) Checkpoint(c *fiber.Ctx) error {
	boardID := c.Params("id")
	if err := h.manager.Checkpoint(c.Context(), boardID); err != nil {
		h.log.Error().Err(err).Str("board", boardID).Msg("checkpoint failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "checkpoint failed"})
	}
	return c.JSON(fiber.Map{"success": true})
}
