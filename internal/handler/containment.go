package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"whiteboard-backend/internal/auth"
	"whiteboard-backend/internal/board"
	"whiteboard-backend/internal/geometry"
)

// ContainmentHandler exposes frame membership and the drag-and-drop
// queries (point hit testing, auto-containment scoring).
type ContainmentHandler struct {
	manager *board.Manager
	log     zerolog.Logger
}

func NewContainmentHandler(manager *board.Manager, log zerolog.Logger) *ContainmentHandler {
	return &ContainmentHandler{manager: manager, log: log}
}

func (h *ContainmentHandler) open(c *fiber.Ctx) (*board.Board, error) {
	return h.manager.Open(c.Context(), c.Params("id"), auth.UserID(c))
}

// AddChild attaches an object to a frame.
func (h *ContainmentHandler) AddChild(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	frameID := c.Params("frameId")
	childID := c.Params("childId")
	if !b.AttachToFrame(frameID, childID) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "cannot attach object to frame"})
	}
	return c.JSON(fiber.Map{"success": true, "containerId": frameID})
}

// RemoveChild detaches an object from its current frame.
func (h *ContainmentHandler) RemoveChild(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	childID := c.Params("childId")
	if !b.DetachFromFrame(childID) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "object is not contained"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetChildren lists the objects nested in a frame.
func (h *ContainmentHandler) GetChildren(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	children := b.FrameChildren(c.Params("frameId"))
	ids := make([]string, 0, len(children))
	for _, child := range children {
		ids = append(ids, child.ObjectID())
	}
	return c.JSON(fiber.Map{"success": true, "childIds": ids})
}

// AtPoint returns frames whose bounds contain the query point.
func (h *ContainmentHandler) AtPoint(c *fiber.Ctx) error {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "x and y query parameters are required"})
	}
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	ids := b.FramesAtPoint(geometry.Position{X: x, Y: y})
	return c.JSON(fiber.Map{"success": true, "containerIds": ids})
}

// AutoContain scores a dragged object's bounds against every frame and
// reports the best drop target, if any clears the threshold.
func (h *ContainmentHandler) AutoContain(c *fiber.Ctx) error {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	w, errW := strconv.ParseFloat(c.Query("width"), 64)
	ht, errH := strconv.ParseFloat(c.Query("height"), 64)
	if errX != nil || errY != nil || errW != nil || errH != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "x, y, width and height query parameters are required"})
	}
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	bounds := geometry.BoundingBox{X: x, Y: y, Width: w, Height: ht}
	var exclude []string
	if id := c.Query("exclude"); id != "" {
		exclude = append(exclude, id)
	}
	frameID, overlap, ok := b.AutoContain(bounds, exclude...)
	if !ok {
		return c.JSON(fiber.Map{"success": true, "match": nil})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"match": fiber.Map{
			"containerId":       frameID,
			"overlapPercentage": overlap,
		},
	})
}

// Drop resolves containment for an object after a drag gesture ends.
func (h *ContainmentHandler) Drop(c *fiber.Ctx) error {
	b, err := h.open(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	frameID, attached := b.DropObject(c.Params("childId"))
	return c.JSON(fiber.Map{
		"success":     true,
		"attached":    attached,
		"containerId": frameID,
	})
}
