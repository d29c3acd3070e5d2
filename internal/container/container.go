// Package container maintains the spatial parent/child relationships between
// frame-like containers and the board objects nested inside them.
package container

import (
	"whiteboard-backend/internal/geometry"
)

// ContainmentResult describes how an object's bounds relate to a container's
// content area.
type ContainmentResult struct {
	// IsContained is true only when the object lies entirely within the
	// container's content bounds (outer bounds minus title bar and padding).
	IsContained bool `json:"isContained"`
	// IsOverlapping is true whenever the intersection area is positive.
	IsOverlapping bool `json:"isOverlapping"`
	// OverlapPercentage is intersection area divided by the object's own
	// area: 1.0 when fully contained, 0 when disjoint.
	OverlapPercentage float64 `json:"overlapPercentage"`
}

// Container is the capability of owning an ordered set of child object ids.
// Frames implement it.
type Container interface {
	ContainerID() string
	// Bounds is the container's full outer box.
	Bounds() geometry.BoundingBox
	// ContentBounds is Bounds minus the title bar and padding; children are
	// positioned relative to its origin.
	ContentBounds() geometry.BoundingBox
	// AcceptsChildren is false while the container is locked.
	AcceptsChildren() bool
	// ChildIDs returns a copy of the ordered child id list.
	ChildIDs() []string
	// AddChildID appends id to the child list. Adding an id that is already
	// present is a no-op returning false.
	AddChildID(id string) bool
	// RemoveChildID removes id from the child list, false if absent.
	RemoveChildID(id string) bool
	// CheckContainment tests objectBounds against the container's content
	// area.
	CheckContainment(objectBounds geometry.BoundingBox) ContainmentResult
}

// Containable is the capability of belonging to at most one container. The
// parent reference is an id only, never an owning pointer, so containers and
// containables can be destroyed independently.
type Containable interface {
	ContainableID() string
	Position() geometry.Position
	SetPosition(p geometry.Position)
	// ParentContainer returns the owning container id, or "" when detached.
	ParentContainer() string
	// SetParentContainer updates the weak back-reference. Passing "" detaches
	// the object and clears its cached relative position.
	SetParentContainer(id string)
	// RelativePosition is the cached position relative to the parent's
	// content origin; the second return value is false while detached.
	RelativePosition() (geometry.Position, bool)
	SetRelativePosition(p geometry.Position)
}
