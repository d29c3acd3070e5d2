package container

import (
	"sort"

	"whiteboard-backend/internal/geometry"
)

// DefaultOverlapThreshold is the fraction of an object's area that must lie
// inside a container before auto-containment claims it.
const DefaultOverlapThreshold = 0.5

// ChangeType distinguishes membership change notifications.
type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeRemove ChangeType = "remove"
)

// ChangeEvent is delivered to listeners after a membership change committed.
type ChangeEvent struct {
	ContainerID string     `json:"containerId"`
	ChangeType  ChangeType `json:"changeType"`
	ChildIDs    []string   `json:"childIds"`
}

// AutoContainmentMatch pairs the best-overlapping container with its score.
type AutoContainmentMatch struct {
	Container         Container
	OverlapPercentage float64
}

// Service mediates container/containable relationships for one board. It owns
// two id-keyed registries populated independently of the command system.
// Methods are synchronous and must be called from a single goroutine; the
// owning board serializes access.
type Service struct {
	containers   map[string]Container
	containables map[string]Containable
	listeners    map[int]func(ChangeEvent)
	nextListener int
	threshold    float64
}

// NewService creates an empty registry. A non-positive threshold falls back
// to DefaultOverlapThreshold.
func NewService(threshold float64) *Service {
	if threshold <= 0 {
		threshold = DefaultOverlapThreshold
	}
	return &Service{
		containers:   make(map[string]Container),
		containables: make(map[string]Containable),
		listeners:    make(map[int]func(ChangeEvent)),
		threshold:    threshold,
	}
}

// RegisterContainer makes c available for membership and spatial queries.
func (s *Service) RegisterContainer(c Container) {
	s.containers[c.ContainerID()] = c
}

// UnregisterContainer detaches every current child, then drops the registry
// entry. Children are detached, not deleted: their parent reference and
// cached relative position are cleared but they stay registered.
func (s *Service) UnregisterContainer(id string) bool {
	c, ok := s.containers[id]
	if !ok {
		return false
	}
	for _, childID := range c.ChildIDs() {
		c.RemoveChildID(childID)
		if obj, ok := s.containables[childID]; ok {
			obj.SetParentContainer("")
		}
	}
	delete(s.containers, id)
	return true
}

// RegisterContainable makes obj available for membership operations.
func (s *Service) RegisterContainable(obj Containable) {
	s.containables[obj.ContainableID()] = obj
}

// UnregisterContainable removes obj from the registry, first removing it
// from its container's child list if it is still a member.
func (s *Service) UnregisterContainable(id string) bool {
	if _, ok := s.containables[id]; !ok {
		return false
	}
	s.RemoveFromContainer(id)
	delete(s.containables, id)
	return true
}

// AddToContainer appends childID to the target container's child list and
// updates the child's back-reference and cached relative position. The child
// is silently detached from any previous container first; only one "add"
// notification fires. Returns false, with no side effect, when either id is
// unknown, the container refuses children, or the child is already a member.
func (s *Service) AddToContainer(containerID, childID string) bool {
	c, ok := s.containers[containerID]
	if !ok {
		return false
	}
	obj, ok := s.containables[childID]
	if !ok {
		return false
	}
	if !c.AcceptsChildren() {
		return false
	}
	if obj.ParentContainer() == containerID {
		return false
	}
	if prev, ok := s.containers[obj.ParentContainer()]; ok {
		prev.RemoveChildID(childID)
	}
	if !c.AddChildID(childID) {
		return false
	}
	obj.SetParentContainer(containerID)
	obj.SetRelativePosition(obj.Position().Sub(c.ContentBounds().Origin()))
	s.notify(ChangeEvent{ContainerID: containerID, ChangeType: ChangeAdd, ChildIDs: []string{childID}})
	return true
}

// RemoveFromContainer detaches childID from its current container. Returns
// false when the object is unregistered or not currently contained.
func (s *Service) RemoveFromContainer(childID string) bool {
	obj, ok := s.containables[childID]
	if !ok {
		return false
	}
	parentID := obj.ParentContainer()
	if parentID == "" {
		return false
	}
	if c, ok := s.containers[parentID]; ok {
		c.RemoveChildID(childID)
	}
	obj.SetParentContainer("")
	s.notify(ChangeEvent{ContainerID: parentID, ChangeType: ChangeRemove, ChildIDs: []string{childID}})
	return true
}

// ContainerFor returns the container childID currently belongs to, or nil.
func (s *Service) ContainerFor(childID string) Container {
	obj, ok := s.containables[childID]
	if !ok {
		return nil
	}
	c, ok := s.containers[obj.ParentContainer()]
	if !ok {
		return nil
	}
	return c
}

// Children returns every registered containable listed under containerID, in
// child-list order. Unknown or childless containers yield an empty slice.
func (s *Service) Children(containerID string) []Containable {
	children := []Containable{}
	c, ok := s.containers[containerID]
	if !ok {
		return children
	}
	for _, id := range c.ChildIDs() {
		if obj, ok := s.containables[id]; ok {
			children = append(children, obj)
		}
	}
	return children
}

// ContainersAtPoint returns every registered container whose outer bounds
// contain p, excluding the given ids, sorted by container id.
func (s *Service) ContainersAtPoint(p geometry.Position, excludeIDs ...string) []Container {
	excluded := toSet(excludeIDs)
	hits := []Container{}
	for id, c := range s.containers {
		if excluded[id] {
			continue
		}
		if c.Bounds().ContainsPoint(p) {
			hits = append(hits, c)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ContainerID() < hits[j].ContainerID() })
	return hits
}

// CheckAutoContainment scores every non-excluded container that accepts
// children by the fraction of objectBounds it covers and returns the best
// match clearing the overlap threshold. The second return value is false
// when no container qualifies.
func (s *Service) CheckAutoContainment(objectBounds geometry.BoundingBox, excludeIDs ...string) (AutoContainmentMatch, bool) {
	area := objectBounds.Area()
	if area == 0 {
		return AutoContainmentMatch{}, false
	}
	excluded := toSet(excludeIDs)
	var best AutoContainmentMatch
	found := false
	for id, c := range s.containers {
		if excluded[id] || !c.AcceptsChildren() {
			continue
		}
		overlap := c.Bounds().IntersectionArea(objectBounds) / area
		if overlap < s.threshold {
			continue
		}
		if !found || overlap > best.OverlapPercentage {
			best = AutoContainmentMatch{Container: c, OverlapPercentage: overlap}
			found = true
		}
	}
	return best, found
}

// OnContainerMoved translates every current child of containerID by the
// container's movement delta, keeping relative offsets intact. A zero delta
// is a no-op.
func (s *Service) OnContainerMoved(containerID string, oldPosition, newPosition geometry.Position) {
	delta := newPosition.Sub(oldPosition)
	if delta.IsZero() {
		return
	}
	c, ok := s.containers[containerID]
	if !ok {
		return
	}
	for _, childID := range c.ChildIDs() {
		if obj, ok := s.containables[childID]; ok {
			obj.SetPosition(obj.Position().Add(delta))
		}
	}
}

// AddChangeListener subscribes fn to membership change events and returns a
// removal function. Removing one listener does not affect the others.
func (s *Service) AddChangeListener(fn func(ChangeEvent)) func() {
	token := s.nextListener
	s.nextListener++
	s.listeners[token] = fn
	return func() {
		delete(s.listeners, token)
	}
}

func (s *Service) notify(ev ChangeEvent) {
	for _, fn := range s.listeners {
		fn(ev)
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
