package birch

import (
	"fmt"

	"github.com/google/uuid"
)

// Scene is a loaded document: the root-level node ids plus the repository
// that owns them. A Scene is replaced as a whole by Renderer.LoadScene.
type Scene struct {
	ID         uuid.UUID
	Name       string
	Background Color
	Roots      []NodeID
	Nodes      *NodeRepository
}

// NewScene creates an empty scene with a fresh id. A nil repository is
// replaced by an empty one.
func NewScene(name string, nodes *NodeRepository) *Scene {
	if nodes == nil {
		nodes = NewNodeRepository()
	}
	return &Scene{
		ID:         uuid.New(),
		Name:       name,
		Background: ColorWhite,
		Nodes:      nodes,
	}
}

// AddRoot appends a detached node to the scene roots.
func (s *Scene) AddRoot(id NodeID) error {
	if !s.Nodes.Has(id) {
		return fmt.Errorf("birch: add root %d: %w", id, ErrNodeNotFound)
	}
	if _, ok := s.Nodes.Parent(id); ok {
		return fmt.Errorf("birch: add root %d: %w", id, ErrHasParent)
	}
	for _, r := range s.Roots {
		if r == id {
			return nil
		}
	}
	s.Roots = append(s.Roots, id)
	s.Nodes.setRoot(id, true)
	s.Nodes.MarkChanged()
	return nil
}

// RemoveRoot drops id from the scene roots. The node stays in the
// repository, detached.
func (s *Scene) RemoveRoot(id NodeID) error {
	for i, r := range s.Roots {
		if r == id {
			s.Roots = append(s.Roots[:i:i], s.Roots[i+1:]...)
			s.Nodes.setRoot(id, false)
			s.Nodes.MarkChanged()
			return nil
		}
	}
	return fmt.Errorf("birch: remove root %d: %w", id, ErrNotChild)
}

// Move re-parents id as the last child of parent, detaching it from its
// current parent or from the roots first. With parent zero it becomes a
// root. On error the tree is unchanged.
func (s *Scene) Move(parent, id NodeID) error {
	if !s.Nodes.Has(id) {
		return fmt.Errorf("birch: move %d: %w", id, ErrNodeNotFound)
	}
	if parent != 0 {
		switch pe := s.Nodes.entry(parent); {
		case pe == nil:
			return fmt.Errorf("birch: move %d to %d: %w", id, parent, ErrNodeNotFound)
		case parent == id:
			return fmt.Errorf("birch: move %d to %d: %w", id, parent, ErrSelfParent)
		case !isParentKind(pe.node):
			return fmt.Errorf("birch: move %d to %d: %w", id, parent, ErrNotParent)
		case s.Nodes.IsAncestor(id, parent):
			return fmt.Errorf("birch: move %d to %d: %w", id, parent, ErrCycle)
		}
	}
	if s.Nodes.IsRoot(id) {
		if parent == 0 {
			return nil
		}
		if err := s.RemoveRoot(id); err != nil {
			return err
		}
	} else if old, ok := s.Nodes.Parent(id); ok {
		if err := s.Nodes.RemoveChild(old, id); err != nil {
			return err
		}
	}
	if parent == 0 {
		return s.AddRoot(id)
	}
	return s.Nodes.AddChild(parent, id)
}

// Insert adds n to the repository and, when parent is non-zero, attaches it
// as the last child of parent. With parent zero the node becomes a root.
func (s *Scene) Insert(parent NodeID, n Node) (NodeID, error) {
	id := s.Nodes.Insert(n)
	if parent == 0 {
		return id, s.AddRoot(id)
	}
	if err := s.Nodes.AddChild(parent, id); err != nil {
		_ = s.Nodes.Remove(id)
		return 0, err
	}
	return id, nil
}

// Generation returns the repository generation.
func (s *Scene) Generation() uint64 { return s.Nodes.Generation() }

// WalkFunc is called for each node in pre-order. Returning false skips the
// node's children.
type WalkFunc func(id NodeID, n Node, depth int) bool

// Walk visits every node reachable from the roots in pre-order: a parent
// before its children, children in order. Missing ids are skipped.
func (s *Scene) Walk(fn WalkFunc) {
	for _, r := range s.Roots {
		s.walk(r, 0, fn)
	}
}

func (s *Scene) walk(id NodeID, depth int, fn WalkFunc) {
	n, ok := s.Nodes.Get(id)
	if !ok {
		return
	}
	if !fn(id, n, depth) {
		return
	}
	for _, c := range s.Nodes.Children(id) {
		s.walk(c, depth+1, fn)
	}
}
