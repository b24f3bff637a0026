package birch

import (
	"errors"
	"fmt"
)

// Errors returned by structural edits. They are wrapped with the ids
// involved; test with errors.Is.
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrCycle        = errors.New("child is an ancestor of parent")
	ErrHasParent    = errors.New("child already has a parent")
	ErrNotParent    = errors.New("node cannot hold children")
	ErrSelfParent   = errors.New("node cannot be its own child")
	ErrNotChild     = errors.New("node is not a child of parent")
)

// entry is one arena slot. A nil node marks a removed slot; ids are never
// reused. root is set while the node is listed in a Scene's roots.
type entry struct {
	node     Node
	parent   NodeID
	root     bool
	children []NodeID
}

// NodeRepository owns every node of a scene in an arena keyed by NodeID and
// keeps the parent/child links acyclic. Every edit advances Generation.
//
// A NodeRepository is not safe for concurrent use.
type NodeRepository struct {
	entries    []entry // entries[id-1]
	live       int
	generation uint64
}

// NewNodeRepository returns an empty repository.
func NewNodeRepository() *NodeRepository {
	return &NodeRepository{}
}

// Insert adds n as a detached node, assigns its ID and returns it.
func (r *NodeRepository) Insert(n Node) NodeID {
	if n == nil {
		panic("birch: cannot insert nil node")
	}
	r.entries = append(r.entries, entry{node: n})
	id := NodeID(len(r.entries))
	n.Common().ID = id
	r.live++
	r.generation++
	return id
}

func (r *NodeRepository) entry(id NodeID) *entry {
	if id == 0 || int(id) > len(r.entries) {
		return nil
	}
	e := &r.entries[id-1]
	if e.node == nil {
		return nil
	}
	return e
}

// Get returns the node with the given id.
func (r *NodeRepository) Get(id NodeID) (Node, bool) {
	e := r.entry(id)
	if e == nil {
		return nil, false
	}
	return e.node, true
}

// Has reports whether id names a live node.
func (r *NodeRepository) Has(id NodeID) bool { return r.entry(id) != nil }

// Len returns the number of live nodes.
func (r *NodeRepository) Len() int { return r.live }

// Generation is a counter that advances on every edit. Derived caches
// compare it to skip redundant rebuilds.
func (r *NodeRepository) Generation() uint64 { return r.generation }

// MarkChanged advances the generation after node properties were edited in
// place through a pointer returned by Get.
func (r *NodeRepository) MarkChanged() { r.generation++ }

// Parent returns the parent of id, if it has one.
func (r *NodeRepository) Parent(id NodeID) (NodeID, bool) {
	e := r.entry(id)
	if e == nil || e.parent == 0 {
		return 0, false
	}
	return e.parent, true
}

// Children returns the ordered child ids of id. The slice must not be
// modified.
func (r *NodeRepository) Children(id NodeID) []NodeID {
	e := r.entry(id)
	if e == nil {
		return nil
	}
	return e.children
}

// IsRoot reports whether id is listed as a scene root.
func (r *NodeRepository) IsRoot(id NodeID) bool {
	e := r.entry(id)
	return e != nil && e.root
}

func (r *NodeRepository) setRoot(id NodeID, root bool) {
	if e := r.entry(id); e != nil {
		e.root = root
	}
}

// IsAncestor reports whether candidate is a strict ancestor of id.
func (r *NodeRepository) IsAncestor(candidate, id NodeID) bool {
	for p, ok := r.Parent(id); ok; p, ok = r.Parent(p) {
		if p == candidate {
			return true
		}
	}
	return false
}

// Depth returns the number of ancestors of id.
func (r *NodeRepository) Depth(id NodeID) int {
	d := 0
	for p, ok := r.Parent(id); ok; p, ok = r.Parent(p) {
		d++
	}
	return d
}

// AddChild appends child to parent's children. The child must be detached
// and not a scene root; see Scene.Move.
func (r *NodeRepository) AddChild(parent, child NodeID) error {
	pe, err := r.checkAdd(parent, child)
	if err != nil {
		return err
	}
	pe.children = append(pe.children, child)
	r.entry(child).parent = parent
	r.generation++
	return nil
}

// AddChildAt inserts child into parent's children at index.
func (r *NodeRepository) AddChildAt(parent, child NodeID, index int) error {
	pe, err := r.checkAdd(parent, child)
	if err != nil {
		return err
	}
	if index < 0 || index > len(pe.children) {
		return fmt.Errorf("birch: add child %d to %d: index %d out of range", child, parent, index)
	}
	pe.children = append(pe.children, 0)
	copy(pe.children[index+1:], pe.children[index:])
	pe.children[index] = child
	r.entry(child).parent = parent
	r.generation++
	return nil
}

func (r *NodeRepository) checkAdd(parent, child NodeID) (*entry, error) {
	wrap := func(err error) error {
		return fmt.Errorf("birch: add child %d to %d: %w", child, parent, err)
	}
	pe, ce := r.entry(parent), r.entry(child)
	switch {
	case pe == nil || ce == nil:
		return nil, wrap(ErrNodeNotFound)
	case parent == child:
		return nil, wrap(ErrSelfParent)
	case !isParentKind(pe.node):
		return nil, wrap(ErrNotParent)
	case ce.parent != 0 || ce.root:
		return nil, wrap(ErrHasParent)
	case r.IsAncestor(child, parent):
		return nil, wrap(ErrCycle)
	}
	return pe, nil
}

// RemoveChild detaches child from parent. The child stays in the repository.
func (r *NodeRepository) RemoveChild(parent, child NodeID) error {
	ce := r.entry(child)
	if ce == nil || r.entry(parent) == nil {
		return fmt.Errorf("birch: remove child %d from %d: %w", child, parent, ErrNodeNotFound)
	}
	if ce.parent != parent {
		return fmt.Errorf("birch: remove child %d from %d: %w", child, parent, ErrNotChild)
	}
	r.detach(child)
	r.generation++
	return nil
}

// Remove deletes id and its whole subtree.
func (r *NodeRepository) Remove(id NodeID) error {
	if r.entry(id) == nil {
		return fmt.Errorf("birch: remove %d: %w", id, ErrNodeNotFound)
	}
	r.detach(id)
	r.free(id)
	r.generation++
	return nil
}

func (r *NodeRepository) detach(id NodeID) {
	e := r.entry(id)
	if e.parent == 0 {
		return
	}
	pe := r.entry(e.parent)
	for i, c := range pe.children {
		if c == id {
			pe.children = append(pe.children[:i], pe.children[i+1:]...)
			break
		}
	}
	e.parent = 0
}

func (r *NodeRepository) free(id NodeID) {
	e := r.entry(id)
	for _, c := range e.children {
		r.free(c)
	}
	*e = entry{}
	r.live--
}
