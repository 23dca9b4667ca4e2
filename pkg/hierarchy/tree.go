package hierarchy

import (
	"fmt"
	"math"

	apperr "github.com/matzehuels/treemap/pkg/errors"
)

// NoParent is the Parent index of the root node.
const NoParent = -1

// Node is one element of a Tree. Nodes reference each other by index into
// Tree.Nodes; Parent is NoParent for the root.
type Node struct {
	Index    int
	Name     string
	ID       string // parent.ID + "." + Name, or Name for the root
	Category string // meaningful on leaves only
	Value    float64
	Height   int // 0 for leaves, 1 + max child height otherwise
	Depth    int
	Parent   int
	Children []int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsRoot reports whether the node is the root of its tree.
func (n *Node) IsRoot() bool { return n.Parent == NoParent }

// Tree is an arena of nodes built from a RawRecord. Nodes[0] is the root.
// Every parent precedes its children in Nodes.
type Tree struct {
	Nodes []Node

	// Warnings lists problems tolerated by a lenient build.
	Warnings []string

	byID map[string]int
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Leaves   int
	Groups   int
	MaxDepth int
	Total    float64
}

type buildConfig struct {
	lenient bool
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithLenient makes Build tolerate malformed input the way browser treemap
// scripts do: a missing or non-numeric leaf value counts as 0 and colliding
// ids are kept (the first node wins id lookups). Each tolerated problem is
// recorded in Tree.Warnings.
func WithLenient() BuildOption {
	return func(c *buildConfig) { c.lenient = true }
}

// Build converts raw into a Tree. Ids are assigned top-down, then values and
// heights are computed bottom-up.
//
// In the default strict mode Build fails with a MALFORMED_RECORD error when a
// leaf has no value or an unusable one, or a name is invalid, and with a
// DUPLICATE_ID error when two nodes end up with the same id.
func Build(raw RawRecord, opts ...BuildOption) (*Tree, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Tree{byID: make(map[string]int)}
	if err := t.add(raw, NoParent, cfg); err != nil {
		return nil, err
	}
	t.aggregate()
	return t, nil
}

// add appends rec and its subtree in pre-order.
func (t *Tree) add(rec RawRecord, parent int, cfg buildConfig) error {
	idx := len(t.Nodes)
	n := Node{
		Index:  idx,
		Name:   rec.Name,
		ID:     rec.Name,
		Parent: parent,
	}
	if parent != NoParent {
		p := &t.Nodes[parent]
		n.ID = p.ID + "." + rec.Name
		n.Depth = p.Depth + 1
	}

	if err := apperr.ValidateRecordName(rec.Name); err != nil {
		if !cfg.lenient {
			return apperr.Wrap(apperr.ErrCodeMalformedRecord, err, "record under %q", parentID(t, parent))
		}
		t.warnf("record %q: %s", n.ID, apperr.UserMessage(err))
	}

	if rec.IsLeaf() {
		n.Category = rec.Category
		v, err := leafValue(rec)
		if err != nil {
			if !cfg.lenient {
				return apperr.Wrap(apperr.ErrCodeMalformedRecord, err, "leaf %q", n.ID)
			}
			t.warnf("leaf %q: %s, using 0", n.ID, apperr.UserMessage(err))
			v = 0
		}
		n.Value = v
	}

	if prev, dup := t.byID[n.ID]; dup {
		if !cfg.lenient {
			return apperr.New(apperr.ErrCodeDuplicateID, "id %q is used by nodes %d and %d", n.ID, prev, idx)
		}
		t.warnf("duplicate id %q", n.ID)
	} else {
		t.byID[n.ID] = idx
	}

	t.Nodes = append(t.Nodes, n)
	if parent != NoParent {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}

	for _, child := range rec.Children {
		if err := t.add(child, idx, cfg); err != nil {
			return err
		}
	}
	return nil
}

func leafValue(rec RawRecord) (float64, error) {
	if rec.Value == nil {
		return 0, apperr.New(apperr.ErrCodeMalformedRecord, "missing value")
	}
	v := rec.Value.Float()
	if err := apperr.ValidateValue(v); err != nil {
		return 0, err
	}
	return v, nil
}

func parentID(t *Tree, parent int) string {
	if parent == NoParent {
		return "<root>"
	}
	return t.Nodes[parent].ID
}

// aggregate fills Value and Height of internal nodes. Children always have
// larger indices than their parent, so a reverse scan is a post-order pass.
func (t *Tree) aggregate() {
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			continue
		}
		var sum float64
		height := 0
		for _, c := range n.Children {
			child := &t.Nodes[c]
			sum += child.Value
			height = max(height, child.Height+1)
		}
		n.Value = sum
		n.Height = height
	}
}

func (t *Tree) warnf(format string, args ...any) {
	t.Warnings = append(t.Warnings, fmt.Sprintf(format, args...))
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.Nodes[0] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Node looks a node up by id.
func (t *Tree) Node(id string) (*Node, bool) {
	idx, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return &t.Nodes[idx], true
}

// Walk visits every node in pre-order, following the current child order.
// Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if len(t.Nodes) == 0 {
		return
	}
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[idx]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Leaves returns the leaf indices in pre-order traversal order.
func (t *Tree) Leaves() []int {
	var out []int
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			out = append(out, n.Index)
		}
		return true
	})
	return out
}

// Stats computes summary counts for the tree.
func (t *Tree) Stats() Stats {
	var s Stats
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			s.Leaves++
		} else {
			s.Groups++
		}
		s.MaxDepth = max(s.MaxDepth, n.Depth)
	}
	if len(t.Nodes) > 0 {
		s.Total = t.Root().Value
	}
	if math.IsNaN(s.Total) {
		s.Total = 0
	}
	return s
}
