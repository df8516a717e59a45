package tree

import (
	"context"
	"fmt"
)

// Error is the kind of the errors returned by this package.
type Error string

/*
ErrNoBranch is the error returned when classifying if the answer
given to the question of an inner node does not match any of its
children.
*/
const ErrNoBranch = Error("no branch for answer")

// ErrEmptyTree is the error returned when classifying with a tree without nodes.
const ErrEmptyTree = Error("empty tree")

func (e Error) Error() string {
	return string(e)
}

// Handle identifies a node inside a Tree.
type Handle int

// NoParent is the parent handle recorded for the root of a Tree.
const NoParent Handle = -1

type entry[Q any, A comparable] struct {
	node   Node[Q, A]
	parent Handle
	answer A
}

/*
Tree indexes the nodes reachable from a root node. Nodes only hold their
children, so the tree keeps for every node the handle of its parent and
the answer under which it was reached from it. The tree must not be
modified after calling New.
*/
type Tree[Q any, A comparable] struct {
	entries []entry[Q, A]
	handles map[Node[Q, A]]Handle
}

/*
Step is one decision taken on the way from the root of a tree to one of
its nodes: the question asked and the answer that was followed.
*/
type Step[Q any, A comparable] struct {
	Question Q
	Answer   A
}

// New takes the root of a tree and returns a Tree indexing all its nodes.
// Handles are assigned in preorder with children visited by Answers order.
func New[Q any, A comparable](root Node[Q, A]) *Tree[Q, A] {
	t := &Tree[Q, A]{handles: make(map[Node[Q, A]]Handle)}
	if root != nil {
		var zero A
		t.index(root, NoParent, zero)
	}
	return t
}

func (t *Tree[Q, A]) index(n Node[Q, A], parent Handle, answer A) {
	h := Handle(len(t.entries))
	t.entries = append(t.entries, entry[Q, A]{node: n, parent: parent, answer: answer})
	t.handles[n] = h
	if in, ok := n.(*Inner[Q, A]); ok {
		for _, a := range in.Answers() {
			t.index(in.Children[a], h, a)
		}
	}
}

// Root returns the root node of the tree, or nil for an empty tree.
func (t *Tree[Q, A]) Root() Node[Q, A] {
	if len(t.entries) == 0 {
		return nil
	}
	return t.entries[0].node
}

// Size returns the number of nodes in the tree.
func (t *Tree[Q, A]) Size() int {
	return len(t.entries)
}

// Handle returns the handle for the given node and whether it belongs to the tree.
func (t *Tree[Q, A]) Handle(n Node[Q, A]) (Handle, bool) {
	h, ok := t.handles[n]
	return h, ok
}

// Node returns the node with the given handle and whether there is one.
func (t *Tree[Q, A]) Node(h Handle) (Node[Q, A], bool) {
	if h < 0 || int(h) >= len(t.entries) {
		return nil, false
	}
	return t.entries[h].node, true
}

/*
Parent takes a node and returns its parent node and the answer leading
from the parent to it. The boolean is false for the root and for nodes
not in the tree.
*/
func (t *Tree[Q, A]) Parent(n Node[Q, A]) (Node[Q, A], A, bool) {
	var zero A
	h, ok := t.handles[n]
	if !ok {
		return nil, zero, false
	}
	e := t.entries[h]
	if e.parent == NoParent {
		return nil, zero, false
	}
	return t.entries[e.parent].node, e.answer, true
}

/*
Path returns the steps leading from the root to the given node, or false
if the node is not in the tree. The path of the root is empty.
*/
func (t *Tree[Q, A]) Path(n Node[Q, A]) ([]Step[Q, A], bool) {
	h, ok := t.handles[n]
	if !ok {
		return nil, false
	}
	var path []Step[Q, A]
	for e := t.entries[h]; e.parent != NoParent; e = t.entries[e.parent] {
		parent := t.entries[e.parent].node.(*Inner[Q, A])
		path = append(path, Step[Q, A]{Question: parent.Question, Answer: e.answer})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// Depth returns the number of edges on the longest path from the root to a leaf.
func (t *Tree[Q, A]) Depth() int {
	depths := make([]int, len(t.entries))
	var deepest int
	for h, e := range t.entries {
		if e.parent != NoParent {
			depths[h] = depths[e.parent] + 1
		}
		if depths[h] > deepest {
			deepest = depths[h]
		}
	}
	return deepest
}

// Leaves returns the leaf nodes of the tree in preorder.
func (t *Tree[Q, A]) Leaves() []*Leaf[Q, A] {
	var leaves []*Leaf[Q, A]
	for _, e := range t.entries {
		if l, ok := e.node.(*Leaf[Q, A]); ok {
			leaves = append(leaves, l)
		}
	}
	return leaves
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context is done, the context error is returned.
// If the call to the function returns an error, the traversing
// is aborted and the error is returned.
func (t *Tree[Q, A]) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node[Q, A]) error) error {
	root := t.Root()
	if root == nil {
		return nil
	}
	return traverse(ctx, root, bottomup, f)
}

func traverse[Q any, A comparable](ctx context.Context, n Node[Q, A], bottomup bool, f func(context.Context, Node[Q, A]) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bottomup {
		if err := f(ctx, n); err != nil {
			return err
		}
	}
	if in, ok := n.(*Inner[Q, A]); ok {
		for _, a := range in.Answers() {
			if err := traverse(ctx, in.Children[a], bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

/*
Classify walks the tree from its root, asking answerFor the question of
every inner node it reaches and following the child for the returned
answer. It returns the answer of the leaf it arrives to, an error wrapping
ErrNoBranch if an answer does not match any child or the error returned by
answerFor.
*/
func (t *Tree[Q, A]) Classify(ctx context.Context, answerFor func(context.Context, Q) (A, error)) (A, error) {
	var zero A
	n := t.Root()
	if n == nil {
		return zero, ErrEmptyTree
	}
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		switch v := n.(type) {
		case *Leaf[Q, A]:
			return v.Answer, nil
		case *Inner[Q, A]:
			a, err := answerFor(ctx, v.Question)
			if err != nil {
				return zero, fmt.Errorf("answering %v: %w", v.Question, err)
			}
			child, ok := v.Children[a]
			if !ok {
				return zero, fmt.Errorf("%w %v to question %v", ErrNoBranch, a, v.Question)
			}
			n = child
		default:
			return zero, fmt.Errorf("unexpected node %T", n)
		}
	}
}

func (t *Tree[Q, A]) String() string {
	return Diagram(t.Root())
}
