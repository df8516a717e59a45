package tree

import (
	"fmt"
	"sort"
)

/*
Node is a node of a decision tree: either an *Inner node asking a question
of type Q or a *Leaf node holding a final answer of type A. Consumers tell
them apart with a type switch.
*/
type Node[Q any, A comparable] interface {
	// Size returns the number of nodes in the subtree rooted at the node.
	Size() int
	node(Q, A)
}

/*
Inner is a node that tests an attribute. Its question identifies the
attribute and its children are keyed by the answers to that question.
*/
type Inner[Q any, A comparable] struct {
	Question Q
	Children map[A]Node[Q, A]
}

/*
Leaf is a terminal node holding the answer to the question the whole tree
is about.
*/
type Leaf[Q any, A comparable] struct {
	Answer A
}

// NewInner returns an inner node with the given question and no children yet.
func NewInner[Q any, A comparable](question Q) *Inner[Q, A] {
	return &Inner[Q, A]{Question: question, Children: make(map[A]Node[Q, A])}
}

// NewLeaf returns a leaf node with the given answer.
func NewLeaf[Q any, A comparable](answer A) *Leaf[Q, A] {
	return &Leaf[Q, A]{Answer: answer}
}

// Size returns 1 plus the size of every child.
func (n *Inner[Q, A]) Size() int {
	size := 1
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// Size returns 1.
func (n *Leaf[Q, A]) Size() int {
	return 1
}

/*
Answers returns the keys of the children of the node sorted by their
string representation, which is the order in which they are printed and
stored.
*/
func (n *Inner[Q, A]) Answers() []A {
	answers := make([]A, 0, len(n.Children))
	for a := range n.Children {
		answers = append(answers, a)
	}
	sort.Slice(answers, func(i, j int) bool {
		return fmt.Sprint(answers[i]) < fmt.Sprint(answers[j])
	})
	return answers
}

func (n *Inner[Q, A]) String() string {
	return fmt.Sprintf("Inner[question=%v, answers=%v]", n.Question, n.Answers())
}

func (n *Leaf[Q, A]) String() string {
	return fmt.Sprintf("Leaf[answer=%v]", n.Answer)
}

func (*Inner[Q, A]) node(Q, A) {}
func (*Leaf[Q, A]) node(Q, A)  {}
