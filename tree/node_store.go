package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNodeNotFound is the error returned when loading a node that is not in a NodeStore.
const ErrNodeNotFound = Error("node not found")

/*
StoredNode is the flat form a node takes inside a NodeStore. Nodes refer
to each other by ID: an inner node maps every answer to the ID of the
child it leads to, and every node but the root records the ID of its
parent and the answer leading to it.
*/
type StoredNode struct {
	ID           string
	ParentID     string
	ParentAnswer string
	Question     any
	Answer       string
	Leaf         bool
	Children     map[string]string
}

/*
NodeStore is an interface to manage a store
where nodes can be created, retrieved, updated
and deleted.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type NodeStore interface {
	// Create takes a node and stores it for the
	// first time in the store, creating an ID for
	// it and setting it for the node. It returns
	// an error if the node cannot be stored.
	Create(ctx context.Context, n *StoredNode) error
	// Get takes an id and returns the node in the
	// store with that id (or nil if it cannot be
	// found) or an error if the store cannot be
	// queried
	Get(ctx context.Context, id string) (*StoredNode, error)
	// Store takes a node already existing in the store
	// and updates it on the store. It expects the node
	// to have an ID which it will not alter.
	Store(ctx context.Context, n *StoredNode) error
	// Delete takes a node already existing in the store
	// and deletes it from the store.
	Delete(ctx context.Context, n *StoredNode) error
	// Close closes the store, freeing any resources in use.
	Close(ctx context.Context) error
}

/*
Save stores every node of the tree rooted at the given node in the
NodeStore, converting payloads with the given Codec, and returns the ID
of the stored root. If storing any node fails, the nodes already created
are deleted again before returning the error.
*/
func Save[Q any, A comparable](ctx context.Context, ns NodeStore, root Node[Q, A], c Codec[Q, A]) (string, error) {
	if root == nil {
		return "", fmt.Errorf("saving tree: %w: nil root", ErrMalformedNode)
	}
	var created []*StoredNode
	sn, err := save(ctx, ns, root, c, "", "", &created)
	if err != nil {
		// The rollback runs even when ctx is what made the save fail.
		cleanupCtx := context.WithoutCancel(ctx)
		for i := len(created) - 1; i >= 0; i-- {
			if derr := ns.Delete(cleanupCtx, created[i]); derr != nil {
				err = errors.Join(err, fmt.Errorf("deleting node %s: %w", created[i].ID, derr))
			}
		}
		return "", fmt.Errorf("saving tree: %w", err)
	}
	return sn.ID, nil
}

func save[Q any, A comparable](ctx context.Context, ns NodeStore, n Node[Q, A], c Codec[Q, A], parentID, parentAnswer string, created *[]*StoredNode) (*StoredNode, error) {
	sn := &StoredNode{ParentID: parentID, ParentAnswer: parentAnswer}
	switch v := n.(type) {
	case *Leaf[Q, A]:
		sn.Leaf = true
		sn.Answer = c.AnswerToString(v.Answer)
		if err := ns.Create(ctx, sn); err != nil {
			return nil, err
		}
		*created = append(*created, sn)
		return sn, nil
	case *Inner[Q, A]:
		sn.Question = c.QuestionToValue(v.Question)
		if err := ns.Create(ctx, sn); err != nil {
			return nil, err
		}
		*created = append(*created, sn)
		sn.Children = make(map[string]string, len(v.Children))
		for _, a := range v.Answers() {
			key := c.AnswerToString(a)
			child, err := save(ctx, ns, v.Children[a], c, sn.ID, key, created)
			if err != nil {
				return nil, err
			}
			sn.Children[key] = child.ID
		}
		if err := ns.Store(ctx, sn); err != nil {
			return nil, err
		}
		return sn, nil
	}
	return nil, fmt.Errorf("%w: unexpected node %T", ErrMalformedNode, n)
}

/*
Load retrieves from the NodeStore the tree whose root has the given ID,
converting payloads with the given Codec. It fails with an error wrapping
ErrNodeNotFound if a node is missing and with one wrapping
ErrMalformedNode if the stored nodes do not link back to their parents.
*/
func Load[Q any, A comparable](ctx context.Context, ns NodeStore, rootID string, c Codec[Q, A]) (Node[Q, A], error) {
	n, err := load(ctx, ns, rootID, c, "", "")
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %w", rootID, err)
	}
	return n, nil
}

func load[Q any, A comparable](ctx context.Context, ns NodeStore, id string, c Codec[Q, A], parentID, parentAnswer string) (Node[Q, A], error) {
	sn, err := ns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sn == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if sn.ParentID != parentID || sn.ParentAnswer != parentAnswer {
		return nil, fmt.Errorf("%w: node %s links to parent %q under %q, expected %q under %q", ErrMalformedNode, id, sn.ParentID, sn.ParentAnswer, parentID, parentAnswer)
	}
	if sn.Leaf {
		a, err := c.AnswerFromString(sn.Answer)
		if err != nil {
			return nil, fmt.Errorf("decoding answer of node %s: %w", id, err)
		}
		return NewLeaf[Q](a), nil
	}
	if len(sn.Children) == 0 {
		return nil, fmt.Errorf("%w: inner node %s has no children", ErrMalformedNode, id)
	}
	q, err := c.QuestionFromValue(sn.Question)
	if err != nil {
		return nil, fmt.Errorf("decoding question of node %s: %w", id, err)
	}
	in := NewInner[Q, A](q)
	for key, childID := range sn.Children {
		a, err := c.AnswerFromString(key)
		if err != nil {
			return nil, fmt.Errorf("decoding answer %q of node %s: %w", key, id, err)
		}
		if _, dup := in.Children[a]; dup {
			return nil, fmt.Errorf("%w: answer %q of node %s repeats %v", ErrMalformedNode, key, id, a)
		}
		child, err := load(ctx, ns, childID, c, id, key)
		if err != nil {
			return nil, err
		}
		in.Children[a] = child
	}
	return in, nil
}

type memoryNodeStore struct {
	nodes map[string]*StoredNode
	lock  *sync.RWMutex
}

// NewMemoryNodeStore returns an implementation
// of NodeStore with the process memory space
// as underlying backend
func NewMemoryNodeStore() NodeStore {
	return &memoryNodeStore{
		nodes: make(map[string]*StoredNode),
		lock:  &sync.RWMutex{},
	}
}

func (mns *memoryNodeStore) Create(ctx context.Context, n *StoredNode) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		taken := true
		for taken {
			if err := ctx.Err(); err != nil {
				return err
			}
			n.ID = uuid.NewString()
			_, taken = mns.nodes[n.ID]
		}
		mns.nodes[n.ID] = copyStoredNode(n)
		return nil
	})
}

func (mns *memoryNodeStore) Store(ctx context.Context, n *StoredNode) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		mns.nodes[n.ID] = copyStoredNode(n)
		return nil
	})
}

func (mns *memoryNodeStore) Get(ctx context.Context, id string) (*StoredNode, error) {
	var n *StoredNode
	err := mns.withRLock(ctx, func(ctx context.Context) error {
		if sn, ok := mns.nodes[id]; ok {
			n = copyStoredNode(sn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (mns *memoryNodeStore) Delete(ctx context.Context, n *StoredNode) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		delete(mns.nodes, n.ID)
		return nil
	})
}

func (mns *memoryNodeStore) Close(ctx context.Context) error {
	return nil
}

func (mns *memoryNodeStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		mns.lock.Lock()
		select {
		case <-ctx.Done():
			mns.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.Unlock()
	}
	return f(ctx)
}

func (mns *memoryNodeStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		mns.lock.RLock()
		select {
		case <-ctx.Done():
			mns.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.RUnlock()
	}
	return f(ctx)
}

func copyStoredNode(n *StoredNode) *StoredNode {
	c := *n
	if n.Children != nil {
		c.Children = make(map[string]string, len(n.Children))
		for k, v := range n.Children {
			c.Children[k] = v
		}
	}
	return &c
}
