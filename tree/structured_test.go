package tree_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborml/id3/tree"
)

func TestToStructured(t *testing.T) {
	m := tree.ToStructured[string, string](tennisTree(), tree.StringCodec())
	require.Equal(t, "Outlook?", m["question"])
	children := m["children"].(map[string]any)
	require.Len(t, children, 3)
	require.Equal(t, map[string]any{"answer": "Yes"}, children["Overcast"])
	require.Equal(t, map[string]any{"answer": "Yes"}, tree.ToStructured[string, string](tree.NewLeaf[string]("Yes"), tree.StringCodec()))
}

func TestStructuredRoundTrip(t *testing.T) {
	c := tree.StringCodec()
	n, err := tree.FromStructured(tree.ToStructured[string, string](tennisTree(), c), c)
	require.NoError(t, err)
	require.Equal(t, tennisDiagram, tree.Diagram(n))
}

func TestStructuredRoundTripThroughJSON(t *testing.T) {
	c := tree.StringCodec()
	b, err := json.Marshal(tree.ToStructured[string, string](tennisTree(), c))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	n, err := tree.FromStructured(m, c)
	require.NoError(t, err)
	require.Equal(t, tennisDiagram, tree.Diagram(n))
}

func TestStructuredTypedPayloads(t *testing.T) {
	c := tree.Codec[int, bool]{
		QuestionToValue: func(q int) any { return q },
		QuestionFromValue: func(v any) (int, error) {
			f, ok := v.(float64)
			if !ok {
				return 0, tree.ErrMalformedNode
			}
			return int(f), nil
		},
		AnswerToString:   strconv.FormatBool,
		AnswerFromString: strconv.ParseBool,
	}
	root := tree.NewInner[int, bool](3)
	root.Children[true] = tree.NewLeaf[int](false)
	root.Children[false] = tree.NewLeaf[int](true)

	b, err := json.Marshal(tree.ToStructured[int, bool](root, c))
	require.NoError(t, err)
	require.JSONEq(t, `{"question":3,"children":{"true":{"answer":"false"},"false":{"answer":"true"}}}`, string(b))
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	n, err := tree.FromStructured(m, c)
	require.NoError(t, err)
	require.Equal(t, tree.Diagram[int, bool](root), tree.Diagram(n))

	// Leaves written by hand with a bare JSON boolean are accepted too.
	n, err = tree.FromStructured(map[string]any{"answer": true}, c)
	require.NoError(t, err)
	require.Equal(t, true, n.(*tree.Leaf[int, bool]).Answer)
}

func TestFromStructuredMalformed(t *testing.T) {
	c := tree.StringCodec()
	cases := map[string]map[string]any{
		"nil":          nil,
		"empty":        {},
		"no children":  {"question": "Q?"},
		"empty map":    {"question": "Q?", "children": map[string]any{}},
		"bad child":    {"question": "Q?", "children": map[string]any{"a": "leaf"}},
		"bad question": {"question": 1.0, "children": map[string]any{"a": map[string]any{"answer": "x"}}},
		"bad answer":   {"answer": []any{"x"}},
		"both":         {"question": "Q?", "answer": "x", "children": map[string]any{"a": map[string]any{"answer": "x"}}},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tree.FromStructured(m, c)
			require.ErrorIs(t, err, tree.ErrMalformedNode)
		})
	}
}

func TestFromStructuredRepeatedAnswer(t *testing.T) {
	c := tree.Codec[string, int]{
		QuestionToValue:   func(q string) any { return q },
		QuestionFromValue: tree.StringCodec().QuestionFromValue,
		AnswerToString:    strconv.Itoa,
		AnswerFromString:  strconv.Atoi,
	}
	m := map[string]any{
		"question": "Q?",
		"children": map[string]any{
			"1":  map[string]any{"answer": "2"},
			"01": map[string]any{"answer": "3"},
		},
	}
	_, err := tree.FromStructured(m, c)
	require.ErrorIs(t, err, tree.ErrMalformedNode)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	defer ns.Close(ctx)
	c := tree.StringCodec()

	rootID, err := tree.Save[string, string](ctx, ns, tennisTree(), c)
	require.NoError(t, err)
	require.NotEmpty(t, rootID)

	root, err := ns.Get(ctx, rootID)
	require.NoError(t, err)
	require.Equal(t, "Outlook?", root.Question)
	require.Empty(t, root.ParentID)
	require.Len(t, root.Children, 3)
	overcast, err := ns.Get(ctx, root.Children["Overcast"])
	require.NoError(t, err)
	require.True(t, overcast.Leaf)
	require.Equal(t, rootID, overcast.ParentID)
	require.Equal(t, "Overcast", overcast.ParentAnswer)

	n, err := tree.Load(ctx, ns, rootID, c)
	require.NoError(t, err)
	require.Equal(t, tennisDiagram, tree.Diagram(n))
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	c := tree.StringCodec()

	_, err := tree.Load(ctx, ns, "missing", c)
	require.ErrorIs(t, err, tree.ErrNodeNotFound)

	rootID, err := tree.Save[string, string](ctx, ns, tennisTree(), c)
	require.NoError(t, err)
	root, err := ns.Get(ctx, rootID)
	require.NoError(t, err)

	// Point a branch at a node belonging to another parent.
	sunny, err := ns.Get(ctx, root.Children["Sunny"])
	require.NoError(t, err)
	overcastID := root.Children["Overcast"]
	root.Children["Overcast"] = sunny.Children["High"]
	require.NoError(t, ns.Store(ctx, root))
	_, err = tree.Load(ctx, ns, rootID, c)
	require.ErrorIs(t, err, tree.ErrMalformedNode)

	root.Children["Overcast"] = overcastID
	require.NoError(t, ns.Store(ctx, root))
	require.NoError(t, ns.Delete(ctx, sunny))
	_, err = tree.Load(ctx, ns, rootID, c)
	require.ErrorIs(t, err, tree.ErrNodeNotFound)
}

func TestMemoryNodeStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ns := tree.NewMemoryNodeStore()
	require.ErrorIs(t, ns.Create(ctx, &tree.StoredNode{Leaf: true}), context.Canceled)
	_, err := ns.Get(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

var errStoreFull = errors.New("store full")

// limitedStore accepts a fixed number of creations and fails the rest.
type limitedStore struct {
	tree.NodeStore
	left    int
	created []string
}

func (ls *limitedStore) Create(ctx context.Context, n *tree.StoredNode) error {
	if ls.left == 0 {
		return errStoreFull
	}
	ls.left--
	if err := ls.NodeStore.Create(ctx, n); err != nil {
		return err
	}
	ls.created = append(ls.created, n.ID)
	return nil
}

func TestSaveRemovesPartialTree(t *testing.T) {
	ctx := context.Background()
	ls := &limitedStore{NodeStore: tree.NewMemoryNodeStore(), left: 4}
	_, err := tree.Save[string, string](ctx, ls, tennisTree(), tree.StringCodec())
	require.ErrorIs(t, err, errStoreFull)
	require.Len(t, ls.created, 4)
	for _, id := range ls.created {
		n, err := ls.Get(ctx, id)
		require.NoError(t, err)
		require.Nil(t, n, "node %s left behind", id)
	}
}
