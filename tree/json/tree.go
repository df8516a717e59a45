/*
Package json persists decision trees as JSON documents holding their
structured form, and encodes stored nodes for node stores that keep them
as bytes.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arborml/id3/tree"
)

/*
WriteJSONTree takes an io.Writer, the root of a tree and a tree.Codec and
serializes the tree onto the writer as the JSON form of its structured
representation:
  - inner nodes are objects with a "question" field and a "children"
    object mapping every answer to the subtree it leads to
  - leaves are objects with an "answer" field

An error is returned if the tree cannot be serialized or written.
*/
func WriteJSONTree[Q any, A comparable](w io.Writer, root tree.Node[Q, A], c tree.Codec[Q, A]) error {
	if root == nil {
		return fmt.Errorf("writing tree: %w: nil root", tree.ErrMalformedNode)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree.ToStructured(root, c)); err != nil {
		return fmt.Errorf("writing tree: %w", err)
	}
	return nil
}

/*
ReadJSONTree takes an io.Reader and a tree.Codec and returns the tree
serialized on the reader as written by WriteJSONTree. An error is
returned if the JSON cannot be read or does not describe a tree.
*/
func ReadJSONTree[Q any, A comparable](r io.Reader, c tree.Codec[Q, A]) (tree.Node[Q, A], error) {
	var m map[string]any
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	n, err := tree.FromStructured(m, c)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	return n, nil
}

// WriteJSONTreeToFile is WriteJSONTree onto the file at the given path,
// which is created or truncated.
func WriteJSONTreeToFile[Q any, A comparable](path string, root tree.Node[Q, A], c tree.Codec[Q, A]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating tree file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing tree file: %w", cerr)
		}
	}()
	return WriteJSONTree(f, root, c)
}

// ReadJSONTreeFromFile is ReadJSONTree from the file at the given path.
func ReadJSONTreeFromFile[Q any, A comparable](path string, c tree.Codec[Q, A]) (tree.Node[Q, A], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tree file: %w", err)
	}
	defer f.Close()
	return ReadJSONTree(f, c)
}
