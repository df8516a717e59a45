package json

import (
	"encoding/json"
	"fmt"

	"github.com/arborml/id3/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding stored nodes into slices of
bytes and decoding them back to stored nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.StoredNode
	//and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.StoredNode) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.StoredNode decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.StoredNode, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	ID           string            `json:"id"`
	ParentID     string            `json:"pId,omitempty"`
	ParentAnswer string            `json:"pA,omitempty"`
	Question     any               `json:"q,omitempty"`
	Answer       string            `json:"a,omitempty"`
	Leaf         bool              `json:"l,omitempty"`
	Children     map[string]string `json:"c,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that encodes
stored nodes as compact JSON objects.
*/
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return nodeEncodeDecoder{}
}

func (nodeEncodeDecoder) Encode(n *tree.StoredNode) ([]byte, error) {
	jn := &node{
		ID:           n.ID,
		ParentID:     n.ParentID,
		ParentAnswer: n.ParentAnswer,
		Question:     n.Question,
		Answer:       n.Answer,
		Leaf:         n.Leaf,
	}
	if len(n.Children) > 0 {
		jn.Children = n.Children
	}
	b, err := json.Marshal(jn)
	if err != nil {
		return nil, fmt.Errorf("encoding node %s: %w", n.ID, err)
	}
	return b, nil
}

func (nodeEncodeDecoder) Decode(data []byte) (*tree.StoredNode, error) {
	jn := &node{}
	if err := json.Unmarshal(data, jn); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	if jn.ID == "" {
		return nil, fmt.Errorf("decoding node: %w: no id", tree.ErrMalformedNode)
	}
	return &tree.StoredNode{
		ID:           jn.ID,
		ParentID:     jn.ParentID,
		ParentAnswer: jn.ParentAnswer,
		Question:     jn.Question,
		Answer:       jn.Answer,
		Leaf:         jn.Leaf,
		Children:     jn.Children,
	}, nil
}
