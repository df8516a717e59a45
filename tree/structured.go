package tree

import (
	"fmt"
	"strconv"
)

/*
ErrMalformedNode is the error returned when a structured or stored
representation cannot be converted back into a node.
*/
const ErrMalformedNode = Error("malformed node")

/*
Codec converts the payloads of nodes to and from values that a generic
nested-mapping representation can hold. Questions become arbitrary
values, answers become strings since they key the children mapping.
*/
type Codec[Q any, A comparable] struct {
	QuestionToValue   func(Q) any
	QuestionFromValue func(any) (Q, error)
	AnswerToString    func(A) string
	AnswerFromString  func(string) (A, error)
}

// StringCodec returns the Codec for trees with string questions and answers.
func StringCodec() Codec[string, string] {
	return Codec[string, string]{
		QuestionToValue: func(q string) any { return q },
		QuestionFromValue: func(v any) (string, error) {
			s, ok := v.(string)
			if !ok {
				return "", fmt.Errorf("%w: question %v is a %T, not a string", ErrMalformedNode, v, v)
			}
			return s, nil
		},
		AnswerToString:   func(a string) string { return a },
		AnswerFromString: func(s string) (string, error) { return s, nil },
	}
}

/*
ToStructured returns the tree rooted at the given node as nested maps:
inner nodes become {"question": Q, "children": {answer: subtree}} and
leaves become {"answer": A}.
*/
func ToStructured[Q any, A comparable](n Node[Q, A], c Codec[Q, A]) map[string]any {
	switch v := n.(type) {
	case *Leaf[Q, A]:
		return map[string]any{"answer": c.AnswerToString(v.Answer)}
	case *Inner[Q, A]:
		children := make(map[string]any, len(v.Children))
		for a, child := range v.Children {
			children[c.AnswerToString(a)] = ToStructured(child, c)
		}
		return map[string]any{
			"question": c.QuestionToValue(v.Question),
			"children": children,
		}
	}
	return nil
}

/*
FromStructured takes the nested map representation returned by
ToStructured, possibly after a round trip through JSON, and returns the
tree it describes. It fails with an error wrapping ErrMalformedNode if
the representation does not describe a tree.
*/
func FromStructured[Q any, A comparable](m map[string]any, c Codec[Q, A]) (Node[Q, A], error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mapping", ErrMalformedNode)
	}
	if a, ok := m["answer"]; ok {
		if _, ok := m["question"]; ok {
			return nil, fmt.Errorf("%w: both question and answer present", ErrMalformedNode)
		}
		answer, err := answerFromValue(a, c)
		if err != nil {
			return nil, err
		}
		return NewLeaf[Q](answer), nil
	}
	qv, ok := m["question"]
	if !ok {
		return nil, fmt.Errorf("%w: neither question nor answer present", ErrMalformedNode)
	}
	question, err := c.QuestionFromValue(qv)
	if err != nil {
		return nil, fmt.Errorf("decoding question: %w", err)
	}
	children, ok := m["children"].(map[string]any)
	if !ok || len(children) == 0 {
		return nil, fmt.Errorf("%w: question %v has no children", ErrMalformedNode, qv)
	}
	in := NewInner[Q, A](question)
	for key, sub := range children {
		subm, ok := sub.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: child %q of question %v is a %T", ErrMalformedNode, key, qv, sub)
		}
		answer, err := c.AnswerFromString(key)
		if err != nil {
			return nil, fmt.Errorf("decoding answer %q: %w", key, err)
		}
		if _, dup := in.Children[answer]; dup {
			return nil, fmt.Errorf("%w: answer %q of question %v repeats %v", ErrMalformedNode, key, qv, answer)
		}
		child, err := FromStructured(subm, c)
		if err != nil {
			return nil, fmt.Errorf("child %q of question %v: %w", key, qv, err)
		}
		in.Children[answer] = child
	}
	return in, nil
}

// answerFromValue accepts the scalar JSON types a leaf answer may have been decoded as.
func answerFromValue[Q any, A comparable](v any, c Codec[Q, A]) (A, error) {
	var s string
	switch a := v.(type) {
	case string:
		s = a
	case bool:
		s = strconv.FormatBool(a)
	case float64:
		s = strconv.FormatFloat(a, 'f', -1, 64)
	default:
		var zero A
		return zero, fmt.Errorf("%w: answer %v is a %T", ErrMalformedNode, v, v)
	}
	a, err := c.AnswerFromString(s)
	if err != nil {
		return a, fmt.Errorf("decoding answer %q: %w", s, err)
	}
	return a, nil
}
