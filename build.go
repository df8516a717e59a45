/*
Package id3 grows decision trees from tables of categorical data with the
ID3 algorithm: starting from the whole table, it repeatedly splits the rows
on the column with the highest information gain for a result column until
every branch is unanimous or runs out of columns.
*/
package id3

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/arborml/id3/table"
	"github.com/arborml/id3/tree"
)

// Error is the kind of the errors returned by this package.
type Error string

// ErrNoQuestionFunc is the error returned when a Request has no QuestionOf function.
const ErrNoQuestionFunc = Error("no question function")

// ErrNoAnswerFunc is the error returned when a column of the table has no AnswerOf entry.
const ErrNoAnswerFunc = Error("no answer function")

/*
ErrDuplicateAnswer is the error returned when two values of the column
chosen for a split are mapped to the same answer.
*/
const ErrDuplicateAnswer = Error("duplicate answer")

func (e Error) Error() string {
	return string(e)
}

/*
Request describes a tree to grow from a table. The result column, of type
R, holds the values the tree is to predict, and Success lists those of its
values that count as a success when computing entropies.

QuestionOf turns the label of the column an inner node splits on into the
question of the node. AnswerOf maps the label of every column, the result
column included, to the function turning its values into answers: those of
a splitting column key the children of the node, those of the result column
become leaves. DefaultAnswer is the leaf for branches left without rows.
*/
type Request[R comparable, Q any, A comparable] struct {
	ResultLabel   string
	Success       []R
	QuestionOf    func(label string) Q
	AnswerOf      map[string]func(any) A
	DefaultAnswer A
}

// StringAnswers returns an AnswerOf mapping formatting the values of
// every given label with fmt.Sprint.
func StringAnswers(labels ...string) map[string]func(any) string {
	answerOf := make(map[string]func(any) string, len(labels))
	for _, l := range labels {
		answerOf[l] = func(v any) string { return fmt.Sprint(v) }
	}
	return answerOf
}

// Option configures a build.
type Option func(*builderOptions)

type builderOptions struct {
	logger *slog.Logger
}

// WithLogger makes the build log its progress at debug level on the given logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *builderOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

type builder[R comparable, Q any, A comparable] struct {
	req    Request[R, Q, A]
	logger *slog.Logger
}

/*
Build grows a decision tree from the given table as described by the
request and returns its root. It fails before any computation if the
result column is not in the table or does not hold values of type R, if
the request has no QuestionOf function or if a column has no AnswerOf
entry. No tree is returned along with an error.
*/
func Build[R comparable, Q any, A comparable](ctx context.Context, t *table.Table, req Request[R, Q, A], opts ...Option) (tree.Node[Q, A], error) {
	o := &builderOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}
	if _, err := table.ColumnOf[R](t, req.ResultLabel); err != nil {
		return nil, fmt.Errorf("building tree: result column: %w", err)
	}
	if req.QuestionOf == nil {
		return nil, fmt.Errorf("building tree: %w", ErrNoQuestionFunc)
	}
	for _, label := range t.Labels() {
		if req.AnswerOf[label] == nil {
			return nil, fmt.Errorf("building tree: column %q: %w", label, ErrNoAnswerFunc)
		}
	}
	b := &builder[R, Q, A]{req: req, logger: o.logger}
	b.logger.Debug("building tree", "table", t.Title(), "rows", t.NumRows(), "columns", t.NumCols(), "result", req.ResultLabel)
	root, err := b.branchOut(ctx, t, 0)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}
	return root, nil
}

// Grow is Build returning the indexed tree instead of its root.
func Grow[R comparable, Q any, A comparable](ctx context.Context, t *table.Table, req Request[R, Q, A], opts ...Option) (*tree.Tree[Q, A], error) {
	root, err := Build(ctx, t, req, opts...)
	if err != nil {
		return nil, err
	}
	return tree.New(root), nil
}

func (b *builder[R, Q, A]) branchOut(ctx context.Context, t *table.Table, depth int) (tree.Node[Q, A], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.NumRows() == 0 {
		b.logger.Debug("no rows left", "depth", depth)
		return tree.NewLeaf[Q](b.req.DefaultAnswer), nil
	}
	result, err := table.ColumnOf[R](t, b.req.ResultLabel)
	if err != nil {
		return nil, err
	}
	answerOfResult := b.req.AnswerOf[b.req.ResultLabel]
	if t.NumCols() == 1 {
		m := majority(result)
		b.logger.Debug("no columns left", "depth", depth, "majority", m)
		return tree.NewLeaf[Q](answerOfResult(m)), nil
	}
	if values := result.Values(); len(values) == 1 {
		return tree.NewLeaf[Q](answerOfResult(values[0])), nil
	}
	systemEntropy, partitions, err := Rank(t, result, b.req.Success...)
	if err != nil {
		return nil, err
	}
	for _, p := range partitions {
		b.logger.Debug("candidate split", "depth", depth, "column", p.Column.Label(), "gain", p.InformationGain())
	}
	best := Best(partitions)
	label := best.Column.Label()
	b.logger.Debug("splitting", "depth", depth, "rows", t.NumRows(), "entropy", systemEntropy, "column", label, "gain", best.InformationGain())
	values, subtables, err := best.Split()
	if err != nil {
		return nil, err
	}
	answerOf := b.req.AnswerOf[label]
	in := tree.NewInner[Q, A](b.req.QuestionOf(label))
	for i, v := range values {
		a := answerOf(v)
		if _, ok := in.Children[a]; ok {
			return nil, fmt.Errorf("column %q: values mapped to answer %v: %w", label, a, ErrDuplicateAnswer)
		}
		child, err := b.branchOut(ctx, subtables[i], depth+1)
		if err != nil {
			return nil, err
		}
		in.Children[a] = child
	}
	return in, nil
}

// majority returns the most frequent value of the column, the first
// discovered one on ties.
func majority[T comparable](c *table.Column[T]) T {
	counts := c.Counts()
	var best T
	bestCount := -1
	for _, v := range c.Values() {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
