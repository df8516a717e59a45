package id3

import (
	"context"
	"errors"
	"fmt"

	"github.com/arborml/id3/table"
	"github.com/arborml/id3/tree"
)

/*
Test classifies every row of the given table with the tree, answering the
questions of the tree with the row values of the columns they were made
from, and returns three values:
  - the share of rows for which the tree predicts the answer that the
    request makes of the row's result value
  - the number of rows the tree could not classify because some value had
    no branch in the tree
  - an error if a row could not be classified for other reasons, such as
    a question with no column in the table. If it is not nil the other
    values are 0.0 and 0
*/
func Test[R comparable, Q comparable, A comparable](ctx context.Context, tr *tree.Tree[Q, A], t *table.Table, req Request[R, Q, A]) (float64, int, error) {
	result, err := table.ColumnOf[R](t, req.ResultLabel)
	if err != nil {
		return 0.0, 0, fmt.Errorf("testing tree: result column: %w", err)
	}
	if req.QuestionOf == nil {
		return 0.0, 0, fmt.Errorf("testing tree: %w", ErrNoQuestionFunc)
	}
	columns := make(map[Q]table.Vector)
	for _, c := range t.Columns() {
		if c.Label() == req.ResultLabel {
			continue
		}
		columns[req.QuestionOf(c.Label())] = c
	}
	answerOfResult := req.AnswerOf[req.ResultLabel]
	if answerOfResult == nil {
		return 0.0, 0, fmt.Errorf("testing tree: column %q: %w", req.ResultLabel, ErrNoAnswerFunc)
	}
	n := t.NumRows()
	if n == 0 {
		return 0.0, 0, nil
	}
	var hits float64
	var misses int
	for i := 0; i < n; i++ {
		row := i
		a, err := tr.Classify(ctx, func(_ context.Context, q Q) (A, error) {
			var zero A
			c, ok := columns[q]
			if !ok {
				return zero, fmt.Errorf("question %v: %w", q, table.ErrColumnNotFound)
			}
			answerOf := req.AnswerOf[c.Label()]
			if answerOf == nil {
				return zero, fmt.Errorf("column %q: %w", c.Label(), ErrNoAnswerFunc)
			}
			return answerOf(c.At(row)), nil
		})
		if err != nil {
			if !errors.Is(err, tree.ErrNoBranch) {
				return 0.0, 0, fmt.Errorf("testing tree: row %d: %w", row, err)
			}
			misses++
			continue
		}
		if a == answerOfResult(result.Row(row)) {
			hits++
		}
	}
	return hits / float64(n), misses, nil
}
