package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arborml/id3"
	"github.com/arborml/id3/metadata"
	"github.com/arborml/id3/table"
	"github.com/arborml/id3/tree"
)

/*
induction runs the id3 operations on trees with string questions and
answers for a result column whose value type is only known once the table
has been read.
*/
type induction interface {
	grow(ctx context.Context, t *table.Table, logger *slog.Logger) (*tree.Tree[string, string], error)
	test(ctx context.Context, tr *tree.Tree[string, string], t *table.Table) (float64, int, error)
	rank(t *table.Table) (float64, []*id3.Partition, error)
}

type typedInduction[R comparable] struct {
	req id3.Request[R, string, string]
}

func newInduction(t *table.Table, md *metadata.Metadata) (induction, error) {
	result, err := t.Column(md.Result)
	if err != nil {
		return nil, err
	}
	switch result.(type) {
	case *table.Column[string]:
		return typedInductionFor[string](t, md)
	case *table.Column[int]:
		return typedInductionFor[int](t, md)
	case *table.Column[float64]:
		return typedInductionFor[float64](t, md)
	case *table.Column[bool]:
		return typedInductionFor[bool](t, md)
	}
	return nil, fmt.Errorf("result column %q: unsupported column type %T", md.Result, result)
}

func typedInductionFor[R comparable](t *table.Table, md *metadata.Metadata) (induction, error) {
	parser, err := md.ParserFor(md.Result)
	if err != nil {
		return nil, err
	}
	v, err := parser.ParseColumn("success", md.Success)
	if err != nil {
		return nil, fmt.Errorf("success values: %w", err)
	}
	success, ok := v.(*table.Column[R])
	if !ok {
		return nil, fmt.Errorf("success values are %T, result column %q holds %T: %w", v, md.Result, *new(R), table.ErrColumnType)
	}
	return &typedInduction[R]{req: id3.Request[R, string, string]{
		ResultLabel:   md.Result,
		Success:       success.Rows(),
		QuestionOf:    md.Question,
		AnswerOf:      id3.StringAnswers(t.Labels()...),
		DefaultAnswer: md.Default,
	}}, nil
}

func (ti *typedInduction[R]) grow(ctx context.Context, t *table.Table, logger *slog.Logger) (*tree.Tree[string, string], error) {
	return id3.Grow(ctx, t, ti.req, id3.WithLogger(logger))
}

func (ti *typedInduction[R]) test(ctx context.Context, tr *tree.Tree[string, string], t *table.Table) (float64, int, error) {
	return id3.Test(ctx, tr, t, ti.req)
}

func (ti *typedInduction[R]) rank(t *table.Table) (float64, []*id3.Partition, error) {
	result, err := table.ColumnOf[R](t, ti.req.ResultLabel)
	if err != nil {
		return 0, nil, err
	}
	return id3.Rank(t, result, ti.req.Success...)
}
