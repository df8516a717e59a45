package id3_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/arborml/id3"
	"github.com/arborml/id3/table"
	"github.com/arborml/id3/tree"
)

var tennisLabels = []string{"Outlook", "Temperature", "Humidity", "Wind", "Play"}

var tennisRows = [][]string{
	{"Sunny", "Hot", "High", "Weak", "No"},
	{"Sunny", "Hot", "High", "Strong", "No"},
	{"Overcast", "Hot", "High", "Weak", "Yes"},
	{"Rainy", "Mild", "High", "Weak", "Yes"},
	{"Rainy", "Cool", "Normal", "Weak", "Yes"},
	{"Rainy", "Cool", "Normal", "Strong", "No"},
	{"Overcast", "Cool", "Normal", "Strong", "Yes"},
	{"Sunny", "Mild", "High", "Weak", "No"},
	{"Sunny", "Cool", "Normal", "Weak", "Yes"},
	{"Rainy", "Mild", "Normal", "Weak", "Yes"},
	{"Sunny", "Mild", "Normal", "Strong", "Yes"},
	{"Overcast", "Mild", "High", "Strong", "Yes"},
	{"Overcast", "Hot", "Normal", "Weak", "Yes"},
	{"Rainy", "Mild", "High", "Strong", "No"},
}

const tennisDiagram = `Outlook?
|__[Overcast] Yes
|__[Rainy] Wind?
|  |__[Strong] No
|  |__[Weak] Yes
|__[Sunny] Humidity?
   |__[High] No
   |__[Normal] Yes
`

func stringTable(t *testing.T, title string, labels []string, rows [][]string) *table.Table {
	t.Helper()
	columns := make([]table.Vector, len(labels))
	for j, l := range labels {
		cells := make([]string, len(rows))
		for i, r := range rows {
			cells[i] = r[j]
		}
		columns[j] = table.NewColumn(l, cells)
	}
	tb, err := table.New(title, columns...)
	require.NoError(t, err)
	return tb
}

func stringRequest(labels ...string) id3.Request[string, string, string] {
	return id3.Request[string, string, string]{
		ResultLabel:   "Play",
		Success:       []string{"Yes"},
		QuestionOf:    func(l string) string { return l + "?" },
		AnswerOf:      id3.StringAnswers(labels...),
		DefaultAnswer: "Unknown",
	}
}

type BuildSuite struct {
	suite.Suite
	ctx    context.Context
	tennis *table.Table
	req    id3.Request[string, string, string]
}

func (s *BuildSuite) SetupTest() {
	s.ctx = context.Background()
	s.tennis = stringTable(s.T(), "tennis", tennisLabels, tennisRows)
	s.req = stringRequest(tennisLabels...)
}

func (s *BuildSuite) TestTextbookTree() {
	root, err := id3.Build(s.ctx, s.tennis, s.req)
	s.Require().NoError(err)
	s.Require().Equal(tennisDiagram, tree.Diagram(root))

	in := root.(*tree.Inner[string, string])
	s.Require().Equal("Outlook?", in.Question)
	s.Require().IsType(&tree.Leaf[string, string]{}, in.Children["Overcast"])
}

func (s *BuildSuite) TestIdempotent() {
	first, err := id3.Build(s.ctx, s.tennis, s.req)
	s.Require().NoError(err)
	second, err := id3.Build(s.ctx, s.tennis, s.req)
	s.Require().NoError(err)
	s.Require().Equal(tree.Diagram(first), tree.Diagram(second))
	s.Require().Equal(first.Size(), second.Size())
}

func (s *BuildSuite) TestTableUnchanged() {
	var before, after bytes.Buffer
	s.Require().NoError(s.tennis.Format(&before))
	_, err := id3.Build(s.ctx, s.tennis, s.req)
	s.Require().NoError(err)
	s.Require().NoError(s.tennis.Format(&after))
	s.Require().Equal(before.String(), after.String())
	s.Require().Equal(14, s.tennis.NumRows())
	s.Require().Equal(5, s.tennis.NumCols())
}

func (s *BuildSuite) TestGrow() {
	tr, err := id3.Grow(s.ctx, s.tennis, s.req)
	s.Require().NoError(err)
	s.Require().Equal(8, tr.Size())
	s.Require().Equal(2, tr.Depth())
	s.Require().Equal(tennisDiagram, tr.String())
}

func (s *BuildSuite) TestEmptyTable() {
	empty := stringTable(s.T(), "empty", tennisLabels, nil)
	root, err := id3.Build(s.ctx, empty, s.req)
	s.Require().NoError(err)
	s.Require().Equal(&tree.Leaf[string, string]{Answer: "Unknown"}, root)
}

func (s *BuildSuite) TestOnlyResultColumnTakesMajority() {
	tb := stringTable(s.T(), "votes", []string{"Play"}, [][]string{{"No"}, {"Yes"}, {"Yes"}})
	root, err := id3.Build(s.ctx, tb, stringRequest("Play"))
	s.Require().NoError(err)
	s.Require().Equal(&tree.Leaf[string, string]{Answer: "Yes"}, root)

	tie := stringTable(s.T(), "tie", []string{"Play"}, [][]string{{"No"}, {"Yes"}, {"Yes"}, {"No"}})
	root, err = id3.Build(s.ctx, tie, stringRequest("Play"))
	s.Require().NoError(err)
	s.Require().Equal(&tree.Leaf[string, string]{Answer: "No"}, root)
}

func (s *BuildSuite) TestUnanimousResult() {
	tb := stringTable(s.T(), "unanimous", []string{"Outlook", "Play"}, [][]string{{"Sunny", "Yes"}, {"Rainy", "Yes"}})
	root, err := id3.Build(s.ctx, tb, stringRequest("Outlook", "Play"))
	s.Require().NoError(err)
	s.Require().Equal(&tree.Leaf[string, string]{Answer: "Yes"}, root)
}

func (s *BuildSuite) TestContradictoryRowsFallBackToMajority() {
	tb := stringTable(s.T(), "contradiction", []string{"Outlook", "Play"}, [][]string{{"Sunny", "Yes"}, {"Sunny", "No"}})
	root, err := id3.Build(s.ctx, tb, stringRequest("Outlook", "Play"))
	s.Require().NoError(err)
	s.Require().Equal("Outlook?\n|__[Sunny] Yes\n", tree.Diagram(root))
}

func (s *BuildSuite) TestGainTiesKeepTableOrder() {
	// A and B predict Play equally well, so the first one is chosen.
	tb := stringTable(s.T(), "ties", []string{"A", "B", "Play"}, [][]string{
		{"a1", "b1", "Yes"},
		{"a2", "b2", "No"},
	})
	root, err := id3.Build(s.ctx, tb, stringRequest("A", "B", "Play"))
	s.Require().NoError(err)
	s.Require().Equal("A?", root.(*tree.Inner[string, string]).Question)
}

func (s *BuildSuite) TestTypedColumns() {
	outlook := table.NewColumn("Outlook", []string{"Sunny", "Sunny", "Rainy", "Rainy"})
	windy := table.NewColumn("Windy", []bool{true, false, true, false})
	play := table.NewColumn("Play", []int{0, 1, 0, 1})
	tb, err := table.New("typed", outlook, windy, play)
	s.Require().NoError(err)
	req := id3.Request[int, string, string]{
		ResultLabel: "Play",
		Success:     []int{1},
		QuestionOf:  func(l string) string { return "Is it " + l + "?" },
		AnswerOf: map[string]func(any) string{
			"Outlook": func(v any) string { return v.(string) },
			"Windy": func(v any) string {
				if v.(bool) {
					return "yes"
				}
				return "no"
			},
			"Play": func(v any) string {
				if v.(int) == 1 {
					return "play"
				}
				return "stay home"
			},
		},
	}
	root, err := id3.Build(s.ctx, tb, req)
	s.Require().NoError(err)
	s.Require().Equal("Is it Windy?\n|__[no] play\n|__[yes] stay home\n", tree.Diagram(root))
}

func (s *BuildSuite) TestLogsSplits() {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := id3.Build(s.ctx, s.tennis, s.req, id3.WithLogger(logger))
	s.Require().NoError(err)
	s.Require().Contains(buf.String(), "msg=splitting")
	s.Require().Contains(buf.String(), "column=Outlook")
	s.Require().Contains(buf.String(), "column=Humidity")
}

func (s *BuildSuite) TestMissingResultColumn() {
	req := s.req
	req.ResultLabel = "Golf"
	root, err := id3.Build(s.ctx, s.tennis, req)
	s.Require().ErrorIs(err, table.ErrColumnNotFound)
	s.Require().Nil(root)
}

func (s *BuildSuite) TestResultColumnOfAnotherType() {
	req := id3.Request[int, string, string]{
		ResultLabel: "Play",
		QuestionOf:  s.req.QuestionOf,
		AnswerOf:    s.req.AnswerOf,
	}
	_, err := id3.Build(s.ctx, s.tennis, req)
	s.Require().ErrorIs(err, table.ErrColumnType)
}

func (s *BuildSuite) TestMissingFunctions() {
	req := s.req
	req.QuestionOf = nil
	_, err := id3.Build(s.ctx, s.tennis, req)
	s.Require().ErrorIs(err, id3.ErrNoQuestionFunc)

	req = stringRequest("Outlook", "Play")
	_, err = id3.Build(s.ctx, s.tennis, req)
	s.Require().ErrorIs(err, id3.ErrNoAnswerFunc)
}

func (s *BuildSuite) TestDuplicateAnswers() {
	req := s.req
	req.AnswerOf = id3.StringAnswers(tennisLabels...)
	req.AnswerOf["Outlook"] = func(any) string { return "any" }
	root, err := id3.Build(s.ctx, s.tennis, req)
	s.Require().ErrorIs(err, id3.ErrDuplicateAnswer)
	s.Require().Nil(root)
}

func (s *BuildSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := id3.Build(ctx, s.tennis, s.req)
	s.Require().ErrorIs(err, context.Canceled)
}

func (s *BuildSuite) TestAccuracy() {
	tr, err := id3.Grow(s.ctx, s.tennis, s.req)
	s.Require().NoError(err)

	rate, misses, err := id3.Test(s.ctx, tr, s.tennis, s.req)
	s.Require().NoError(err)
	s.Require().Equal(1.0, rate)
	s.Require().Zero(misses)

	rows := append([][]string{
		{"Foggy", "Mild", "High", "Weak", "Yes"},
		{"Sunny", "Mild", "High", "Weak", "Yes"},
	}, tennisRows[:2]...)
	unseen := stringTable(s.T(), "unseen", tennisLabels, rows)
	rate, misses, err = id3.Test(s.ctx, tr, unseen, s.req)
	s.Require().NoError(err)
	s.Require().InDelta(0.5, rate, 1e-9)
	s.Require().Equal(1, misses)
}

func (s *BuildSuite) TestAccuracyUnknownQuestion() {
	tr, err := id3.Grow(s.ctx, s.tennis, s.req)
	s.Require().NoError(err)
	labels := []string{"Temperature", "Humidity", "Wind", "Play"}
	rows := [][]string{{"Hot", "High", "Weak", "No"}}
	tb := stringTable(s.T(), "no outlook", labels, rows)
	_, _, err = id3.Test(s.ctx, tr, tb, stringRequest(labels...))
	s.Require().ErrorIs(err, table.ErrColumnNotFound)
}

func TestBuildSuite(t *testing.T) {
	suite.Run(t, new(BuildSuite))
}
