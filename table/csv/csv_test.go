package csv_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborml/id3/table"
	"github.com/arborml/id3/table/csv"
)

const grades = `hours studied,coin flip,test grade
0,HEADS,C
2,TAILS,B
0,TAILS,F
5,TAILS,D
`

func TestReadTableStrings(t *testing.T) {
	tbl, err := csv.ReadTable(strings.NewReader(grades), "grades")
	require.NoError(t, err)
	require.Equal(t, "grades", tbl.Title())
	require.Equal(t, []string{"hours studied", "coin flip", "test grade"}, tbl.Labels())
	require.Equal(t, 4, tbl.NumRows())

	grade, err := table.ColumnOf[string](tbl, "test grade")
	require.NoError(t, err)
	require.Equal(t, []string{"C", "B", "F", "D"}, grade.Rows())
}

func TestReadTableWithParsers(t *testing.T) {
	tbl, err := csv.ReadTable(strings.NewReader(grades), "grades", table.Int, table.String, table.String)
	require.NoError(t, err)
	hours, err := table.ColumnOf[int](tbl, "hours studied")
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 0, 5}, hours.Rows())

	_, err = csv.ReadTable(strings.NewReader(grades), "grades", table.Int)
	require.ErrorIs(t, err, csv.ErrSerializerCountMismatch)

	_, err = csv.ReadTable(strings.NewReader(grades), "grades", table.String, table.Int, table.String)
	require.Error(t, err, "HEADS is not an int")
}

func TestReaderParserFor(t *testing.T) {
	r := csv.Reader{
		Comma: '|',
		ParserFor: func(label string) (table.ColumnParser, error) {
			if label == "hours" {
				return table.Int, nil
			}
			return nil, nil
		},
	}
	tbl, err := r.Read(strings.NewReader("hours|grade\n1|A\n2|B\n"), "piped")
	require.NoError(t, err)
	_, err = table.ColumnOf[int](tbl, "hours")
	require.NoError(t, err)
	_, err = table.ColumnOf[string](tbl, "grade")
	require.NoError(t, err)

	r.ParserFor = func(string) (table.ColumnParser, error) { return nil, fmt.Errorf("no parser") }
	_, err = r.Read(strings.NewReader("hours|grade\n1|A\n"), "piped")
	require.Error(t, err)
}

func TestReadTableInvalid(t *testing.T) {
	_, err := csv.ReadTable(strings.NewReader(""), "empty")
	require.ErrorIs(t, err, csv.ErrInvalidCSV)

	_, err = csv.ReadTable(strings.NewReader("a,b\n1,2\n3\n"), "ragged")
	require.ErrorIs(t, err, csv.ErrInvalidCSV)
	require.Contains(t, err.Error(), "line 3")

	_, err = csv.ReadTable(strings.NewReader("a,a\n1,2\n"), "dup")
	require.ErrorIs(t, err, table.ErrDuplicateColumn)
}

func TestReadTableHeaderOnly(t *testing.T) {
	tbl, err := csv.ReadTable(strings.NewReader("a,b\n"), "header")
	require.NoError(t, err)
	require.Equal(t, 0, tbl.NumRows())
	require.Equal(t, 2, tbl.NumCols())
}

func TestWriteTable(t *testing.T) {
	tbl, err := table.New("t",
		table.NewColumn("n", []int{1, 2}),
		table.NewColumn("ok", []bool{true, false}),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, csv.WriteTable(&buf, tbl))
	require.Equal(t, "n,ok\n1,true\n2,false\n", buf.String())

	buf.Reset()
	yesNo := func(v any) string {
		if v.(bool) {
			return "yes"
		}
		return "no"
	}
	w := csv.Writer{Comma: '|', Formatters: []csv.Formatter{func(v any) string { return fmt.Sprint(v) }, yesNo}}
	require.NoError(t, w.Write(&buf, tbl))
	require.Equal(t, "n|ok\n1|yes\n2|no\n", buf.String())

	err = csv.WriteTable(&buf, tbl, yesNo)
	require.ErrorIs(t, err, csv.ErrSerializerCountMismatch)
}

func TestReadTableFromFilePathRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.csv")
	require.NoError(t, os.WriteFile(path, []byte(grades), 0o644))

	tbl, err := csv.ReadTableFromFilePath(path, table.Int, table.String, table.String)
	require.NoError(t, err)
	require.Equal(t, "grades.csv", tbl.Title())

	var buf bytes.Buffer
	require.NoError(t, csv.WriteTable(&buf, tbl))
	require.Equal(t, grades, buf.String())

	_, err = csv.ReadTableFromFilePath(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestReadTableFromStdinNamesSource(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	f, err := os.Open(empty)
	require.NoError(t, err)
	defer f.Close()
	stdin := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = stdin }()

	_, err = csv.ReadTableFromFilePath("")
	require.ErrorIs(t, err, csv.ErrInvalidCSV)
	require.Contains(t, err.Error(), "parsing CSV from stdin: ")
}
