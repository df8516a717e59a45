/*
Package sqltable reads tables from SQL databases.

Every column of a query result becomes a column of the table, read as
strings and then converted by the parser given for it. SQLite3 files and
PostgreSQL URLs are supported out of the box.
*/
package sqltable

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arborml/id3/table"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// Undefined is the cell read for NULL values.
const Undefined = "?"

/*
Open takes a data source and opens it as a database: a postgresql:// or
postgres:// URL is opened with the PostgreSQL driver, anything else is
taken as the path to an SQLite3 file.
*/
func Open(source string) (*sql.DB, error) {
	driver := "sqlite3"
	if strings.HasPrefix(source, "postgresql://") || strings.HasPrefix(source, "postgres://") {
		driver = "postgres"
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	return db, nil
}

/*
ReadTable takes a context, a database, a title, a query and optionally a
parser per result column, runs the query and returns its result as a table
with the given title. It fails with table.ErrSerializerCountMismatch if parsers
are given and their number does not match the number of result columns.
*/
func ReadTable(ctx context.Context, db *sql.DB, title, query string, parsers ...table.ColumnParser) (*table.Table, error) {
	return Reader{Parsers: parsers}.Read(ctx, db, title, query)
}

/*
Reader holds the options to read tables from query results.

Parsers, when not empty, must hold a parser per result column. ParserFor,
used when Parsers is empty, returns the parser for a column label; when nil
every column is read with table.String.
*/
type Reader struct {
	Parsers   []table.ColumnParser
	ParserFor func(label string) (table.ColumnParser, error)
}

// Read runs the query on the database and returns its result as a table with the given title.
func (r Reader) Read(ctx context.Context, db *sql.DB, title, query string) (*table.Table, error) {
	parsers := r.Parsers
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying table %q: %w", title, err)
	}
	defer rows.Close()
	labels, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of table %q: %w", title, err)
	}
	if len(parsers) > 0 && len(parsers) != len(labels) {
		return nil, fmt.Errorf("got %d parsers for %d columns: %w", len(parsers), len(labels), table.ErrSerializerCountMismatch)
	}
	cells := make([][]string, len(labels))
	values := make([]sql.NullString, len(labels))
	dest := make([]any, len(labels))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning table %q: %w", title, err)
		}
		for i, v := range values {
			cell := Undefined
			if v.Valid {
				cell = v.String
			}
			cells[i] = append(cells[i], cell)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows of table %q: %w", title, err)
	}
	columns := make([]table.Vector, len(labels))
	for i, label := range labels {
		parser := table.String
		switch {
		case len(parsers) > 0:
			parser = parsers[i]
		case r.ParserFor != nil:
			p, err := r.ParserFor(label)
			if err != nil {
				return nil, fmt.Errorf("column %q of table %q: %w", label, title, err)
			}
			if p != nil {
				parser = p
			}
		}
		columns[i], err = parser.ParseColumn(label, cells[i])
		if err != nil {
			return nil, err
		}
	}
	return table.New(title, columns...)
}
