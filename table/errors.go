package table

// Error represents an error related with the shape or content of a table.
type Error string

const (
	// ErrRowCountMismatch is returned when columns that must hold the same
	// number of rows do not.
	ErrRowCountMismatch = Error("row count mismatch")
	// ErrColumnNotFound is returned when a column label or column reference
	// does not belong to a table.
	ErrColumnNotFound = Error("column not found")
	// ErrColumnType is returned when a column is requested with a value type
	// different from the one it holds.
	ErrColumnType = Error("column type mismatch")
	// ErrDuplicateColumn is returned when a table is built with two columns
	// sharing a label.
	ErrDuplicateColumn = Error("duplicate column label")
	// ErrNilColumn is returned when a table is built with a nil column.
	ErrNilColumn = Error("nil column")
	// ErrSerializerCountMismatch is returned when the number of parsers or
	// formatters given to read or write a table does not match its number
	// of columns.
	ErrSerializerCountMismatch = Error("number of serializers does not match number of columns")
)

func (e Error) Error() string {
	return string(e)
}
