package query

import "fmt"

// Direction orders a sort field. The numeric values match the wire
// convention used by the listing endpoints: 1 ascending, -1 descending.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// ParseDirection interprets the sortType query parameter. Anything that is
// not negative sorts ascending.
func ParseDirection(v int) Direction {
	if v < 0 {
		return Descending
	}
	return Ascending
}

func (d Direction) keyword() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Sort declares a single-field ordering. Composite keys are not supported;
// ties are broken by insertion order via the created_at and id tiebreakers
// appended to every clause.
type Sort struct {
	Field     string
	Direction Direction
}

// FieldMap maps the sort keys a listing accepts onto column names. Anything
// outside the map is rejected so callers can never sort by an arbitrary
// column.
type FieldMap map[string]string

// VideoSortFields lists the sortable columns of the video listings.
var VideoSortFields = FieldMap{
	"createdAt": "created_at",
	"title":     "title",
	"views":     "views",
	"duration":  "duration",
}

// Clause renders the ORDER BY clause for the sort, validating the field
// against the allowlist. Columns are prefixed with alias when the listing
// joins another table. An empty field falls back to newest-first.
func (s Sort) Clause(fields FieldMap, alias string) (string, error) {
	if s.Field == "" {
		s.Field = "createdAt"
		if s.Direction == 0 {
			s.Direction = Descending
		}
	}
	if s.Direction == 0 {
		s.Direction = Ascending
	}
	column, ok := fields[s.Field]
	if !ok {
		return "", fmt.Errorf("%w: unsupported sort field %q", ErrInvalidArgument, s.Field)
	}

	dir := s.Direction.keyword()
	created := qualify(alias, "created_at")
	id := qualify(alias, "id")
	column = qualify(alias, column)

	if column == created {
		return fmt.Sprintf("ORDER BY %s %s, %s %s", created, dir, id, dir), nil
	}
	return fmt.Sprintf("ORDER BY %s %s, %s %s, %s %s", column, dir, created, dir, id, dir), nil
}

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}
