package database

import (
	"fmt"
	"strings"
)

const (
	columnName               = "name"
	columnComment            = "comment"
	columnAuthor             = "author"
	columnPublicationDetails = "publication_details"
	columnPublicationYear    = "publication_year"
	columnComments           = "comments"
)

// UpdateBuilder assembles the SET clause of a sparse UPDATE safely.
// Only column constants are interpolated; all values go through $N
// placeholders.
type UpdateBuilder struct {
	assignments []string
	args        []interface{}
	argCount    int
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{
		assignments: []string{},
		args:        []interface{}{},
		argCount:    1,
	}
}

// Set adds an assignment for column. Callers skip nil patch fields, so
// only explicitly supplied fields end up in the statement.
func (ub *UpdateBuilder) Set(column string, value interface{}) {
	ub.assignments = append(ub.assignments, fmt.Sprintf("%s = $%d", column, ub.argCount))
	ub.args = append(ub.args, value)
	ub.argCount++
}

// Empty reports whether no assignment was added.
func (ub *UpdateBuilder) Empty() bool {
	return len(ub.assignments) == 0
}

func (ub *UpdateBuilder) SetClause() string {
	return "SET " + strings.Join(ub.assignments, ", ")
}

func (ub *UpdateBuilder) Args() []interface{} {
	return ub.args
}

// NextArgNum returns the next available placeholder number, for
// appending the WHERE condition after the assignments.
func (ub *UpdateBuilder) NextArgNum() int {
	return ub.argCount
}
