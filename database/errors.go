package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNoteNotFound    = errors.New("note not found")

	// Duplicate errors cover both the storage-level unique constraints
	// and races that slip past the handlers' read-before-write checks.
	ErrDuplicateProject = errors.New("project name already exists")
	ErrDuplicateNote    = errors.New("note name already exists in project")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
