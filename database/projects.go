package database

import (
	"context"
	"fmt"
	"lectern/models"
	"log"

	"github.com/jackc/pgx/v5"
)

func (db *DB) CreateProject(ctx context.Context, name string, comment *string) (*models.Project, error) {
	query := `
		INSERT INTO projects (name, comment)
		VALUES ($1, $2)
		RETURNING id, name, comment, created_at
	`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, name, comment))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateProject
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Printf("Created project: %s (ID: %d)", project.Name, project.ID)
	return project, nil
}

func (db *DB) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	query := `
		SELECT id, name, comment, created_at
		FROM projects
		WHERE id = $1
	`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (db *DB) GetProjectByName(ctx context.Context, name string) (*models.Project, error) {
	query := `
		SELECT id, name, comment, created_at
		FROM projects
		WHERE name = $1
	`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by name: %w", err)
	}

	return project, nil
}

func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	query := `
		SELECT id, name, comment, created_at
		FROM projects
		ORDER BY id
	`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// UpdateProject applies only the fields present in the patch. Fields
// left nil are untouched.
func (db *DB) UpdateProject(ctx context.Context, projectID int64, patch models.UpdateProjectRequest) (*models.Project, error) {
	ub := NewUpdateBuilder()
	if patch.Name != nil {
		ub.Set(columnName, *patch.Name)
	}
	if patch.Comment != nil {
		ub.Set(columnComment, *patch.Comment)
	}

	if ub.Empty() {
		return db.GetProject(ctx, projectID)
	}

	query := fmt.Sprintf(`
		UPDATE projects
		%s
		WHERE id = $%d
		RETURNING id, name, comment, created_at
	`, ub.SetClause(), ub.NextArgNum())

	args := append(ub.Args(), projectID)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateProject
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes the project row. The notes table references
// projects with ON DELETE CASCADE, so the project's notes and their tag
// associations go with it; tag rows are never touched.
func (db *DB) DeleteProject(ctx context.Context, projectID int64) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := db.Pool.Exec(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	log.Printf("Deleted project: %d", projectID)
	return nil
}

// Helper functions

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Comment,
		&project.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanProjects(rows rowsScanner) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}
