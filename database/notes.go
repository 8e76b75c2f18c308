package database

import (
	"context"
	"fmt"
	"lectern/models"
	"log"

	"github.com/jackc/pgx/v5"
)

// noteSelect loads notes with their tag name list in one query. The
// LEFT JOIN keeps tagless notes; the FILTER drops the NULL produced by
// the join for those rows.
const noteSelect = `
	SELECT
		n.id, n.project_id, n.name, n.author, n.publication_details,
		n.publication_year, n.comments, n.created_at,
		COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}')
	FROM notes n
	LEFT JOIN notes_tags nt ON nt.note_id = n.id
	LEFT JOIN tags t ON t.id = nt.tag_id
`

// CreateNote inserts the note and links its initial tags in a single
// transaction, so a failure at any step leaves no half-created note.
func (db *DB) CreateNote(ctx context.Context, projectID int64, payload models.CreateNoteRequest) (*models.Note, error) {
	var noteID int64

	err := db.withTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO notes (project_id, name, author, publication_details, publication_year, comments)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`

		err := tx.QueryRow(ctx, query,
			projectID,
			payload.NoteName,
			payload.NoteAuthor,
			payload.NotePublicationDetails,
			payload.NotePublicationYear,
			payload.NoteComments,
		).Scan(&noteID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateNote
			}
			return fmt.Errorf("failed to insert note: %w", err)
		}

		if len(payload.NoteTags) > 0 {
			if err := linkTags(ctx, tx, noteID, payload.NoteTags); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Created note: %s (ID: %d, project: %d)", payload.NoteName, noteID, projectID)
	return db.GetNote(ctx, noteID)
}

func (db *DB) GetNote(ctx context.Context, noteID int64) (*models.Note, error) {
	query := noteSelect + `
		WHERE n.id = $1
		GROUP BY n.id
	`

	note, err := scanNote(db.Pool.QueryRow(ctx, query, noteID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// GetNoteNameInProject is the uniqueness pre-check lookup. It returns a
// minimal projection joining in the project's display name so conflict
// messages can cite it.
func (db *DB) GetNoteNameInProject(ctx context.Context, name string, projectID int64) (*models.NoteNameCheck, error) {
	query := `
		SELECT n.name, p.name
		FROM notes n
		JOIN projects p ON p.id = n.project_id
		WHERE n.name = $1 AND n.project_id = $2
	`

	var check models.NoteNameCheck
	err := db.Pool.QueryRow(ctx, query, name, projectID).Scan(&check.NoteName, &check.ProjectName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to check note name: %w", err)
	}

	return &check, nil
}

func (db *DB) ListNotesByProject(ctx context.Context, projectID int64) ([]models.Note, error) {
	query := noteSelect + `
		WHERE n.project_id = $1
		GROUP BY n.id
		ORDER BY n.id
	`

	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// UpdateNote applies only the scalar fields present in the patch. Tag
// changes never pass through here; they go through ReconcileNoteTags.
func (db *DB) UpdateNote(ctx context.Context, noteID int64, patch models.UpdateNoteRequest) (*models.Note, error) {
	ub := NewUpdateBuilder()
	if patch.Name != nil {
		ub.Set(columnName, *patch.Name)
	}
	if patch.Author != nil {
		ub.Set(columnAuthor, *patch.Author)
	}
	if patch.PublicationDetails != nil {
		ub.Set(columnPublicationDetails, *patch.PublicationDetails)
	}
	if patch.PublicationYear != nil {
		ub.Set(columnPublicationYear, *patch.PublicationYear)
	}
	if patch.Comments != nil {
		ub.Set(columnComments, *patch.Comments)
	}

	if ub.Empty() {
		return db.GetNote(ctx, noteID)
	}

	query := fmt.Sprintf(`
		UPDATE notes
		%s
		WHERE id = $%d
	`, ub.SetClause(), ub.NextArgNum())

	args := append(ub.Args(), noteID)

	result, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateNote
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, ErrNoteNotFound
	}

	return db.GetNote(ctx, noteID)
}

// DeleteNote removes the note row; its notes_tags rows go with it via
// the FK cascade. Tag rows stay.
func (db *DB) DeleteNote(ctx context.Context, noteID int64) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := db.Pool.Exec(ctx, query, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	log.Printf("Deleted note: %d", noteID)
	return nil
}

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.ID,
		&note.ProjectID,
		&note.Name,
		&note.Author,
		&note.PublicationDetails,
		&note.PublicationYear,
		&note.Comments,
		&note.CreatedAt,
		&note.Tags,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
