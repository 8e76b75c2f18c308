package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
)

// Tag reconciliation: given a note's current tag names and a target
// set, work out which tag rows must be created, which associations
// attached, and which detached. Tag rows themselves are a shared
// vocabulary and are never deleted here. Matching is exact-string and
// case-sensitive.

// DiffTags computes the association changes needed to move a note's
// tag set from existing to target. Names present in both sets are left
// untouched. Pure set logic, no I/O.
func DiffTags(existing, target []string) (toRemove, toAdd []string) {
	existingSet := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		existingSet[name] = struct{}{}
	}
	targetSet := make(map[string]struct{}, len(target))
	for _, name := range target {
		targetSet[name] = struct{}{}
	}

	toRemove = []string{}
	for _, name := range existing {
		if _, ok := targetSet[name]; !ok {
			toRemove = append(toRemove, name)
		}
	}

	toAdd = []string{}
	for _, name := range target {
		if _, ok := existingSet[name]; !ok {
			toAdd = append(toAdd, name)
		}
	}

	return toRemove, toAdd
}

// MissingTags returns the subset of names that have no tag row yet.
// Read-only; used before materializing new tags.
func (db *DB) MissingTags(ctx context.Context, names []string) ([]string, error) {
	return missingTags(ctx, db.Pool, names)
}

// LinkTags creates tag rows for any names not yet present, then
// attaches all named tags to the note. Runs in one transaction.
// Attaching an already-attached tag is a no-op, so the operation is
// idempotent.
func (db *DB) LinkTags(ctx context.Context, noteID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return db.withTx(ctx, func(tx pgx.Tx) error {
		return linkTags(ctx, tx, noteID, names)
	})
}

// UnlinkTags detaches the named tags from the note. The tag rows stay;
// other notes may reference them.
func (db *DB) UnlinkTags(ctx context.Context, noteID int64, names []string) error {
	return unlinkTags(ctx, db.Pool, noteID, names)
}

// ReconcileNoteTags moves the note's tag set from existing to target:
// detaches what dropped out, materializes and attaches what is new.
// Both halves run in the same transaction.
func (db *DB) ReconcileNoteTags(ctx context.Context, noteID int64, existing, target []string) error {
	toRemove, toAdd := DiffTags(existing, target)
	if len(toRemove) == 0 && len(toAdd) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		log.Printf("ReconcileNoteTags: duration=%v note=%d removed=%d added=%d",
			time.Since(start), noteID, len(toRemove), len(toAdd))
	}()

	return db.withTx(ctx, func(tx pgx.Tx) error {
		if err := unlinkTags(ctx, tx, noteID, toRemove); err != nil {
			return err
		}
		if len(toAdd) > 0 {
			return linkTags(ctx, tx, noteID, toAdd)
		}
		return nil
	})
}

func missingTags(ctx context.Context, q querier, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}

	query := `SELECT name FROM tags WHERE name = ANY($1)`

	rows, err := q.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing tags: %w", err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	missing := []string{}
	seen := map[string]struct{}{}
	for _, name := range names {
		if _, ok := existing[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}

	return missing, nil
}

func linkTags(ctx context.Context, q querier, noteID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	missing, err := missingTags(ctx, q, names)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		// ON CONFLICT guards against a concurrent insert of the same
		// name between the lookup and this batch.
		insertQuery := `
			INSERT INTO tags (name)
			VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`

		batch := &pgx.Batch{}
		for _, name := range missing {
			batch.Queue(insertQuery, name)
		}

		results := q.SendBatch(ctx, batch)

		for range missing {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to insert tags: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close tag insert batch: %w", err)
		}
	}

	// Attach everything in names, existing and newly inserted alike.
	// The join table's composite primary key plus DO NOTHING keeps
	// association membership a set.
	attachQuery := `
		INSERT INTO notes_tags (note_id, tag_id)
		SELECT $1, id FROM tags WHERE name = ANY($2)
		ON CONFLICT DO NOTHING
	`

	if _, err := q.Exec(ctx, attachQuery, noteID, names); err != nil {
		return fmt.Errorf("failed to attach tags: %w", err)
	}

	return nil
}

func unlinkTags(ctx context.Context, q querier, noteID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	query := `
		DELETE FROM notes_tags
		WHERE note_id = $1
		AND tag_id IN (SELECT id FROM tags WHERE name = ANY($2))
	`

	if _, err := q.Exec(ctx, query, noteID, names); err != nil {
		return fmt.Errorf("failed to detach tags: %w", err)
	}

	return nil
}
