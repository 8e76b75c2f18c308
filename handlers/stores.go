package handlers

import (
	"context"
	"lectern/models"
)

// ProjectStore is the slice of the database layer the project handlers
// depend on. *database.DB satisfies it; tests inject fakes.
type ProjectStore interface {
	CreateProject(ctx context.Context, name string, comment *string) (*models.Project, error)
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	GetProjectByName(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, projectID int64, patch models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID int64) error
}

// NoteStore is the slice of the database layer the note handlers
// depend on, including the tag reconciliation entry point.
type NoteStore interface {
	ProjectStore

	CreateNote(ctx context.Context, projectID int64, payload models.CreateNoteRequest) (*models.Note, error)
	GetNote(ctx context.Context, noteID int64) (*models.Note, error)
	GetNoteNameInProject(ctx context.Context, name string, projectID int64) (*models.NoteNameCheck, error)
	ListNotesByProject(ctx context.Context, projectID int64) ([]models.Note, error)
	UpdateNote(ctx context.Context, noteID int64, patch models.UpdateNoteRequest) (*models.Note, error)
	DeleteNote(ctx context.Context, noteID int64) error
	ReconcileNoteTags(ctx context.Context, noteID int64, existing, target []string) error
}
