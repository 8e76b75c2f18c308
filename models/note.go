package models

import (
	"time"
)

// Note is a single research note owned by exactly one project.
// Tags is the note's tag name set, loaded eagerly by the store.
type Note struct {
	ID                 int64     `db:"id"`
	ProjectID          int64     `db:"project_id"`
	Name               string    `db:"name"`
	Author             *string   `db:"author"`
	PublicationDetails *string   `db:"publication_details"`
	PublicationYear    *int      `db:"publication_year"`
	Comments           *string   `db:"comments"`
	CreatedAt          time.Time `db:"created_at"`
	Tags               []string  `db:"-"`
}

// NoteNameCheck is the minimal projection used for the note-name
// uniqueness pre-check. ProjectName is carried so conflict messages
// can name the project without a second lookup.
type NoteNameCheck struct {
	NoteName    string
	ProjectName string
}

// CreateNoteRequest is the payload for adding a note to a project.
type CreateNoteRequest struct {
	NoteName               string   `json:"note_name" binding:"required"`
	NoteAuthor             *string  `json:"note_author"`
	NotePublicationDetails *string  `json:"note_publication_details"`
	NotePublicationYear    *int     `json:"note_publication_year"`
	NoteComments           *string  `json:"note_comments"`
	NoteTags               []string `json:"note_tags"`
}

// UpdateNoteRequest is a sparse patch payload for a note. A nil field
// means "leave unchanged". Tags is applied through tag reconciliation,
// never through the scalar note update.
type UpdateNoteRequest struct {
	Name               *string   `json:"name"`
	Author             *string   `json:"author"`
	PublicationDetails *string   `json:"publication_details"`
	PublicationYear    *int      `json:"publication_year"`
	Comments           *string   `json:"comments"`
	Tags               *[]string `json:"tags"`
}

// HasScalarFields reports whether any field besides Tags is present.
// A tags-only patch skips the notes-table update entirely.
func (r UpdateNoteRequest) HasScalarFields() bool {
	return r.Name != nil || r.Author != nil || r.PublicationDetails != nil ||
		r.PublicationYear != nil || r.Comments != nil
}

// NoteResponse is the API projection of a note. Tag associations are
// flattened to a plain list of tag names.
type NoteResponse struct {
	NoteID                 int64     `json:"note_id"`
	ProjectID              int64     `json:"project_id"`
	NoteName               string    `json:"note_name"`
	NoteAuthor             *string   `json:"note_author"`
	NotePublicationDetails *string   `json:"note_publication_details"`
	NotePublicationYear    *int      `json:"note_publication_year"`
	NoteComments           *string   `json:"note_comments"`
	CreatedAt              time.Time `json:"created_at"`
	NoteTags               []string  `json:"note_tags"`
}

// NewNoteResponse projects a stored note into its API shape.
func NewNoteResponse(note *Note) NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		NoteID:                 note.ID,
		ProjectID:              note.ProjectID,
		NoteName:               note.Name,
		NoteAuthor:             note.Author,
		NotePublicationDetails: note.PublicationDetails,
		NotePublicationYear:    note.PublicationYear,
		NoteComments:           note.Comments,
		CreatedAt:              note.CreatedAt,
		NoteTags:               tags,
	}
}
