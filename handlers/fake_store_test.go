package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"lectern/database"
	"lectern/models"
)

// fakeStore is an in-memory NoteStore used to exercise the handlers
// without a database. It mirrors the store contracts: sentinel errors,
// name uniqueness, cascade on project delete, set-semantics tags.
type fakeStore struct {
	projects      map[int64]models.Project
	notes         map[int64]models.Note
	nextProjectID int64
	nextNoteID    int64

	updateNoteCalls int
	reconcileCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: map[int64]models.Project{},
		notes:    map[int64]models.Note{},
	}
}

func (f *fakeStore) CreateProject(_ context.Context, name string, comment *string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.Name == name {
			return nil, database.ErrDuplicateProject
		}
	}
	f.nextProjectID++
	project := models.Project{
		ID:        f.nextProjectID,
		Name:      name,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	f.projects[project.ID] = project
	return &project, nil
}

func (f *fakeStore) GetProject(_ context.Context, projectID int64) (*models.Project, error) {
	project, ok := f.projects[projectID]
	if !ok {
		return nil, database.ErrProjectNotFound
	}
	return &project, nil
}

func (f *fakeStore) GetProjectByName(_ context.Context, name string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.Name == name {
			project := p
			return &project, nil
		}
	}
	return nil, database.ErrProjectNotFound
}

func (f *fakeStore) ListProjects(_ context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	for _, p := range f.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (f *fakeStore) UpdateProject(_ context.Context, projectID int64, patch models.UpdateProjectRequest) (*models.Project, error) {
	project, ok := f.projects[projectID]
	if !ok {
		return nil, database.ErrProjectNotFound
	}
	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Comment != nil {
		project.Comment = patch.Comment
	}
	f.projects[projectID] = project
	return &project, nil
}

func (f *fakeStore) DeleteProject(_ context.Context, projectID int64) error {
	if _, ok := f.projects[projectID]; !ok {
		return database.ErrProjectNotFound
	}
	delete(f.projects, projectID)
	for id, note := range f.notes {
		if note.ProjectID == projectID {
			delete(f.notes, id)
		}
	}
	return nil
}

func (f *fakeStore) CreateNote(_ context.Context, projectID int64, payload models.CreateNoteRequest) (*models.Note, error) {
	for _, n := range f.notes {
		if n.ProjectID == projectID && n.Name == payload.NoteName {
			return nil, database.ErrDuplicateNote
		}
	}
	f.nextNoteID++
	note := models.Note{
		ID:                 f.nextNoteID,
		ProjectID:          projectID,
		Name:               payload.NoteName,
		Author:             payload.NoteAuthor,
		PublicationDetails: payload.NotePublicationDetails,
		PublicationYear:    payload.NotePublicationYear,
		Comments:           payload.NoteComments,
		CreatedAt:          time.Now().UTC(),
		Tags:               append([]string{}, payload.NoteTags...),
	}
	f.notes[note.ID] = note
	return &note, nil
}

func (f *fakeStore) GetNote(_ context.Context, noteID int64) (*models.Note, error) {
	note, ok := f.notes[noteID]
	if !ok {
		return nil, database.ErrNoteNotFound
	}
	return &note, nil
}

func (f *fakeStore) GetNoteNameInProject(_ context.Context, name string, projectID int64) (*models.NoteNameCheck, error) {
	for _, n := range f.notes {
		if n.ProjectID == projectID && n.Name == name {
			project := f.projects[projectID]
			return &models.NoteNameCheck{NoteName: n.Name, ProjectName: project.Name}, nil
		}
	}
	return nil, database.ErrNoteNotFound
}

func (f *fakeStore) ListNotesByProject(_ context.Context, projectID int64) ([]models.Note, error) {
	notes := []models.Note{}
	for _, n := range f.notes {
		if n.ProjectID == projectID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (f *fakeStore) UpdateNote(_ context.Context, noteID int64, patch models.UpdateNoteRequest) (*models.Note, error) {
	f.updateNoteCalls++
	note, ok := f.notes[noteID]
	if !ok {
		return nil, database.ErrNoteNotFound
	}
	if patch.Name != nil {
		note.Name = *patch.Name
	}
	if patch.Author != nil {
		note.Author = patch.Author
	}
	if patch.PublicationDetails != nil {
		note.PublicationDetails = patch.PublicationDetails
	}
	if patch.PublicationYear != nil {
		note.PublicationYear = patch.PublicationYear
	}
	if patch.Comments != nil {
		note.Comments = patch.Comments
	}
	f.notes[noteID] = note
	return &note, nil
}

func (f *fakeStore) DeleteNote(_ context.Context, noteID int64) error {
	if _, ok := f.notes[noteID]; !ok {
		return database.ErrNoteNotFound
	}
	delete(f.notes, noteID)
	return nil
}

func (f *fakeStore) ReconcileNoteTags(_ context.Context, noteID int64, existing, target []string) error {
	f.reconcileCalls++
	note, ok := f.notes[noteID]
	if !ok {
		return database.ErrNoteNotFound
	}
	toRemove, toAdd := database.DiffTags(existing, target)
	removed := map[string]struct{}{}
	for _, name := range toRemove {
		removed[name] = struct{}{}
	}
	tags := []string{}
	for _, name := range note.Tags {
		if _, ok := removed[name]; !ok {
			tags = append(tags, name)
		}
	}
	tags = append(tags, toAdd...)
	note.Tags = tags
	f.notes[noteID] = note
	return nil
}

func newTestRouter(s NoteStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/health", HealthCheck)

	projects := r.Group("/projects")
	{
		projects.POST("/", CreateProject(s))
		projects.GET("/", ListProjects(s))
		projects.GET("/:project_id/", GetProject(s))
		projects.PATCH("/:project_id/", PatchProject(s))
		projects.DELETE("/:project_id/", DeleteProject(s))

		notes := projects.Group("/:project_id/notes")
		{
			notes.POST("/", CreateNote(s))
			notes.GET("/", ListNotes(s))
			notes.GET("/:note_id/", GetNote(s))
			notes.PATCH("/:note_id/", PatchNote(s))
			notes.DELETE("/:note_id/", DeleteNote(s))
		}
	}

	return r
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
