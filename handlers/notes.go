package handlers

import (
	"errors"
	"fmt"
	"lectern/database"
	"lectern/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgNoteNotFound     = "Note id not found"
	msgNoteNotOnProject = "The note id cannot be found for this project."
)

// noteRequestIDs resolves the project and note addressed by the route,
// enforcing existence and ownership in the order every note endpoint
// shares: project first, then note, then the ownership check. Writes
// the error response itself and returns ok=false on any failure.
func noteRequestIDs(c *gin.Context, s NoteStore) (project *models.Project, note *models.Note, ok bool) {
	projectID, err := parseIDParam(c, "project_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
		return nil, nil, false
	}
	noteID, err := parseIDParam(c, "note_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note ID"})
		return nil, nil, false
	}

	ctx := c.Request.Context()
	project, err = s.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, database.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgProjectNotFound})
			return nil, nil, false
		}
		log.Printf("note request project lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return nil, nil, false
	}

	note, err = s.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, database.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNoteNotFound})
			return nil, nil, false
		}
		log.Printf("note request note lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get note"})
		return nil, nil, false
	}

	if note.ProjectID != project.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNoteNotOnProject})
		return nil, nil, false
	}

	return project, note, true
}

func CreateNote(s NoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := parseIDParam(c, "project_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		var req models.CreateNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Bind error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		project, err := s.GetProject(ctx, projectID)
		if err != nil {
			if errors.Is(err, database.ErrProjectNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": msgProjectNotFound})
				return
			}
			log.Printf("CreateNote project lookup error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create note"})
			return
		}

		check, err := s.GetNoteNameInProject(ctx, req.NoteName, projectID)
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
				"Note '%s' already exists for project '%s'. Please select"+
					" a unique note name for this project.",
				req.NoteName, check.ProjectName)})
			return
		}
		if !errors.Is(err, database.ErrNoteNotFound) {
			log.Printf("CreateNote name check error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create note"})
			return
		}

		note, err := s.CreateNote(ctx, projectID, req)
		if err != nil {
			if errors.Is(err, database.ErrDuplicateNote) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
					"Note '%s' already exists for project '%s'. Please select"+
						" a unique note name for this project.",
					req.NoteName, project.Name)})
				return
			}
			log.Printf("CreateNote database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create note"})
			return
		}

		c.JSON(http.StatusOK, models.NewNoteResponse(note))
	}
}

func ListNotes(s NoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := parseIDParam(c, "project_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		ctx := c.Request.Context()
		if _, err := s.GetProject(ctx, projectID); err != nil {
			if errors.Is(err, database.ErrProjectNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": msgProjectNotFound})
				return
			}
			log.Printf("ListNotes project lookup error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
			return
		}

		notes, err := s.ListNotesByProject(ctx, projectID)
		if err != nil {
			log.Printf("ListNotes database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
			return
		}

		response := make([]models.NoteResponse, 0, len(notes))
		for i := range notes {
			response = append(response, models.NewNoteResponse(&notes[i]))
		}

		c.JSON(http.StatusOK, response)
	}
}

func GetNote(s NoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, note, ok := noteRequestIDs(c, s)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, models.NewNoteResponse(note))
	}
}

func PatchNote(s NoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		project, note, ok := noteRequestIDs(c, s)
		if !ok {
			return
		}

		ctx := c.Request.Context()

		if req.Name != nil && *req.Name != note.Name {
			_, err := s.GetNoteNameInProject(ctx, *req.Name, project.ID)
			if err == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
					"Note name '%s' already exists on '%s' project. Please"+
						" select a unique note name and try again.",
					*req.Name, project.Name)})
				return
			}
			if !errors.Is(err, database.ErrNoteNotFound) {
				log.Printf("PatchNote name check error: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update note"})
				return
			}
		}

		if req.Tags != nil {
			if err := s.ReconcileNoteTags(ctx, note.ID, note.Tags, *req.Tags); err != nil {
				log.Printf("PatchNote tag reconciliation error: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update note"})
				return
			}
		}

		// A tags-only patch has nothing left for the notes table.
		var updated *models.Note
		var err error
		if req.HasScalarFields() {
			updated, err = s.UpdateNote(ctx, note.ID, req)
		} else {
			updated, err = s.GetNote(ctx, note.ID)
		}
		if err != nil {
			if errors.Is(err, database.ErrDuplicateNote) && req.Name != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
					"Note name '%s' already exists on '%s' project. Please"+
						" select a unique note name and try again.",
					*req.Name, project.Name)})
				return
			}
			log.Printf("PatchNote database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update note"})
			return
		}

		c.JSON(http.StatusOK, models.NewNoteResponse(updated))
	}
}

func DeleteNote(s NoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, note, ok := noteRequestIDs(c, s)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if err := s.DeleteNote(ctx, note.ID); err != nil {
			if errors.Is(err, database.ErrNoteNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": msgNoteNotFound})
				return
			}
			log.Printf("DeleteNote database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete note"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
	}
}
