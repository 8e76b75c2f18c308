package handlers

import (
	"errors"
	"fmt"
	"lectern/database"
	"lectern/models"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	msgProjectNotFound = "Project id not found"
)

func projectConflictMessage(name string) string {
	return fmt.Sprintf("Project name '%s' already exists. Please"+
		" select a unique project name and try again.", name)
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func CreateProject(s ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Bind error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()

		_, err := s.GetProjectByName(ctx, req.Name)
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": projectConflictMessage(req.Name)})
			return
		}
		if !errors.Is(err, database.ErrProjectNotFound) {
			log.Printf("CreateProject name check error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}

		project, err := s.CreateProject(ctx, req.Name, req.Comment)
		if err != nil {
			// The unique constraint is the backstop for creates that
			// race past the name check above.
			if errors.Is(err, database.ErrDuplicateProject) {
				c.JSON(http.StatusBadRequest, gin.H{"error": projectConflictMessage(req.Name)})
				return
			}
			log.Printf("CreateProject database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

func ListProjects(s ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		projects, err := s.ListProjects(ctx)
		if err != nil {
			log.Printf("ListProjects database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
			return
		}

		c.JSON(http.StatusOK, projects)
	}
}

func GetProject(s ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := parseIDParam(c, "project_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		ctx := c.Request.Context()
		project, err := s.GetProject(ctx, projectID)
		if err != nil {
			if errors.Is(err, database.ErrProjectNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": msgProjectNotFound})
				return
			}
			log.Printf("GetProject database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func PatchProject(s ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := parseIDParam(c, "project_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		var req models.UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
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
			log.Printf("PatchProject database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
			return
		}

		// Only a real rename needs the collision check.
		if req.Name != nil && *req.Name != project.Name {
			_, err := s.GetProjectByName(ctx, *req.Name)
			if err == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": projectConflictMessage(*req.Name)})
				return
			}
			if !errors.Is(err, database.ErrProjectNotFound) {
				log.Printf("PatchProject name check error: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
				return
			}
		}

		updated, err := s.UpdateProject(ctx, projectID, req)
		if err != nil {
			if errors.Is(err, database.ErrDuplicateProject) && req.Name != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": projectConflictMessage(*req.Name)})
				return
			}
			log.Printf("PatchProject database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteProject(s ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := parseIDParam(c, "project_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		ctx := c.Request.Context()
		if err := s.DeleteProject(ctx, projectID); err != nil {
			if errors.Is(err, database.ErrProjectNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": msgProjectNotFound})
				return
			}
			log.Printf("DeleteProject database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
	}
}
