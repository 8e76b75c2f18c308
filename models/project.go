package models

import (
	"time"
)

// Project groups research notes under a globally unique name.
// Deleting a project cascades to its notes and their tag associations.
type Project struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Comment   *string   `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateProjectRequest is the payload for creating a new project.
type CreateProjectRequest struct {
	Name    string  `json:"name" binding:"required"`
	Comment *string `json:"comment"`
}

// UpdateProjectRequest is a sparse patch payload. A nil field means
// "leave unchanged".
type UpdateProjectRequest struct {
	Name    *string `json:"name"`
	Comment *string `json:"comment"`
}
