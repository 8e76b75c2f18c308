package main

import (
	"context"
	"lectern/database"
	"lectern/handlers"
	"lectern/middleware"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	r := gin.Default()
	r.Use(middleware.RequestID())

	r.GET("/health", handlers.HealthCheck)

	projects := r.Group("/projects")
	{
		projects.POST("/", handlers.CreateProject(db))
		projects.GET("/", handlers.ListProjects(db))
		projects.GET("/:project_id/", handlers.GetProject(db))
		projects.PATCH("/:project_id/", handlers.PatchProject(db))
		projects.DELETE("/:project_id/", handlers.DeleteProject(db))

		notes := projects.Group("/:project_id/notes")
		{
			notes.POST("/", handlers.CreateNote(db))
			notes.GET("/", handlers.ListNotes(db))
			notes.GET("/:note_id/", handlers.GetNote(db))
			notes.PATCH("/:note_id/", handlers.PatchNote(db))
			notes.DELETE("/:note_id/", handlers.DeleteNote(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server starting on :" + port)
	r.Run(":" + port)
}
