package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/config"
	"github.com/taskmaster-dev/taskmaster/internal/handlers"
	"github.com/taskmaster-dev/taskmaster/internal/middleware"
	"github.com/taskmaster-dev/taskmaster/internal/repository"
)

// Handlers bundles the request handlers the router wires up.
type Handlers struct {
	Tasks      *handlers.TasksHandler
	Categories *handlers.CategoriesHandler
	XML        *handlers.XMLHandler
}

func NewRouter(cfg config.Config, users *repository.UserRepository, h Handlers) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		user := api.Group("", middleware.CurrentUser(users, db.DefaultUsername))
		{
			tasks := user.Group("/tasks")
			{
				tasks.GET("", h.Tasks.List)
				tasks.POST("", h.Tasks.Create)
				tasks.GET("/stats", h.Tasks.Stats)
				tasks.GET("/deadlines", h.Tasks.Deadlines)
				tasks.DELETE("/completed", h.Tasks.ClearCompleted)
				tasks.GET("/:id", h.Tasks.Get)
				tasks.PUT("/:id", h.Tasks.Update)
				tasks.PATCH("/:id/toggle", h.Tasks.Toggle)
				tasks.DELETE("/:id", h.Tasks.Delete)
			}

			user.GET("/categories", h.Categories.Counts)

			xml := user.Group("/xml")
			{
				xml.GET("/export", h.XML.Export)
				xml.POST("/import", h.XML.Import)
				xml.POST("/save", h.XML.Save)
				xml.POST("/load", h.XML.Load)
				xml.GET("/parse", h.XML.Parse)
			}
		}
	}

	return r
}
