package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/config"
	"github.com/taskmaster-dev/taskmaster/internal/handlers"
	"github.com/taskmaster-dev/taskmaster/internal/repository"
	"github.com/taskmaster-dev/taskmaster/internal/router"
	"github.com/taskmaster-dev/taskmaster/internal/xmlbridge"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	store, err := db.ConnectDatabase(cfg.DatabaseURL)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(store); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := db.SeedDatabase(store); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	userRepo := repository.NewUserRepository(store)
	taskRepo := repository.NewTaskRepository(store)
	categoryRepo := repository.NewCategoryRepository(store)
	bridge := xmlbridge.New(store, taskRepo, categoryRepo)

	r := router.NewRouter(cfg, userRepo, router.Handlers{
		Tasks:      handlers.NewTasksHandler(taskRepo, cfg),
		Categories: handlers.NewCategoriesHandler(taskRepo, cfg),
		XML:        handlers.NewXMLHandler(bridge, cfg),
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
