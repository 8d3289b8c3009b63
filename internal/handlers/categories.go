package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmaster-dev/taskmaster/internal/config"
	"github.com/taskmaster-dev/taskmaster/internal/repository"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
)

type CategoriesHandler struct {
	tasks       *repository.TaskRepository
	development bool
}

func NewCategoriesHandler(tasks *repository.TaskRepository, cfg config.Config) *CategoriesHandler {
	return &CategoriesHandler{
		tasks:       tasks,
		development: cfg.Development(),
	}
}

// Counts returns the active task count per category, zero counts included,
// in category sort order.
func (h *CategoriesHandler) Counts(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	counts, err := h.tasks.CategoryCounts(ctx.Request.Context(), userID)

	if err != nil {
		serverError(ctx, h.development, "Failed to retrieve categories", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"categories": counts})
}
