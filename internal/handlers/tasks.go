package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskmaster-dev/taskmaster/internal/config"
	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/repository"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
	"github.com/taskmaster-dev/taskmaster/internal/validation"
)

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

type TaskResponse struct {
	ID            uint    `json:"id"`
	UserID        uint    `json:"user_id"`
	CategoryID    *uint   `json:"category_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Priority      string  `json:"priority"`
	Status        string  `json:"status"`
	DueDate       *string `json:"due_date"`
	CompletedAt   *string `json:"completed_at"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
	Category      *string `json:"category"`
	CategoryColor *string `json:"category_color"`
}

type DeadlineResponse struct {
	ID       uint    `json:"id"`
	Title    string  `json:"title"`
	DueDate  *string `json:"due_date"`
	Priority string  `json:"priority"`
	Category *string `json:"category"`
}

type TasksHandler struct {
	tasks       *repository.TaskRepository
	development bool
}

func NewTasksHandler(tasks *repository.TaskRepository, cfg config.Config) *TasksHandler {
	return &TasksHandler{
		tasks:       tasks,
		development: cfg.Development(),
	}
}

func (h *TasksHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	filters := repository.TaskFilters{
		Status:   optionalFilter(ctx, "status"),
		Category: optionalFilter(ctx, "category"),
		Priority: optionalFilter(ctx, "priority"),
		Search:   optionalQuery(ctx, "search"),
		SortBy:   repository.ParseSortOrder(ctx.Query("sort_by")),
		Limit:    optionalInt(ctx, "limit"),
		Offset:   optionalInt(ctx, "offset"),
	}

	tasks, err := h.tasks.List(ctx.Request.Context(), userID, filters)

	if err != nil {
		serverError(ctx, h.development, "Failed to retrieve tasks", err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, newTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, gin.H{"tasks": response, "count": len(response)})
}

func (h *TasksHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	id, ok := taskID(ctx)

	if !ok {
		return
	}

	task, err := h.tasks.GetByID(ctx.Request.Context(), id, userID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			serverError(ctx, h.development, "Failed to retrieve task", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"task": newTaskResponse(*task)})
}

func (h *TasksHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	v := validation.New()
	v.CheckTitle(body.Title)
	if body.Description != nil {
		v.CheckDescription(*body.Description)
	}
	if body.Priority != nil {
		v.CheckPriority(*body.Priority)
	}
	if body.Category != nil {
		v.CheckCategory(*body.Category)
	}
	if body.DueDate != nil && *body.DueDate != "" {
		v.CheckDueDate(*body.DueDate)
	}
	if !v.Valid() {
		validationError(ctx, v.Errors())
		return
	}

	input := repository.CreateTaskInput{Title: body.Title}
	if body.Description != nil {
		input.Description = *body.Description
	}
	if body.Category != nil {
		input.Category = *body.Category
	}
	if body.Priority != nil {
		input.Priority = models.TaskPriority(*body.Priority)
	}
	if body.DueDate != nil && *body.DueDate != "" {
		due, _ := validation.ParseDueDate(*body.DueDate)
		input.DueDate = &due
	}

	task, err := h.tasks.Create(ctx.Request.Context(), userID, input)

	if err != nil {
		serverError(ctx, h.development, "Failed to create task", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"task": newTaskResponse(*task)})
}

func (h *TasksHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	id, ok := taskID(ctx)

	if !ok {
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	v := validation.New()
	if body.Title != nil {
		v.CheckTitle(*body.Title)
	}
	if body.Description != nil {
		v.CheckDescription(*body.Description)
	}
	if body.Priority != nil {
		v.CheckPriority(*body.Priority)
	}
	if body.Category != nil {
		v.CheckCategory(*body.Category)
	}
	if body.DueDate != nil && *body.DueDate != "" {
		v.CheckDueDate(*body.DueDate)
	}
	if !v.Valid() {
		validationError(ctx, v.Errors())
		return
	}

	changes := repository.TaskChanges{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
	}
	if body.Priority != nil {
		priority := models.TaskPriority(*body.Priority)
		changes.Priority = &priority
	}
	if body.Status != nil {
		status := models.TaskStatus(*body.Status)
		changes.Status = &status
	}
	if body.DueDate != nil {
		changes.SetDueDate = true
		if *body.DueDate != "" {
			due, _ := validation.ParseDueDate(*body.DueDate)
			changes.DueDate = &due
		}
	}

	task, err := h.tasks.Update(ctx.Request.Context(), id, userID, changes)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			serverError(ctx, h.development, "Failed to update task", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"task": newTaskResponse(*task)})
}

func (h *TasksHandler) Toggle(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	id, ok := taskID(ctx)

	if !ok {
		return
	}

	task, err := h.tasks.ToggleComplete(ctx.Request.Context(), id, userID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			serverError(ctx, h.development, "Failed to toggle task", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"task": newTaskResponse(*task)})
}

func (h *TasksHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	id, ok := taskID(ctx)

	if !ok {
		return
	}

	deleted, err := h.tasks.SoftDelete(ctx.Request.Context(), id, userID)

	if err != nil {
		serverError(ctx, h.development, "Failed to delete task", err)
		return
	}

	if !deleted {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (h *TasksHandler) ClearCompleted(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	count, err := h.tasks.ClearCompleted(ctx.Request.Context(), userID)

	if err != nil {
		serverError(ctx, h.development, "Failed to clear completed tasks", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Completed tasks deleted", "count": count})
}

func (h *TasksHandler) Stats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	stats, err := h.tasks.Stats(ctx.Request.Context(), userID)

	if err != nil {
		serverError(ctx, h.development, "Failed to retrieve stats", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *TasksHandler) Deadlines(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "User not resolved"})
		return
	}

	limit := 5
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	deadlines, err := h.tasks.UpcomingDeadlines(ctx.Request.Context(), userID, limit)

	if err != nil {
		serverError(ctx, h.development, "Failed to retrieve deadlines", err)
		return
	}

	response := make([]DeadlineResponse, 0, len(deadlines))

	for _, d := range deadlines {
		response = append(response, DeadlineResponse{
			ID:       d.ID,
			Title:    d.Title,
			DueDate:  formatDate(d.DueDate),
			Priority: string(d.Priority),
			Category: d.Category,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"deadlines": response})
}

func newTaskResponse(task models.TaskDetail) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		UserID:        task.UserID,
		CategoryID:    task.CategoryID,
		Title:         task.Title,
		Description:   task.Description,
		Priority:      string(task.Priority),
		Status:        string(task.Status),
		DueDate:       formatDate(task.DueDate),
		CompletedAt:   formatTimestamp(task.CompletedAt),
		CreatedAt:     task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     task.UpdatedAt.Format(time.RFC3339),
		Category:      task.Category,
		CategoryColor: task.CategoryColor,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// optionalFilter treats absent values and the "all" sentinel as no filter.
func optionalFilter(ctx *gin.Context, name string) *string {
	value := ctx.Query(name)
	if value == "" || value == "all" {
		return nil
	}
	return &value
}

func optionalQuery(ctx *gin.Context, name string) *string {
	value := ctx.Query(name)
	if value == "" {
		return nil
	}
	return &value
}

// optionalInt parses a whole-number query parameter; invalid or negative
// values mean no filter.
func optionalInt(ctx *gin.Context, name string) *int {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

func taskID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return 0, false
	}
	return uint(id), true
}
