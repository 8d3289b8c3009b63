package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taskmaster-dev/taskmaster/internal/models"
)

// DefaultCategory is assigned when a create or import supplies no category.
const DefaultCategory = "personal"

// TaskRepository handles all task reads and writes. Every operation is
// scoped to one user and excludes soft-deleted rows.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTaskInput carries the validated fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// TaskChanges is a partial update: nil fields are left untouched.
// SetDueDate distinguishes "clear the due date" (true, DueDate nil) from
// "leave it alone" (false).
type TaskChanges struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *models.TaskPriority
	Status      *models.TaskStatus
	DueDate     *time.Time
	SetDueDate  bool
}

// Stats aggregates task counts for a user. Priority buckets count active
// tasks only; overdue means an active task due strictly before today.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	HighPriority   int `json:"high_priority"`
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`
	Overdue        int `json:"overdue"`
	CompletedToday int `json:"completed_today"`
}

// CategoryCount is the active-task count for one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// DeadlineSummary is the short form returned by UpcomingDeadlines.
type DeadlineSummary struct {
	ID       uint                `json:"id"`
	Title    string              `json:"title"`
	DueDate  *time.Time          `json:"due_date"`
	Priority models.TaskPriority `json:"priority"`
	Category *string             `json:"category"`
}

const detailColumns = "tasks.id, tasks.user_id, tasks.category_id, tasks.title, tasks.description, " +
	"tasks.priority, tasks.status, tasks.due_date, tasks.completed_at, tasks.created_at, tasks.updated_at, " +
	"categories.name AS category, categories.color AS category_color"

func (r *TaskRepository) scoped(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select(detailColumns).
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.user_id = ? AND tasks.is_deleted = ?", userID, false)
}

// List returns the user's tasks joined with category name and color,
// filtered and ordered per the given filters.
func (r *TaskRepository) List(ctx context.Context, userID uint, filters TaskFilters) ([]models.TaskDetail, error) {
	details := []models.TaskDetail{}
	if err := filters.apply(r.scoped(ctx, userID)).Scan(&details).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return details, nil
}

// GetByID returns one task, or gorm.ErrRecordNotFound when the row does not
// exist, belongs to another user, or is soft-deleted.
func (r *TaskRepository) GetByID(ctx context.Context, id, userID uint) (*models.TaskDetail, error) {
	var detail models.TaskDetail
	err := r.scoped(ctx, userID).Where("tasks.id = ?", id).Take(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a pending task. The category name (default "personal") is
// resolved against the user's categories; an unmatched name stores a null
// category rather than failing.
func (r *TaskRepository) Create(ctx context.Context, userID uint, input CreateTaskInput) (*models.TaskDetail, error) {
	category := input.Category
	if category == "" {
		category = DefaultCategory
	}
	categoryID, err := r.resolveCategoryID(r.db.WithContext(ctx), userID, category)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		UserID:      userID,
		CategoryID:  categoryID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		Status:      models.StatusPending,
		DueDate:     toDate(input.DueDate),
	}
	if err := r.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return r.GetByID(ctx, task.ID, userID)
}

// Update applies the supplied fields to an owned task. Completing a task
// stamps completed_at; any other status clears it. An empty change-set
// returns the task unchanged without touching the store.
func (r *TaskRepository) Update(ctx context.Context, id, userID uint, changes TaskChanges) (*models.TaskDetail, error) {
	current, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Description != nil {
		updates["description"] = *changes.Description
	}
	if changes.Category != nil {
		categoryID, err := r.resolveCategoryID(r.db.WithContext(ctx), userID, *changes.Category)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}
	if changes.Priority != nil {
		updates["priority"] = *changes.Priority
	}
	if changes.SetDueDate {
		updates["due_date"] = toDate(changes.DueDate)
	}
	if changes.Status != nil {
		updates["status"] = *changes.Status
		if *changes.Status == models.StatusCompleted {
			updates["completed_at"] = time.Now().UTC()
		} else {
			updates["completed_at"] = nil
		}
	}

	if len(updates) == 0 {
		return current, nil
	}
	updates["updated_at"] = time.Now().UTC()

	err = r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return r.GetByID(ctx, id, userID)
}

// ToggleComplete flips a task between pending and completed. Any status
// other than completed collapses to pending on the way back.
func (r *TaskRepository) ToggleComplete(ctx context.Context, id, userID uint) (*models.TaskDetail, error) {
	current, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	next := models.StatusCompleted
	if current.Status == models.StatusCompleted {
		next = models.StatusPending
	}

	return r.Update(ctx, id, userID, TaskChanges{Status: &next})
}

// SoftDelete marks a task deleted and reports whether a row was affected.
func (r *TaskRepository) SoftDelete(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ClearCompleted soft-deletes every completed, non-deleted task for the
// user and returns how many rows were affected.
func (r *TaskRepository) ClearCompleted(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, models.StatusCompleted, false).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return 0, fmt.Errorf("clear completed tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Stats returns the aggregate counters for the dashboard. The date bounds
// are computed here so the SQL stays dialect-neutral.
func (r *TaskRepository) Stats(ctx context.Context, userID uint) (*Stats, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var stats Stats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status <> 'completed' THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN priority = 'high' AND status <> 'completed' THEN 1 ELSE 0 END), 0) AS high_priority,
			COALESCE(SUM(CASE WHEN priority = 'medium' AND status <> 'completed' THEN 1 ELSE 0 END), 0) AS medium_priority,
			COALESCE(SUM(CASE WHEN priority = 'low' AND status <> 'completed' THEN 1 ELSE 0 END), 0) AS low_priority,
			COALESCE(SUM(CASE WHEN due_date < ? AND status <> 'completed' THEN 1 ELSE 0 END), 0) AS overdue,
			COALESCE(SUM(CASE WHEN completed_at >= ? AND completed_at < ? THEN 1 ELSE 0 END), 0) AS completed_today
		FROM tasks
		WHERE user_id = ? AND is_deleted = ?`,
		today, today, tomorrow, userID, false).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	return &stats, nil
}

// CategoryCounts returns the active task count per category, including
// zero-count categories, in category sort order.
func (r *TaskRepository) CategoryCounts(ctx context.Context, userID uint) ([]CategoryCount, error) {
	counts := []CategoryCount{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.name, c.color, COUNT(t.id) AS count
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
			AND t.status <> 'completed'
			AND t.is_deleted = ?
		WHERE c.user_id = ?
		GROUP BY c.id, c.name, c.color
		ORDER BY c.sort_order`,
		false, userID).Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	return counts, nil
}

// UpcomingDeadlines returns the next active tasks that carry a due date,
// soonest first.
func (r *TaskRepository) UpcomingDeadlines(ctx context.Context, userID uint, limit int) ([]DeadlineSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	deadlines := []DeadlineSummary{}
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("tasks.id, tasks.title, tasks.due_date, tasks.priority, categories.name AS category").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.user_id = ? AND tasks.is_deleted = ? AND tasks.status <> ? AND tasks.due_date IS NOT NULL",
			userID, false, models.StatusCompleted).
		Order("tasks.due_date ASC").
		Limit(limit).
		Scan(&deadlines).Error
	if err != nil {
		return nil, fmt.Errorf("upcoming deadlines: %w", err)
	}
	return deadlines, nil
}

// resolveCategoryID looks up a category by name for the user. A missing
// category resolves to nil, never an error.
func (r *TaskRepository) resolveCategoryID(db *gorm.DB, userID uint, name string) (*uint, error) {
	var category models.Category
	err := db.Where("user_id = ? AND name = ?", userID, name).Take(&category).Error
	switch {
	case err == nil:
		return &category.ID, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("resolve category %q: %w", name, err)
	}
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d
}
