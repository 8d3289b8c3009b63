package xmlbridge

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/repository"
	"github.com/taskmaster-dev/taskmaster/internal/validation"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// Bridge translates between the relational store and the <taskmaster> XML
// representation.
type Bridge struct {
	db         *gorm.DB
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
}

func New(db *gorm.DB, tasks *repository.TaskRepository, categories *repository.CategoryRepository) *Bridge {
	return &Bridge{
		db:         db,
		tasks:      tasks,
		categories: categories,
	}
}

// Export serializes the user's non-deleted tasks and categories. Tasks are
// newest first; categories follow their sort order.
func (b *Bridge) Export(ctx context.Context, userID uint) ([]byte, error) {
	doc, err := b.BuildDocument(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// BuildDocument assembles the export document without serializing it.
func (b *Bridge) BuildDocument(ctx context.Context, userID uint) (*Document, error) {
	tasks, err := b.tasks.List(ctx, userID, repository.TaskFilters{})
	if err != nil {
		return nil, err
	}
	categories, err := b.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Metadata: Metadata{
			ExportedAt: time.Now().Format(timestampLayout),
			Version:    FormatVersion,
			TotalTasks: len(tasks),
			UserID:     userID,
		},
	}

	for _, task := range tasks {
		category := repository.DefaultCategory
		if task.Category != nil {
			category = *task.Category
		}
		doc.Tasks.Tasks = append(doc.Tasks.Tasks, TaskElement{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Category:    category,
			Priority:    string(task.Priority),
			Status:      string(task.Status),
			DueDate:     formatDate(task.DueDate),
			CreatedAt:   formatTimestamp(&task.CreatedAt),
			CompletedAt: formatTimestamp(task.CompletedAt),
		})
	}

	for _, category := range categories {
		doc.Categories.Categories = append(doc.Categories.Categories, CategoryElement{
			Name:  category.Name,
			Color: category.Color,
			Icon:  category.Icon,
		})
	}

	return doc, nil
}

// Import parses a <taskmaster> document and inserts its tasks for the user
// inside one transaction: either every importable task is persisted or none
// is. Tasks with an empty title are counted as skipped. Category names
// resolve against the user's categories, storing a null category when
// unmatched.
func (b *Bridge) Import(ctx context.Context, userID uint, data []byte) (Result, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Result{}, &ParseError{Err: err}
	}

	var res Result
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, el := range doc.Tasks.Tasks {
			title := strings.TrimSpace(el.Title)
			if title == "" {
				res.Skipped++
				continue
			}

			task := models.Task{
				UserID:      userID,
				Title:       title,
				Description: el.Description,
				Priority:    models.PriorityMedium,
				Status:      models.StatusPending,
			}

			if el.Priority != "" {
				task.Priority = models.TaskPriority(el.Priority)
			}
			if el.Status != "" {
				task.Status = models.TaskStatus(el.Status)
			}

			if el.DueDate != "" {
				due, ok := validation.ParseDueDate(el.DueDate)
				if !ok {
					return fmt.Errorf("task %q: invalid due date %q", title, el.DueDate)
				}
				d := datatypes.Date(due)
				task.DueDate = &d
			}

			categoryName := el.Category
			if categoryName == "" {
				categoryName = repository.DefaultCategory
			}
			var category models.Category
			err := tx.Where("user_id = ? AND name = ?", userID, categoryName).Take(&category).Error
			switch {
			case err == nil:
				task.CategoryID = &category.ID
			case err == gorm.ErrRecordNotFound:
				// Unmatched names import with a null category.
			default:
				return fmt.Errorf("resolve category %q: %w", categoryName, err)
			}

			if err := tx.Create(&task).Error; err != nil {
				return fmt.Errorf("import task %q: %w", title, err)
			}
			res.Imported++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Total = res.Imported + res.Skipped
	return res, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timestampLayout)
}
