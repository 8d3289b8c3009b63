package repository

import (
	"strings"

	"gorm.io/gorm"
)

// SortOrder names the supported task list orderings.
type SortOrder string

const (
	SortNewest       SortOrder = "newest"
	SortOldest       SortOrder = "oldest"
	SortPriority     SortOrder = "priority"
	SortDueDate      SortOrder = "due_date"
	SortAlphabetical SortOrder = "alphabetical"
)

// ParseSortOrder maps a raw sort parameter to a SortOrder. Unknown values
// fall back to newest-first, matching the listing contract where invalid
// options are never rejected.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(raw) {
	case SortOldest, SortPriority, SortDueDate, SortAlphabetical:
		return SortOrder(raw)
	default:
		return SortNewest
	}
}

// TaskFilters carries the optional filter and sort settings for task listings.
// A nil field means "no filter"; the HTTP layer is responsible for mapping
// the wire-level "all" sentinel to nil.
type TaskFilters struct {
	Status   *string
	Category *string
	Priority *string
	Search   *string
	SortBy   SortOrder
	Limit    *int
	Offset   *int
}

// apply composes the filter predicates and ordering onto a task query that
// is already scoped to one user and to non-deleted rows.
func (f TaskFilters) apply(q *gorm.DB) *gorm.DB {
	if f.Status != nil {
		if *f.Status == "completed" {
			q = q.Where("tasks.status = ?", "completed")
		} else {
			q = q.Where("tasks.status <> ?", "completed")
		}
	}

	if f.Category != nil {
		q = q.Where("categories.name = ?", *f.Category)
	}

	if f.Priority != nil {
		q = q.Where("tasks.priority = ?", *f.Priority)
	}

	if f.Search != nil {
		pattern := "%" + strings.ToLower(*f.Search) + "%"
		q = q.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}

	switch f.SortBy {
	case SortOldest:
		q = q.Order("tasks.created_at ASC")
	case SortPriority:
		// high < medium < low is a domain order, not a lexical one.
		q = q.Order("CASE tasks.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 END").
			Order("tasks.created_at DESC")
	case SortDueDate:
		// Tasks without a due date sort last.
		q = q.Order("tasks.due_date IS NULL").
			Order("tasks.due_date ASC").
			Order("tasks.created_at DESC")
	case SortAlphabetical:
		q = q.Order("tasks.title ASC")
	default:
		q = q.Order("tasks.created_at DESC")
	}

	if f.Limit != nil && *f.Limit >= 0 {
		q = q.Limit(*f.Limit)
		if f.Offset != nil && *f.Offset > 0 {
			q = q.Offset(*f.Offset)
		}
	}

	return q
}
