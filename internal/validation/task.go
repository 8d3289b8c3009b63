package validation

import (
	"strings"
	"time"
)

const (
	titleMinLength       = 2
	titleMaxLength       = 100
	descriptionMaxLength = 500
	dueDateLayout        = "2006-01-02"
)

var validPriorities = []string{"low", "medium", "high"}

var validCategories = []string{"personal", "work", "study", "shopping"}

// CheckTitle enforces the required 2-100 character rule. Partial updates
// skip the call entirely when no title is supplied.
func (v *Validator) CheckTitle(title string) {
	trimmed := strings.TrimSpace(title)
	v.Check(trimmed != "", "title", "must be provided")
	v.Check(len(trimmed) >= titleMinLength, "title", "must be at least 2 characters long")
	v.Check(len(trimmed) <= titleMaxLength, "title", "must be at most 100 characters long")
}

func (v *Validator) CheckDescription(description string) {
	v.Check(len(description) <= descriptionMaxLength, "description", "must be at most 500 characters long")
}

func (v *Validator) CheckPriority(priority string) {
	v.Check(contains(validPriorities, priority), "priority", "must be one of low, medium, high")
}

func (v *Validator) CheckCategory(category string) {
	v.Check(contains(validCategories, category), "category", "must be one of personal, work, study, shopping")
}

// CheckDueDate requires a strict YYYY-MM-DD calendar date. The round-trip
// comparison rejects inputs like "2024-2-3" that parse but do not match.
func (v *Validator) CheckDueDate(dueDate string) {
	_, ok := ParseDueDate(dueDate)
	v.Check(ok, "due_date", "must be a valid date in YYYY-MM-DD format")
}

// ParseDueDate parses a due date under the same strict rules CheckDueDate
// applies, returning the date at UTC midnight.
func ParseDueDate(dueDate string) (time.Time, bool) {
	t, err := time.Parse(dueDateLayout, dueDate)
	if err != nil || t.Format(dueDateLayout) != dueDate {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
