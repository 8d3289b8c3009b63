package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskmaster-dev/taskmaster/internal/models"
)

// DefaultUsername identifies the single seeded account every request runs as.
const DefaultUsername = "johndoe"

// ConnectDatabase opens the store. DSNs with a postgres scheme use the
// postgres driver; everything else is treated as a SQLite file path.
// Timestamps are written in UTC so SQLite's textual time comparisons stay
// consistent.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	if err := ensureSQLiteDir(dsn); err != nil {
		return nil, err
	}

	return gorm.Open(sqlite.Open(dsn), cfg)
}

// ensureSQLiteDir creates the parent directory for a SQLite file if needed.
func ensureSQLiteDir(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func MigrateDatabase(db *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.ActivityLog{},
	}

	migrator := db.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := db.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedDatabase creates the default user, its four categories and a handful
// of sample tasks. It is a no-op when the default user already exists.
func SeedDatabase(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", DefaultUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check default user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	user := models.User{
		Username:     DefaultUsername,
		Email:        "john@example.com",
		PasswordHash: string(passwordHash),
		FirstName:    "John",
		LastName:     "Doe",
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create default user: %w", err)
	}

	categories := []models.Category{
		{UserID: user.ID, Name: "personal", Color: "#7c3aed", Icon: "👤", SortOrder: 1},
		{UserID: user.ID, Name: "work", Color: "#ef4444", Icon: "💼", SortOrder: 2},
		{UserID: user.ID, Name: "study", Color: "#f59e0b", Icon: "📚", SortOrder: 3},
		{UserID: user.ID, Name: "shopping", Color: "#22c55e", Icon: "🛒", SortOrder: 4},
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("create default categories: %w", err)
	}

	byName := make(map[string]uint, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	tasks := []models.Task{
		{
			UserID:      user.ID,
			CategoryID:  categoryRef(byName, "work"),
			Title:       "Complete project documentation",
			Description: "Write comprehensive documentation for the TaskMaster project",
			Priority:    models.PriorityHigh,
			DueDate:     dateIn(7),
		},
		{
			UserID:      user.ID,
			CategoryID:  categoryRef(byName, "shopping"),
			Title:       "Buy groceries",
			Description: "Milk, bread, eggs, fruits, vegetables",
			Priority:    models.PriorityMedium,
			DueDate:     dateIn(1),
		},
		{
			UserID:      user.ID,
			CategoryID:  categoryRef(byName, "study"),
			Title:       "Study for exam",
			Description: "Review chapters 5-10 for final exam",
			Priority:    models.PriorityHigh,
			DueDate:     dateIn(3),
		},
		{
			UserID:      user.ID,
			CategoryID:  categoryRef(byName, "personal"),
			Title:       "Exercise routine",
			Description: "30 minutes cardio and strength training",
			Priority:    models.PriorityLow,
		},
		{
			UserID:      user.ID,
			CategoryID:  categoryRef(byName, "work"),
			Title:       "Team meeting preparation",
			Description: "Prepare slides and agenda for Monday meeting",
			Priority:    models.PriorityMedium,
			DueDate:     dateIn(2),
		},
	}
	if err := db.Create(&tasks).Error; err != nil {
		return fmt.Errorf("create sample tasks: %w", err)
	}

	return nil
}

func categoryRef(byName map[string]uint, name string) *uint {
	id, ok := byName[name]
	if !ok {
		return nil
	}
	return &id
}

func dateIn(days int) *datatypes.Date {
	t := time.Now().UTC().AddDate(0, 0, days)
	d := datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d
}
