package xmlbridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskmaster-dev/taskmaster/internal/models"
	"github.com/taskmaster-dev/taskmaster/internal/repository"
)

func newTestBridge(t *testing.T, suffix string) (*Bridge, *gorm.DB, uint) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), suffix)
	store, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = store.AutoMigrate(&models.User{}, &models.Category{}, &models.Task{}, &models.ActivityLog{})
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	user := models.User{Username: "johndoe", Email: "john@example.com", PasswordHash: "x"}
	if err := store.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	categories := []models.Category{
		{UserID: user.ID, Name: "personal", Color: "#7c3aed", Icon: "👤", SortOrder: 1},
		{UserID: user.ID, Name: "work", Color: "#ef4444", Icon: "💼", SortOrder: 2},
		{UserID: user.ID, Name: "study", Color: "#f59e0b", Icon: "📚", SortOrder: 3},
		{UserID: user.ID, Name: "shopping", Color: "#22c55e", Icon: "🛒", SortOrder: 4},
	}
	if err := store.Create(&categories).Error; err != nil {
		t.Fatalf("seed categories: %v", err)
	}

	bridge := New(store, repository.NewTaskRepository(store), repository.NewCategoryRepository(store))
	return bridge, store, user.ID
}

func countTasks(t *testing.T, store *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	if err := store.Model(&models.Task{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	return n
}

func TestExportShape(t *testing.T) {
	bridge, _, userID := newTestBridge(t, "")
	ctx := context.Background()

	due, _ := time.Parse("2006-01-02", "2099-01-01")
	if _, err := bridge.tasks.Create(ctx, userID, repository.CreateTaskInput{
		Title:    "Buy milk",
		Category: "shopping",
		Priority: models.PriorityLow,
		DueDate:  &due,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := bridge.tasks.Create(ctx, userID, repository.CreateTaskInput{Title: "No extras"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := bridge.Export(ctx, userID)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		"<taskmaster>",
		"<version>2.0</version>",
		"<total_tasks>2</total_tasks>",
		"<title>Buy milk</title>",
		"<category>shopping</category>",
		"<due_date>2099-01-01</due_date>",
		"<name>personal</name>",
		"<color>#22c55e</color>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q\n%s", want, out)
		}
	}

	// A task with no due date still serializes the element, empty.
	if !strings.Contains(out, "<due_date></due_date>") {
		t.Errorf("export missing empty due_date element\n%s", out)
	}
	if !strings.Contains(out, "<completed_at></completed_at>") {
		t.Errorf("export missing empty completed_at element\n%s", out)
	}
}

func TestExportEmptyStore(t *testing.T) {
	bridge, _, userID := newTestBridge(t, "")

	doc, err := bridge.BuildDocument(context.Background(), userID)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}
	if doc.Metadata.TotalTasks != 0 {
		t.Errorf("total_tasks: got %d, want 0", doc.Metadata.TotalTasks)
	}
	if doc.Metadata.Version != FormatVersion {
		t.Errorf("version: got %q, want %q", doc.Metadata.Version, FormatVersion)
	}
	if len(doc.Tasks.Tasks) != 0 {
		t.Errorf("tasks: got %d, want 0", len(doc.Tasks.Tasks))
	}
	if len(doc.Categories.Categories) != 4 {
		t.Errorf("categories: got %d, want 4", len(doc.Categories.Categories))
	}

	data, err := bridge.Export(context.Background(), userID)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(data), "<tasks>") {
		t.Errorf("empty export missing <tasks> block\n%s", data)
	}
}

func TestImportCountsAndDefaults(t *testing.T) {
	bridge, store, userID := newTestBridge(t, "")
	ctx := context.Background()

	input := `<?xml version="1.0" encoding="UTF-8"?>
<taskmaster>
  <metadata>
    <version>2.0</version>
  </metadata>
  <tasks>
    <task id="1">
      <title>Imported chore</title>
      <description>From a backup</description>
      <category>work</category>
      <priority>high</priority>
      <status>completed</status>
      <due_date>2099-05-01</due_date>
    </task>
    <task id="2">
      <title>   </title>
      <description>No title, skipped</description>
    </task>
    <task id="3">
      <title>Bare minimum</title>
    </task>
  </tasks>
</taskmaster>`

	res, err := bridge.Import(ctx, userID, []byte(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 || res.Total != 3 {
		t.Errorf("result: got imported=%d skipped=%d total=%d, want 2/1/3", res.Imported, res.Skipped, res.Total)
	}

	var chore models.Task
	if err := store.Where("user_id = ? AND title = ?", userID, "Imported chore").Take(&chore).Error; err != nil {
		t.Fatalf("fetch imported task: %v", err)
	}
	if chore.Priority != models.PriorityHigh || chore.Status != models.StatusCompleted {
		t.Errorf("fields: got priority=%q status=%q", chore.Priority, chore.Status)
	}
	if chore.CategoryID == nil {
		t.Error("category_id: got nil, want work category")
	}
	if chore.DueDate == nil {
		t.Error("due_date: got nil")
	}

	var bare models.Task
	if err := store.Where("user_id = ? AND title = ?", userID, "Bare minimum").Take(&bare).Error; err != nil {
		t.Fatalf("fetch bare task: %v", err)
	}
	if bare.Priority != models.PriorityMedium || bare.Status != models.StatusPending {
		t.Errorf("defaults: got priority=%q status=%q, want medium/pending", bare.Priority, bare.Status)
	}
	// No category element resolves to the personal default.
	if bare.CategoryID == nil {
		t.Error("category_id: got nil, want personal category")
	}
}

func TestImportUnknownCategoryStoresNull(t *testing.T) {
	bridge, store, userID := newTestBridge(t, "")

	input := `<taskmaster><tasks><task><title>Odd one</title><category>errands</category></task></tasks></taskmaster>`
	res, err := bridge.Import(context.Background(), userID, []byte(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("imported: got %d, want 1", res.Imported)
	}

	var task models.Task
	if err := store.Where("user_id = ? AND title = ?", userID, "Odd one").Take(&task).Error; err != nil {
		t.Fatalf("fetch task: %v", err)
	}
	if task.CategoryID != nil {
		t.Errorf("category_id: got %v, want nil", *task.CategoryID)
	}
}

func TestImportMalformedXML(t *testing.T) {
	bridge, store, userID := newTestBridge(t, "")

	_, err := bridge.Import(context.Background(), userID, []byte("<taskmaster><tasks>"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("got %v, want ParseError", err)
	}
	if n := countTasks(t, store, userID); n != 0 {
		t.Errorf("tasks after failed parse: got %d, want 0", n)
	}
}

func TestImportInvalidDueDateRollsBack(t *testing.T) {
	bridge, store, userID := newTestBridge(t, "")

	input := `<taskmaster><tasks>
  <task><title>Good task</title></task>
  <task><title>Bad date</title><due_date>2024-02-30</due_date></task>
</tasks></taskmaster>`

	_, err := bridge.Import(context.Background(), userID, []byte(input))
	if err == nil {
		t.Fatal("Import succeeded with invalid due date")
	}
	if n := countTasks(t, store, userID); n != 0 {
		t.Errorf("tasks after rollback: got %d, want 0", n)
	}
}

func TestRoundTrip(t *testing.T) {
	source, _, sourceUser := newTestBridge(t, "_source")
	target, targetStore, targetUser := newTestBridge(t, "_target")
	ctx := context.Background()

	due, _ := time.Parse("2006-01-02", "2099-07-01")
	seed := []repository.CreateTaskInput{
		{Title: "Pack boxes", Category: "personal", Priority: models.PriorityHigh, DueDate: &due},
		{Title: "Send invoices", Category: "work", Description: "Q3 batch"},
	}
	for _, input := range seed {
		if _, err := source.tasks.Create(ctx, sourceUser, input); err != nil {
			t.Fatalf("seed source: %v", err)
		}
	}

	data, err := source.Export(ctx, sourceUser)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	res, err := target.Import(ctx, targetUser, data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 0 {
		t.Fatalf("result: got imported=%d skipped=%d, want 2/0", res.Imported, res.Skipped)
	}

	var imported []models.Task
	err = targetStore.Where("user_id = ?", targetUser).Order("title").Find(&imported).Error
	if err != nil {
		t.Fatalf("fetch imported: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("got %d tasks, want 2", len(imported))
	}
	if imported[0].Title != "Pack boxes" || imported[0].Priority != models.PriorityHigh {
		t.Errorf("first: got %q/%q", imported[0].Title, imported[0].Priority)
	}
	if imported[0].DueDate == nil {
		t.Error("first due_date: got nil")
	}
	if imported[1].Description != "Q3 batch" {
		t.Errorf("second description: got %q", imported[1].Description)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	bridge, store, userID := newTestBridge(t, "")
	ctx := context.Background()

	if _, err := bridge.tasks.Create(ctx, userID, repository.CreateTaskInput{Title: "On disk"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	path := filepath.Join(t.TempDir(), "exports", "tasks.xml")
	if err := bridge.SaveToFile(ctx, userID, path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}

	res, err := bridge.LoadFromFile(ctx, userID, path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if res.Imported != 1 {
		t.Errorf("imported: got %d, want 1", res.Imported)
	}
	if n := countTasks(t, store, userID); n != 2 {
		t.Errorf("tasks after load: got %d, want 2", n)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	bridge, _, userID := newTestBridge(t, "")

	_, err := bridge.LoadFromFile(context.Background(), userID, filepath.Join(t.TempDir(), "missing.xml"))
	if !os.IsNotExist(err) {
		t.Errorf("got %v, want file-not-found", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.xml")
	content := `<taskmaster><metadata><version>2.0</version><total_tasks>1</total_tasks></metadata>` +
		`<tasks><task id="7"><title>Parsed only</title></task></tasks></taskmaster>`
	if err := os.WriteFile(good, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := ParseFile(good)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if doc.Metadata.Version != "2.0" || len(doc.Tasks.Tasks) != 1 {
		t.Errorf("doc: version=%q tasks=%d", doc.Metadata.Version, len(doc.Tasks.Tasks))
	}
	if doc.Tasks.Tasks[0].ID != 7 || doc.Tasks.Tasks[0].Title != "Parsed only" {
		t.Errorf("task: got id=%d title=%q", doc.Tasks.Tasks[0].ID, doc.Tasks.Tasks[0].Title)
	}

	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte("<taskmaster"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	var parseErr *ParseError
	if _, err := ParseFile(bad); !errors.As(err, &parseErr) {
		t.Errorf("got %v, want ParseError", err)
	}
}
