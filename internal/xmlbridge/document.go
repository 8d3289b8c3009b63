package xmlbridge

import "encoding/xml"

// FormatVersion is stamped into every export and accepted on import.
const FormatVersion = "2.0"

// Document is the full <taskmaster> export shape. The same structs carry
// json tags so a parsed document can be handed straight to the UI.
type Document struct {
	XMLName    xml.Name     `xml:"taskmaster" json:"-"`
	Metadata   Metadata     `xml:"metadata" json:"metadata"`
	Tasks      TaskList     `xml:"tasks" json:"tasks"`
	Categories CategoryList `xml:"categories" json:"categories"`
}

type Metadata struct {
	ExportedAt string `xml:"exported_at" json:"exported_at"`
	Version    string `xml:"version" json:"version"`
	TotalTasks int    `xml:"total_tasks" json:"total_tasks"`
	UserID     uint   `xml:"user_id" json:"user_id"`
}

// TaskList wraps the task elements so an empty export still serializes a
// <tasks> block instead of dropping it.
type TaskList struct {
	Tasks []TaskElement `xml:"task" json:"tasks"`
}

// TaskElement is one <task>. Optional values are empty strings, which
// serialize as empty elements rather than being omitted.
type TaskElement struct {
	ID          uint   `xml:"id,attr" json:"id"`
	Title       string `xml:"title" json:"title"`
	Description string `xml:"description" json:"description"`
	Category    string `xml:"category" json:"category"`
	Priority    string `xml:"priority" json:"priority"`
	Status      string `xml:"status" json:"status"`
	DueDate     string `xml:"due_date" json:"due_date"`
	CreatedAt   string `xml:"created_at" json:"created_at"`
	CompletedAt string `xml:"completed_at" json:"completed_at"`
}

type CategoryList struct {
	Categories []CategoryElement `xml:"category" json:"categories"`
}

type CategoryElement struct {
	Name  string `xml:"name" json:"name"`
	Color string `xml:"color" json:"color"`
	Icon  string `xml:"icon" json:"icon"`
}

// ParseError reports XML that failed to parse. It is returned before any
// transaction begins, so a parse failure never has side effects.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "invalid XML: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result summarizes an import.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}
