package model

import (
	"time"
)

// Priority is the Todoist priority ordinal (1 = normal, 4 = urgent)
type Priority int

const (
	PriorityNormal Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
	PriorityUrgent Priority = 4
)

// String returns the display label used by the Todoist apps (p1 is urgent)
func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "p1"
	case PriorityHigh:
		return "p2"
	case PriorityMedium:
		return "p3"
	default:
		return "p4"
	}
}

// Due is the due-date descriptor of a task
type Due struct {
	String      string `json:"string"`
	Date        string `json:"date,omitempty"`
	Datetime    string `json:"datetime,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
	Timezone    string `json:"timezone,omitempty"`
}

// Task represents an active Todoist task
type Task struct {
	ID           string     `json:"id"`
	Content      string     `json:"content"`
	Description  string     `json:"description"`
	ProjectID    string     `json:"project_id,omitempty"` // Empty means no project association
	SectionID    string     `json:"section_id,omitempty"`
	ParentID     string     `json:"parent_id,omitempty"`
	Priority     Priority   `json:"priority"`
	Due          *Due       `json:"due,omitempty"`
	Labels       []string   `json:"labels"`
	IsCompleted  bool       `json:"is_completed"`
	CommentCount int        `json:"comment_count"`
	Order        int        `json:"order"`
	URL          string     `json:"url,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// DueString returns the free-text due descriptor, or "" when the task has none
func (t *Task) DueString() string {
	if t.Due == nil {
		return ""
	}
	return t.Due.String
}

// IsOverdue returns true if the task has a due date in the past
func (t *Task) IsOverdue() bool {
	if t.Due == nil || t.Due.Date == "" || t.IsCompleted {
		return false
	}
	due, err := time.ParseInLocation("2006-01-02", t.Due.Date, time.Local)
	if err != nil {
		return false
	}
	today := time.Now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	return due.Before(today)
}

// TaskPatch holds the fields to change on a task. Nil fields keep the current value.
type TaskPatch struct {
	Content     *string   `json:"content,omitempty"`
	Description *string   `json:"description,omitempty"`
	ProjectID   *string   `json:"project_id,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	DueString   *string   `json:"due_string,omitempty"`
	Labels      *[]string `json:"labels,omitempty"`
}

// CreateTaskRequest is the full body used when creating a task
type CreateTaskRequest struct {
	Content     string   `json:"content" validate:"required"`
	Description string   `json:"description"`
	ProjectID   string   `json:"project_id,omitempty"`
	Priority    Priority `json:"priority,omitempty" validate:"omitempty,min=1,max=4"`
	DueString   string   `json:"due_string,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}
