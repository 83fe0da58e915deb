package model

import (
	"testing"
	"time"
)

func TestIsInbox(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		want    bool
	}{
		{"flagged", Project{Name: "Personal", IsInboxProject: true}, true},
		{"by name", Project{Name: "Inbox"}, true},
		{"by name any case", Project{Name: "INBOX"}, true},
		{"regular", Project{Name: "Work"}, false},
		{"contains inbox", Project{Name: "Inbox zero"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.project.IsInbox(); got != tt.want {
				t.Errorf("IsInbox() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindInbox(t *testing.T) {
	projects := []Project{{ID: "1", Name: "Work"}, {ID: "2", Name: "Inbox", IsInboxProject: true}}
	if got := FindInbox(projects); got == nil || got.ID != "2" {
		t.Errorf("FindInbox = %+v, want project 2", got)
	}
	if got := FindInbox(projects[:1]); got != nil {
		t.Errorf("FindInbox without inbox = %+v, want nil", got)
	}
}

func TestPriorityString(t *testing.T) {
	tests := map[Priority]string{
		PriorityUrgent: "p1",
		PriorityHigh:   "p2",
		PriorityMedium: "p3",
		PriorityNormal: "p4",
		Priority(0):    "p4",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Priority(%d).String() = %q, want %q", p, got, want)
		}
	}
}

func TestDueString(t *testing.T) {
	task := Task{}
	if got := task.DueString(); got != "" {
		t.Errorf("no due = %q", got)
	}
	task.Due = &Due{String: "every monday", IsRecurring: true}
	if got := task.DueString(); got != "every monday" {
		t.Errorf("DueString = %q", got)
	}
}

func TestIsOverdue(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no due", Task{}, false},
		{"past", Task{Due: &Due{Date: yesterday}}, true},
		{"future", Task{Due: &Due{Date: tomorrow}}, false},
		{"completed", Task{Due: &Due{Date: yesterday}, IsCompleted: true}, false},
		{"unparseable", Task{Due: &Due{Date: "soon"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
