package model

import (
	"strings"
)

// InboxDestination is the relocation target that means "no project association"
const InboxDestination = "inbox"

// Project represents a Todoist project
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	Order          int    `json:"order"`
	IsShared       bool   `json:"is_shared"`
	IsInboxProject bool   `json:"is_inbox_project"`
	URL            string `json:"url,omitempty"`

	// Display state after favorites reconciliation (not trusted from the remote)
	IsFavorite bool `json:"is_favorite"`
}

// IsInbox returns true if this is the default inbox project, either by the
// remote flag or by name
func (p *Project) IsInbox() bool {
	return p.IsInboxProject || strings.EqualFold(p.Name, "inbox")
}

// ProjectPatch holds the fields to change on a project. Nil fields are left as-is.
type ProjectPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// FindInbox returns the project the remote marks as inbox, if any
func FindInbox(projects []Project) *Project {
	for i := range projects {
		if projects[i].IsInbox() {
			return &projects[i]
		}
	}
	return nil
}
