package ui

import (
	"github.com/dori/doist/internal/model"
)

type rowKind int

const (
	rowInbox rowKind = iota
	rowHeader
	rowProject
)

// sidebarRow is one line of the sidebar: the inbox entry, a section header
// or a project
type sidebarRow struct {
	kind     rowKind
	label    string
	project  model.Project
	favorite bool
}

func (r sidebarRow) selectable() bool {
	return r.kind != rowHeader
}

// destination is the ListTasks key for the row
func (r sidebarRow) destination() string {
	if r.kind == rowInbox {
		return model.InboxDestination
	}
	return r.project.ID
}

// buildSidebar lays out Inbox, then Favorites (when there are any), then
// every other project. The inbox project never appears under Projects.
func buildSidebar(projects, favs []model.Project) []sidebarRow {
	rows := []sidebarRow{{kind: rowInbox, label: "Inbox"}}
	if inbox := model.FindInbox(projects); inbox != nil {
		rows[0].project = *inbox
	}

	if len(favs) > 0 {
		rows = append(rows, sidebarRow{kind: rowHeader, label: "Favorites"})
		for _, p := range favs {
			if p.IsInbox() {
				continue
			}
			rows = append(rows, sidebarRow{kind: rowProject, label: p.Name, project: p, favorite: true})
		}
	}

	rows = append(rows, sidebarRow{kind: rowHeader, label: "Projects"})
	for _, p := range projects {
		if p.IsInbox() {
			continue
		}
		rows = append(rows, sidebarRow{kind: rowProject, label: p.Name, project: p})
	}
	return rows
}

// stepCursor moves from cursor by dir (+1/-1), skipping headers. The cursor
// stays put when there is nothing selectable in that direction.
func stepCursor(rows []sidebarRow, cursor, dir int) int {
	for i := cursor + dir; i >= 0 && i < len(rows); i += dir {
		if rows[i].selectable() {
			return i
		}
	}
	return cursor
}

// findRow returns the index of the first selectable row whose destination
// is dest, or 0 (the inbox)
func findRow(rows []sidebarRow, dest string) int {
	for i, r := range rows {
		if r.selectable() && r.destination() == dest {
			return i
		}
	}
	return 0
}

// destinationName returns the display name for a destination
func destinationName(rows []sidebarRow, dest string) string {
	if dest == model.InboxDestination {
		return "Inbox"
	}
	for _, r := range rows {
		if r.kind == rowProject && r.project.ID == dest {
			return r.project.Name
		}
	}
	return dest
}
