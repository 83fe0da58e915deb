package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/ui/theme"
)

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	switch {
	case m.helpVisible:
		content = m.renderHelp(contentHeight)
	case m.mode == ModeMove:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderSidebar(contentHeight),
			m.renderMovePicker(contentHeight))
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderSidebar(contentHeight),
			m.renderTasks(contentHeight))
	}

	return strings.Join([]string{header, content, footer}, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("doist")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	destIndicator := viewStyle.Render(fmt.Sprintf("[%s]", destinationName(m.rows, m.dest)))

	var activity string
	if m.pending > 0 {
		activity = m.spinner.View() + " "
	}
	themeIndicator := viewStyle.Render(activity + fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, destIndicator)
	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(themeIndicator)
	if gap < 0 {
		gap = 0
	}
	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderSidebar renders Inbox, Favorites and Projects
func (m RootModel) renderSidebar(height int) string {
	styles := theme.Current.Styles

	var b strings.Builder
	for i, row := range m.rows {
		if row.kind == rowHeader {
			b.WriteString(styles.SidebarHeader.Render(row.label))
			b.WriteString("\n")
			continue
		}

		label := truncate(row.label, sidebarWidth-8)
		if row.kind == rowProject && row.project.IsFavorite {
			label += " " + styles.Favorite.Render("★")
		}

		prefix := "  "
		if row.destination() == m.dest {
			prefix = "▸ "
		}

		style := styles.SidebarItem
		switch {
		case i == m.sidebarCursor && m.focus == PaneSidebar:
			style = styles.SidebarSelected
		case row.destination() == m.dest:
			style = styles.SidebarActive
		}
		b.WriteString(style.Render(prefix + label))
		b.WriteString("\n")
	}

	panel := styles.Sidebar
	if m.focus == PaneSidebar {
		panel = styles.SidebarFocused
	}
	return panel.
		Width(sidebarWidth - 2).
		Height(height - 2).
		Render(strings.TrimRight(b.String(), "\n"))
}

// taskPanelWidth is the inner width of the task panel
func (m RootModel) taskPanelWidth() int {
	w := m.width - sidebarWidth - 4
	if w < 20 {
		w = 20
	}
	return w
}

// renderTasks renders the task list and, when toggled, the detail pane
func (m RootModel) renderTasks(height int) string {
	styles := theme.Current.Styles
	width := m.taskPanelWidth()

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(destinationName(m.rows, m.dest)))
	b.WriteString("\n\n")

	listHeight := height - 4
	var detail string
	if task, ok := m.selectedTask(); ok && m.showDetail {
		detail = m.renderDetail(task, width)
		listHeight -= lipgloss.Height(detail) + 1
	}

	if len(m.tasks) == 0 {
		b.WriteString(styles.Label.Render("No tasks. Press a to add one."))
	} else {
		start := 0
		if listHeight > 0 && m.cursor >= listHeight {
			start = m.cursor - listHeight + 1
		}
		end := len(m.tasks)
		if listHeight > 0 && end > start+listHeight {
			end = start + listHeight
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderTaskLine(m.tasks[i], i == m.cursor && m.focus == PaneTasks, width))
			b.WriteString("\n")
		}
	}

	if detail != "" {
		b.WriteString("\n")
		b.WriteString(detail)
	}

	panel := styles.Panel
	if m.focus == PaneTasks {
		panel = styles.PanelFocused
	}
	return panel.
		Width(width).
		Height(height - 2).
		Render(strings.TrimRight(b.String(), "\n"))
}

// renderTaskLine renders a single task row
func (m RootModel) renderTaskLine(task model.Task, selected bool, width int) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	prio := styles.Priority.Foreground(t.PriorityColor(task.Priority)).Render(task.Priority.String())
	line := prio + " " + truncate(task.Content, width-30)

	if due := task.DueString(); due != "" {
		line += "  " + styles.DueDate.Render(due)
	}
	for _, label := range task.Labels {
		line += " " + styles.Tag.Render("@"+label)
	}

	switch {
	case selected:
		return styles.TaskSelected.Render(line)
	case task.IsOverdue():
		return styles.TaskOverdue.Render(line)
	default:
		return styles.TaskNormal.Render(line)
	}
}

// renderDetail renders the selected task's description as markdown
func (m RootModel) renderDetail(task model.Task, width int) string {
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Subtitle.Render(task.Content))
	b.WriteString("\n")
	if task.URL != "" {
		b.WriteString(styles.Label.Render(task.URL))
		b.WriteString("\n")
	}
	if task.Description == "" {
		b.WriteString(styles.Label.Render("No description"))
		return b.String()
	}
	b.WriteString(renderMarkdown(task.Description, width))
	return b.String()
}

// renderMarkdown renders md for the terminal, falling back to the raw text
func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// renderMovePicker renders the destination picker for the task being moved
func (m RootModel) renderMovePicker(height int) string {
	styles := theme.Current.Styles

	var b strings.Builder
	title := "Move task"
	if m.moving != nil {
		title = fmt.Sprintf("Move %q to", truncate(m.moving.Content, 40))
	}
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n\n")

	for i, p := range m.targets {
		name := p.Name
		if p.IsFavorite {
			name += " " + styles.Favorite.Render("★")
		}
		if i == m.targetCursor {
			b.WriteString(styles.TaskSelected.Render("> " + name))
		} else {
			b.WriteString(styles.TaskNormal.Render("  " + name))
		}
		b.WriteString("\n")
	}

	return styles.Modal.
		Width(m.taskPanelWidth()).
		Height(height - 4).
		Render(strings.TrimRight(b.String(), "\n"))
}

// renderFooter renders the status line and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	// Helper to format key hints
	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	switch {
	case m.mode.IsInput():
		lines = append(lines,
			styles.Label.Render(m.mode.String()+": ")+m.input.View(),
			key("enter", "confirm")+sep+key("esc", "cancel"))
	case m.mode == ModeConfirmDelete && m.deleting != nil:
		lines = append(lines,
			lipgloss.NewStyle().Foreground(t.Warning).Render(fmt.Sprintf("Delete %q?", m.deleting.label)),
			key("y", "yes")+sep+key("n", "no"))
	case m.mode == ModeMove:
		lines = append(lines, key("j/k", "choose")+sep+key("enter", "move")+sep+key("esc", "cancel"))
	case m.focus == PaneSidebar:
		lines = append(lines,
			key("enter", "open")+sep+key("f", "favorite")+sep+key("r", "rename")+sep+
				key("d", "delete")+sep+key("N", "new project"),
			key("tab", "tasks")+sep+key("a", "add task")+sep+key("C-r", "refresh")+sep+key("?", "help"))
	default:
		lines = append(lines,
			key("a", "add")+sep+key("e", "edit")+sep+key("x", "done")+sep+
				key("d", "del")+sep+key("m", "move")+sep+key("p", "priority"),
			key("enter", "details")+sep+key("tab", "projects")+sep+key("C-r", "refresh")+sep+key("?", "help"))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp(height int) string {
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.Title.Render("doist help"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.Label.Render("Moving a task recreates it in the destination; its ID changes."))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("Press ? or esc to close"))

	return styles.Panel.
		Width(m.width - 4).
		Height(height - 2).
		Render(b.String())
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if n <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
