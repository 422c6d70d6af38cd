package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/views"
)

// The first two sidebar entries are the Today and Overview views; project
// rows follow.
const sidebarFixed = 2

type sidebarRow struct {
	node  *model.ProjectNode
	depth int
}

// visibleProjects flattens the tree, descending only into expanded nodes.
func (m Model) visibleProjects() []sidebarRow {
	out := make([]sidebarRow, 0)
	for _, root := range m.snapshot.Projects {
		root.Walk(0, func(n *model.ProjectNode, depth int) bool {
			out = append(out, sidebarRow{node: n, depth: depth})
			return m.Expanded[n.ID]
		})
	}
	return out
}

func (m Model) sidebarLen() int {
	return sidebarFixed + len(m.visibleProjects())
}

// highlightedProject is the project row under the sidebar cursor, if any.
func (m Model) highlightedProject() (*model.ProjectNode, bool) {
	rows := m.visibleProjects()
	i := m.SidebarCursor - sidebarFixed
	if i < 0 || i >= len(rows) {
		return nil, false
	}
	return rows[i].node, true
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.SidebarCursor > 0 {
			m.SidebarCursor--
		}
	case "down", "j":
		if m.SidebarCursor < m.sidebarLen()-1 {
			m.SidebarCursor++
		}
	case " ", "space":
		if n, ok := m.highlightedProject(); ok && len(n.Subprojects) > 0 {
			m.Expanded[n.ID] = !m.Expanded[n.ID]
		}
	case "right", "l":
		if n, ok := m.highlightedProject(); ok && len(n.Subprojects) > 0 {
			m.Expanded[n.ID] = true
		}
	case "left", "h":
		if n, ok := m.highlightedProject(); ok {
			delete(m.Expanded, n.ID)
		}
	case "enter":
		switch m.SidebarCursor {
		case 0:
			return m.switchView(ViewToday, "")
		case 1:
			return m.switchView(ViewOverview, "")
		}
		if n, ok := m.highlightedProject(); ok {
			return m.switchView(ViewProject, n.ID)
		}
	}
	return m, nil
}

func (m Model) switchView(v View, projectID string) (Model, tea.Cmd) {
	if v == ViewProject && projectID == "" {
		return m, nil
	}
	m.CurrentView = v
	m.ProjectID = projectID
	if v != ViewProject {
		m.Project = nil
	}
	m.TaskCursor = 0
	m.syncSidebarCursor()
	return m, m.reload()
}

// syncSidebarCursor moves the sidebar cursor onto the entry for the current
// view when it is visible.
func (m *Model) syncSidebarCursor() {
	switch m.CurrentView {
	case ViewToday:
		m.SidebarCursor = 0
	case ViewOverview:
		m.SidebarCursor = 1
	case ViewProject:
		for i, row := range m.visibleProjects() {
			if row.node.ID == m.ProjectID {
				m.SidebarCursor = sidebarFixed + i
				return
			}
		}
	}
}

func (m Model) sidebarData() views.SidebarData {
	data := views.SidebarData{
		TodaySelected:    m.SidebarCursor == 0,
		OverviewSelected: m.SidebarCursor == 1,
		TodayCount:       len(m.snapshot.Today),
	}
	for i, row := range m.visibleProjects() {
		data.Rows = append(data.Rows, views.SidebarRow{
			ID:          row.node.ID,
			Title:       row.node.Title,
			Depth:       row.depth,
			HasChildren: len(row.node.Subprojects) > 0,
			Expanded:    m.Expanded[row.node.ID],
			Selected:    m.SidebarCursor == sidebarFixed+i,
		})
	}
	return data
}
