package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/tasks"
	"github.com/sandeepkv93/hikari/internal/views"
	"github.com/sandeepkv93/hikari/internal/workspace"
)

// currentEntries is the list shown for the current view, already in
// display order.
func (m Model) currentEntries() []model.TaskView {
	switch m.CurrentView {
	case ViewOverview:
		if m.UnassignedOnly {
			return tasks.Unassigned(m.snapshot.Overview)
		}
		return m.snapshot.Overview
	case ViewProject:
		list := m.snapshot.ByProject[m.ProjectID]
		out := make([]model.TaskView, 0, len(list))
		for _, t := range list {
			out = append(out, model.TaskView{Task: t})
		}
		return out
	default:
		return m.snapshot.Today
	}
}

func (m Model) selectedTask() (model.TaskView, bool) {
	entries := m.currentEntries()
	if m.TaskCursor < 0 || m.TaskCursor >= len(entries) {
		return model.TaskView{}, false
	}
	return entries[m.TaskCursor], true
}

func (m *Model) clampCursors() {
	if n := len(m.currentEntries()); m.TaskCursor >= n {
		m.TaskCursor = n - 1
	}
	if m.TaskCursor < 0 {
		m.TaskCursor = 0
	}
	if n := m.sidebarLen(); m.SidebarCursor >= n {
		m.SidebarCursor = n - 1
	}
}

func (m Model) handleTaskKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.TaskCursor > 0 {
			m.TaskCursor--
		}
		return m, nil
	case "down", "j":
		if m.TaskCursor < len(m.currentEntries())-1 {
			m.TaskCursor++
		}
		return m, nil
	case "f":
		if m.CurrentView == ViewOverview {
			m.UnassignedOnly = !m.UnassignedOnly
			m.TaskCursor = 0
			if m.UnassignedOnly {
				m.Status = StatusBar{Text: "showing unassigned tasks"}
			} else {
				m.Status = StatusBar{Text: "showing all tasks"}
			}
		}
		return m, nil
	}

	sel, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "enter", "a":
		return m.advance(sel.Task)
	case "t":
		return m.assign(sel.Task, m.today())
	case "u":
		return m.unassign(sel.Task)
	}
	return m, nil
}

// The helpers below show the edit in the cached lists right away and then
// issue the write; WriteDoneMsg brings back the stored row.

func (m Model) advance(t model.Task) (Model, tea.Cmd) {
	if m.ws != nil {
		m.ws.ApplyStatus(t.ID, t.Status.Next())
		m.snapshot = m.ws.Snapshot()
	}
	id := t.ID
	return m, m.writeCmd("advance", func(ctx context.Context, ws *workspace.Workspace) (model.Task, error) {
		return ws.Advance(ctx, id)
	})
}

func (m Model) setStatus(t model.Task, status model.Status) (Model, tea.Cmd) {
	if m.ws != nil {
		m.ws.ApplyStatus(t.ID, status)
		m.snapshot = m.ws.Snapshot()
	}
	id := t.ID
	return m, m.writeCmd("status", func(ctx context.Context, ws *workspace.Workspace) (model.Task, error) {
		return ws.SetStatus(ctx, id, status)
	})
}

func (m Model) assign(t model.Task, day model.Date) (Model, tea.Cmd) {
	if m.ws != nil {
		m.ws.ApplyAssignment(t.ID, &day)
		m.snapshot = m.ws.Snapshot()
	}
	id := t.ID
	return m, m.writeCmd("assign", func(ctx context.Context, ws *workspace.Workspace) (model.Task, error) {
		return ws.AssignToDate(ctx, id, day)
	})
}

func (m Model) unassign(t model.Task) (Model, tea.Cmd) {
	if m.ws != nil {
		m.ws.ApplyAssignment(t.ID, nil)
		m.snapshot = m.ws.Snapshot()
	}
	id := t.ID
	return m, m.writeCmd("unassign", func(ctx context.Context, ws *workspace.Workspace) (model.Task, error) {
		return ws.Unassign(ctx, id)
	})
}

func (m *Model) applyWrite(msg WriteDoneMsg) tea.Cmd {
	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: fmt.Sprintf("%s failed: %v", msg.Action, msg.Err), IsError: true}
		m.notify("Write failed", m.Status.Text, "error")
		m.log.Error("write failed", "action", msg.Action, "err", msg.Err)
		return m.reload()
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s (%s)", msg.Action, msg.Task.Title, msg.Task.Status.Label())}
	m.log.Debug("write applied", "action", msg.Action, "task_id", msg.Task.ID, "status", msg.Task.Status)
	if m.scheduler != nil && msg.Task.Status == model.StatusDone {
		m.scheduler.Cancel(msg.Task.ID)
	}
	if m.ws != nil {
		m.snapshot = m.ws.Snapshot()
	}
	return m.reload()
}

func (m Model) taskListData() views.TaskListData {
	now := m.now()
	data := views.TaskListData{Title: string(m.CurrentView)}
	switch m.CurrentView {
	case ViewToday:
		data.Subtitle = m.today().String()
		data.Empty = "nothing for today"
	case ViewOverview:
		if m.UnassignedOnly {
			data.Subtitle = "unassigned only"
			data.Empty = "every task is assigned"
		}
	case ViewProject:
		if m.Project != nil {
			data.Title = m.Project.Title
		}
		data.Empty = "no tasks in this project"
	}
	for i, v := range m.currentEntries() {
		data.Items = append(data.Items, taskItem(v, now, m.location(), i == m.TaskCursor && m.Pane == PaneTasks))
	}
	return data
}

func taskItem(v model.TaskView, now time.Time, loc *time.Location, selected bool) views.TaskItemData {
	item := views.TaskItemData{
		ID:       v.ID,
		Title:    v.Title,
		Status:   string(v.Status),
		Urgent:   v.Priority == model.PriorityUrgent,
		Overdue:  v.IsOverdue(now),
		Path:     breadcrumbPath(v.ProjectBreadcrumbs),
		Selected: selected,
	}
	if v.Deadline != nil {
		item.Due = views.FormatDue(*v.Deadline, now.In(loc))
	}
	if v.AssignedFor != nil {
		item.Assigned = v.AssignedFor.String()
	}
	return item
}

func breadcrumbPath(crumbs []model.Breadcrumb) string {
	titles := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		titles = append(titles, c.Title)
	}
	return views.FormatPath(titles)
}

func (m Model) detailData() views.TaskDetailData {
	sel, ok := m.selectedTask()
	if !ok {
		return views.TaskDetailData{}
	}
	now := m.now()
	data := views.TaskDetailData{
		Title:    sel.Title,
		Status:   sel.Status.Label(),
		Priority: string(sel.Priority),
		Overdue:  sel.IsOverdue(now),
		Path:     breadcrumbPath(sel.ProjectBreadcrumbs),
		Created:  sel.CreatedAt.In(m.location()).Format("2006-01-02 15:04"),
	}
	if sel.Deadline != nil {
		data.Due = views.FormatDue(*sel.Deadline, now.In(m.location())) + " " + sel.Deadline.In(m.location()).Format("15:04")
	}
	if sel.AssignedFor != nil {
		data.Assigned = sel.AssignedFor.String()
	}
	return data
}
