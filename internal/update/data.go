package update

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/storage"
	"github.com/sandeepkv93/hikari/internal/workspace"
)

var errNoWorkspace = errors.New("update: no workspace configured")

// loadCmd fetches the sidebar, today list and whatever the current view
// needs. Entries still fresh in the workspace are not re-queried.
func (m Model) loadCmd() tea.Cmd {
	ws, ctx, view, projectID := m.ws, m.ctx, m.CurrentView, m.ProjectID
	return func() tea.Msg {
		if ws == nil {
			return LoadedMsg{Err: errNoWorkspace}
		}
		return load(ctx, ws, view, projectID)
	}
}

func load(ctx context.Context, ws *workspace.Workspace, view View, projectID string) LoadedMsg {
	if _, err := ws.Projects(ctx); err != nil {
		return LoadedMsg{Err: err}
	}
	if _, err := ws.Today(ctx); err != nil {
		return LoadedMsg{Err: err}
	}
	var project *model.Project
	switch view {
	case ViewOverview:
		if _, err := ws.Overview(ctx); err != nil {
			return LoadedMsg{Err: err}
		}
	case ViewProject:
		p, err := ws.Project(ctx, projectID)
		if err != nil {
			return LoadedMsg{Snapshot: ws.Snapshot(), Err: err}
		}
		project = &p
		if _, err := ws.ProjectTasks(ctx, projectID); err != nil {
			return LoadedMsg{Err: err}
		}
	}
	return LoadedMsg{Snapshot: ws.Snapshot(), Project: project}
}

func (m Model) writeCmd(action string, fn func(context.Context, *workspace.Workspace) (model.Task, error)) tea.Cmd {
	ws, ctx := m.ws, m.ctx
	return func() tea.Msg {
		if ws == nil {
			return WriteDoneMsg{Action: action, Err: errNoWorkspace}
		}
		t, err := fn(ctx, ws)
		return WriteDoneMsg{Action: action, Task: t, Err: err}
	}
}

func (m Model) createProjectCmd(title, parentID string) tea.Cmd {
	ws, ctx := m.ws, m.ctx
	return func() tea.Msg {
		if ws == nil {
			return ProjectCreatedMsg{Err: errNoWorkspace}
		}
		if parentID == "" {
			p, err := ws.CreateProject(ctx, title)
			return ProjectCreatedMsg{Project: p, Err: err}
		}
		p, err := ws.CreateSubproject(ctx, title, parentID)
		return ProjectCreatedMsg{Project: p, Err: err}
	}
}

// applyLoaded stores a fetched snapshot. A project that vanished sends the
// user back to Today.
func (m *Model) applyLoaded(msg LoadedMsg) tea.Cmd {
	m.Loading = false
	if msg.Err != nil {
		if m.CurrentView == ViewProject && errors.Is(msg.Err, storage.ErrNotFound) {
			m.log.Warn("selected project missing", "project_id", m.ProjectID)
			m.snapshot = msg.Snapshot
			m.CurrentView = ViewToday
			m.ProjectID = ""
			m.Project = nil
			m.Status = StatusBar{Text: "project no longer exists", IsError: true}
			m.Loading = true
			return m.loadCmd()
		}
		m.LastError = msg.Err
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
		m.log.Error("load failed", "view", m.CurrentView, "err", msg.Err)
		return nil
	}
	m.snapshot = msg.Snapshot
	m.Project = msg.Project
	m.clampCursors()
	m.scheduleAlerts()
	return nil
}

func (m *Model) reload() tea.Cmd {
	m.Loading = true
	return tea.Batch(m.loadCmd(), m.loadSpinner.Tick)
}
