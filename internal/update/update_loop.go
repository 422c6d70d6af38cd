package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/hikari/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd()}
	if m.scheduler != nil {
		cmds = append(cmds, waitForAlertCmd(m.scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		case m.Keys.Palette:
			return m.openPalette(), nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case m.Keys.Today:
			return m.switchView(ViewToday, "")
		case m.Keys.Overview:
			return m.switchView(ViewOverview, "")
		case m.Keys.Switch:
			if m.Pane == PaneSidebar {
				m.Pane = PaneTasks
			} else {
				m.Pane = PaneSidebar
			}
			return m, nil
		case m.Keys.Refresh:
			if m.ws != nil {
				m.ws.Invalidate()
			}
			m.Status = StatusBar{Text: "refreshing"}
			return m, m.reload()
		}

		if m.Pane == PaneSidebar {
			return m.handleSidebarKey(typed)
		}
		return m.handleTaskKey(typed)
	case spinner.TickMsg:
		if m.Loading {
			var cmd tea.Cmd
			m.loadSpinner, cmd = m.loadSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case LoadedMsg:
		cmd := m.applyLoaded(typed)
		return m, cmd
	case WriteDoneMsg:
		cmd := m.applyWrite(typed)
		return m, cmd
	case ProjectCreatedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("project added: %s", typed.Project.Title)}
		m.log.Debug("project created", "project_id", typed.Project.ID)
		return m, m.reload()
	case SwitchViewMsg:
		switch typed.View {
		case ViewToday, ViewOverview, ViewProject:
			return m.switchView(typed.View, typed.ProjectID)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case AlertMsg:
		m.applyAlert(typed.Event)
		if m.scheduler != nil {
			return m, waitForAlertCmd(m.scheduler.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}
	if m.Palette.Active {
		status = m.renderCommandPalette()
	}

	header := fmt.Sprintf("hikari | %s | %s", m.CurrentView, m.today())
	if m.CurrentView == ViewProject && m.Project != nil {
		header = fmt.Sprintf("hikari | %s | %s", m.Project.Title, m.today())
	}

	notification := strings.TrimSpace(m.renderNotificationsView())
	if len(m.AlertLog) > 0 && notification == "" {
		last := m.AlertLog[len(m.AlertLog)-1]
		notification = fmt.Sprintf("last alert: %s @ %s", last.Title, last.Deadline.In(m.location()).Format("15:04"))
	}

	return views.RenderApp(views.AppData{
		Header:       header,
		Sidebar:      m.renderSidebar(),
		Main:         m.renderMain(),
		Detail:       m.renderDetail(),
		StatusLine:   status,
		StatusError:  m.Status.IsError && !m.Palette.Active,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s today | %s overview | %s pane | %s cmd | %s help | %s quit",
			m.Keys.Today, m.Keys.Overview, m.Keys.Switch, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}
