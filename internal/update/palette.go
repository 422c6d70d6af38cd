package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/hikari/internal/commands"
	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/workspace"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

// paletteProject is the project new tasks and subprojects go into: the open
// project, else the one highlighted in the sidebar.
func (m Model) paletteProject() (string, bool) {
	if m.CurrentView == ViewProject && m.ProjectID != "" {
		return m.ProjectID, true
	}
	if n, ok := m.highlightedProject(); ok {
		return n.ID, true
	}
	return "", false
}

func noProject() error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "open or highlight a project first"}
}

func noSelection() error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var pending tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			projectID, ok := m.paletteProject()
			if !ok {
				return commands.Result{}, noProject()
			}
			in := model.NewTask{Title: a.Title, ProjectID: projectID, Priority: a.Priority}
			if a.Due != "" {
				deadline, err := commands.ParseDeadline(a.Due, m.today(), m.location())
				if err != nil {
					return commands.Result{}, err
				}
				in.Deadline = &deadline
			}
			if a.On != "" {
				day, err := commands.ResolveDate(a.On, m.today())
				if err != nil {
					return commands.Result{}, err
				}
				in.AssignedFor = &day
			}
			pending = m.writeCmd("add", func(ctx context.Context, ws *workspace.Workspace) (model.Task, error) {
				return ws.CreateTask(ctx, in)
			})
			return commands.Result{Message: fmt.Sprintf("adding task: %s", a.Title)}, nil
		},
		Project: func(p commands.ProjectArgs) (commands.Result, error) {
			pending = m.createProjectCmd(p.Title, "")
			return commands.Result{Message: fmt.Sprintf("adding project: %s", p.Title)}, nil
		},
		Sub: func(p commands.ProjectArgs) (commands.Result, error) {
			parentID, ok := m.paletteProject()
			if !ok {
				return commands.Result{}, noProject()
			}
			m.Expanded[parentID] = true
			pending = m.createProjectCmd(p.Title, parentID)
			return commands.Result{Message: fmt.Sprintf("adding subproject: %s", p.Title)}, nil
		},
		Assign: func(a commands.AssignArgs) (commands.Result, error) {
			sel, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, noSelection()
			}
			day, err := commands.ResolveDate(a.When, m.today())
			if err != nil {
				return commands.Result{}, err
			}
			m, pending = m.assign(sel.Task, day)
			return commands.Result{Message: fmt.Sprintf("assigning %s to %s", sel.Title, day)}, nil
		},
		Unassign: func() (commands.Result, error) {
			sel, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, noSelection()
			}
			m, pending = m.unassign(sel.Task)
			return commands.Result{Message: fmt.Sprintf("unassigning %s", sel.Title)}, nil
		},
		Advance: func() (commands.Result, error) {
			sel, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, noSelection()
			}
			m, pending = m.advance(sel.Task)
			return commands.Result{Message: fmt.Sprintf("advancing %s", sel.Title)}, nil
		},
		Status: func(s commands.StatusArgs) (commands.Result, error) {
			sel, ok := m.selectedTask()
			if !ok {
				return commands.Result{}, noSelection()
			}
			m, pending = m.setStatus(sel.Task, s.Status)
			return commands.Result{Message: fmt.Sprintf("marking %s %s", sel.Title, s.Status.Label())}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			switch s.View {
			case "today":
				m, pending = m.switchView(ViewToday, "")
			case "overview", "all":
				m.UnassignedOnly = false
				m, pending = m.switchView(ViewOverview, "")
			case "unassigned":
				m.UnassignedOnly = true
				m, pending = m.switchView(ViewOverview, "")
			default:
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view %q", s.View)}
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", s.View)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	m.log.Debug("palette command", "command", cmd.Type)
	return m, pending
}
