package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/hikari/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.paneBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := toKeyBindings(m.globalBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Today, Action: "today"},
		{Key: m.Keys.Overview, Action: "overview"},
		{Key: m.Keys.Switch, Action: "switch pane"},
		{Key: m.Keys.Palette, Action: "command"},
		{Key: m.Keys.Refresh, Action: "refresh"},
		{Key: m.Keys.Help, Action: "help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) paneBindings() []KeyBinding {
	if m.Pane == PaneSidebar {
		return []KeyBinding{
			{Key: "j/k", Action: "move"},
			{Key: "enter", Action: "open view or project"},
			{Key: "space", Action: "expand/collapse project"},
			{Key: "h/l", Action: "collapse / expand"},
		}
	}
	out := []KeyBinding{
		{Key: "j/k", Action: "move"},
		{Key: "enter/a", Action: "advance status"},
		{Key: "t", Action: "assign to today"},
		{Key: "u", Action: "unassign"},
	}
	if m.CurrentView == ViewOverview {
		out = append(out, KeyBinding{Key: "f", Action: "toggle unassigned only"})
	}
	return out
}

func toKeyBindings(in []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(in))
	for _, kb := range in {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
