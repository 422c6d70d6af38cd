package update

import (
	"strings"
	"time"

	"github.com/sandeepkv93/hikari/internal/views"
)

const notificationTTL = 30 * time.Second

func (m Model) renderSidebar() string {
	return views.RenderSidebar(m.sidebarData())
}

func (m Model) renderMain() string {
	out := views.RenderTaskList(m.taskListData())
	if m.Loading {
		out = m.loadSpinner.View() + " loading\n" + out
	}
	return out
}

func (m Model) renderDetail() string {
	parts := []string{}
	if m.Pane == PaneTasks {
		parts = append(parts, views.RenderTaskDetail(m.detailData()))
	}
	if help := m.renderHelpIfVisible(); help != "" {
		parts = append(parts, help)
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	n, ok := m.lastNotification()
	if !ok || m.elapsedSince(n.At) > notificationTTL {
		return ""
	}
	return views.RenderNotification(n.Level, n.Body)
}
