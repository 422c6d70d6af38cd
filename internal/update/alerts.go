package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/scheduler"
	"github.com/sandeepkv93/hikari/internal/views"
)

const alertLogLimit = 20

func waitForAlertCmd(ch <-chan scheduler.DeadlineEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return AlertMsg{Event: ev}
	}
}

// scheduleAlerts hands today's deadlines to the engine.
func (m *Model) scheduleAlerts() {
	if m.scheduler == nil {
		return
	}
	list := make([]model.Task, 0, len(m.snapshot.Today))
	for _, v := range m.snapshot.Today {
		list = append(list, v.Task)
	}
	events := scheduler.DeadlineEvents(list, m.now(), m.alertLead)
	if err := m.scheduler.Replace(events); err != nil {
		m.log.Warn("schedule deadline alerts", "err", err)
		return
	}
	m.log.Debug("scheduled deadline alerts", "count", len(events))
}

func (m *Model) applyAlert(ev scheduler.DeadlineEvent) {
	m.AlertLog = append(m.AlertLog, ev)
	if len(m.AlertLog) > alertLogLimit {
		m.AlertLog = m.AlertLog[len(m.AlertLog)-alertLogLimit:]
	}
	due := views.FormatDue(ev.Deadline, m.now().In(m.location()))
	body := fmt.Sprintf("%s is due %s at %s", ev.Title, due, ev.Deadline.In(m.location()).Format("15:04"))
	m.Status = StatusBar{Text: body}
	m.notify("Deadline", body, "warn")
}
