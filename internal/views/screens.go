package views

import (
	"fmt"
	"strings"
	"time"
)

type SidebarRow struct {
	ID          string
	Title       string
	Depth       int
	HasChildren bool
	Expanded    bool
	Selected    bool
}

type SidebarData struct {
	TodaySelected    bool
	OverviewSelected bool
	TodayCount       int
	Rows             []SidebarRow
}

type TaskItemData struct {
	ID       string
	Title    string
	Status   string
	Urgent   bool
	Overdue  bool
	Due      string
	Assigned string
	Path     string
	Selected bool
}

type TaskListData struct {
	Title    string
	Subtitle string
	Items    []TaskItemData
	Empty    string
}

type TaskDetailData struct {
	Title    string
	Status   string
	Priority string
	Due      string
	Overdue  bool
	Assigned string
	Path     string
	Created  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderSidebar(data SidebarData) string {
	var b strings.Builder
	b.WriteString(navLine("Today", data.TodaySelected))
	if data.TodayCount > 0 {
		b.WriteString(fmt.Sprintf(" (%d)", data.TodayCount))
	}
	b.WriteString("\n")
	b.WriteString(navLine("Overview", data.OverviewSelected))
	b.WriteString("\n\nprojects:\n")
	if len(data.Rows) == 0 {
		b.WriteString(mutedStyle.Render("  (no projects)"))
		return b.String()
	}
	for _, row := range data.Rows {
		marker := " "
		if row.HasChildren {
			marker = "+"
			if row.Expanded {
				marker = "-"
			}
		}
		indent := strings.Repeat("  ", row.Depth)
		b.WriteString(navLine(fmt.Sprintf("%s%s %s", indent, marker, row.Title), row.Selected))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func navLine(label string, selected bool) string {
	if selected {
		return selectedStyle.Render("> " + label)
	}
	return "  " + label
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title))
	b.WriteString("\n")
	if data.Subtitle != "" {
		b.WriteString(mutedStyle.Render(data.Subtitle))
		b.WriteString("\n")
	}
	if len(data.Items) == 0 {
		empty := data.Empty
		if empty == "" {
			empty = "(no tasks)"
		}
		b.WriteString(mutedStyle.Render(empty))
		return b.String()
	}
	for _, item := range data.Items {
		b.WriteString(renderTaskLine(item))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskLine(item TaskItemData) string {
	cursor := " "
	if item.Selected {
		cursor = ">"
	}
	title := item.Title
	if item.Urgent {
		title = urgentStyle.Render("!") + " " + title
	}
	if item.Selected {
		title = selectedStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", cursor, StatusBadge(item.Status), title)
	if item.Due != "" {
		due := "due " + item.Due
		if item.Overdue {
			due = overdueStyle.Render(due + " (overdue)")
		}
		line += "  " + due
	}
	if item.Assigned != "" {
		line += "  " + mutedStyle.Render("@"+item.Assigned)
	}
	if item.Path != "" {
		line += "\n     " + mutedStyle.Render(item.Path)
	}
	return line
}

func StatusBadge(status string) string {
	switch status {
	case "in_progress":
		return "[~]"
	case "done":
		return "[x]"
	default:
		return "[ ]"
	}
}

// FormatPath joins breadcrumb titles root first.
func FormatPath(titles []string) string {
	return strings.Join(titles, " / ")
}

// FormatDue renders a deadline relative to now's calendar day: "Today",
// "Tomorrow", "Jan 2" within the current year, "Jan 2, 2006" otherwise.
func FormatDue(deadline, now time.Time) string {
	d := deadline.In(now.Location())
	dy, dm, dd := d.Date()
	ny, nm, nd := now.Date()
	if dy == ny && dm == nm && dd == nd {
		return "Today"
	}
	ty, tm, td := now.AddDate(0, 0, 1).Date()
	if dy == ty && dm == tm && dd == td {
		return "Tomorrow"
	}
	if dy == ny {
		return d.Format("Jan 2")
	}
	return d.Format("Jan 2, 2006")
}

// TaskDetailMarkdown is the markdown source of the detail pane.
func TaskDetailMarkdown(data TaskDetailData) string {
	if strings.TrimSpace(data.Title) == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("# " + data.Title + "\n\n")
	if data.Path != "" {
		b.WriteString("_" + data.Path + "_\n\n")
	}
	b.WriteString("- **Status:** " + data.Status + "\n")
	b.WriteString("- **Priority:** " + data.Priority + "\n")
	if data.Due != "" {
		due := data.Due
		if data.Overdue {
			due += " (overdue)"
		}
		b.WriteString("- **Due:** " + due + "\n")
	}
	if data.Assigned != "" {
		b.WriteString("- **Assigned:** " + data.Assigned + "\n")
	}
	if data.Created != "" {
		b.WriteString("- **Created:** " + data.Created + "\n")
	}
	return b.String()
}

func RenderTaskDetail(data TaskDetailData) string {
	md := TaskDetailMarkdown(data)
	if md == "" {
		return mutedStyle.Render("(no selection)")
	}
	return RenderMarkdown(md)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return input
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
