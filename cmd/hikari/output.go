package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/views"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTree(w io.Writer, forest []*model.ProjectNode) {
	if len(forest) == 0 {
		fmt.Fprintln(w, "(no projects)")
		return
	}
	for _, root := range forest {
		root.Walk(0, func(n *model.ProjectNode, depth int) bool {
			fmt.Fprintf(w, "%s%s  %s\n", strings.Repeat("  ", depth), n.Title, n.ID)
			return true
		})
	}
}

func taskLine(t model.Task, path string, now time.Time) string {
	var b strings.Builder
	b.WriteString(views.StatusBadge(string(t.Status)))
	b.WriteString(" ")
	if t.Priority == model.PriorityUrgent {
		b.WriteString("! ")
	}
	b.WriteString(t.Title)
	if t.Deadline != nil {
		b.WriteString("  due " + views.FormatDue(*t.Deadline, now))
		if t.IsOverdue(now) {
			b.WriteString(" (overdue)")
		}
	}
	if t.AssignedFor != nil {
		b.WriteString("  @" + t.AssignedFor.String())
	}
	if path != "" {
		b.WriteString("  [" + path + "]")
	}
	b.WriteString("  " + t.ID)
	return b.String()
}

func printViews(w io.Writer, list []model.TaskView, now time.Time) {
	if len(list) == 0 {
		fmt.Fprintln(w, "(no tasks)")
		return
	}
	for _, v := range list {
		titles := make([]string, 0, len(v.ProjectBreadcrumbs))
		for _, c := range v.ProjectBreadcrumbs {
			titles = append(titles, c.Title)
		}
		fmt.Fprintln(w, taskLine(v.Task, views.FormatPath(titles), now))
	}
}

func printTasks(w io.Writer, list []model.Task, now time.Time) {
	if len(list) == 0 {
		fmt.Fprintln(w, "(no tasks)")
		return
	}
	for _, t := range list {
		fmt.Fprintln(w, taskLine(t, "", now))
	}
}
