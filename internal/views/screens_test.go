package views

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDue(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, loc)
	tests := []struct {
		name     string
		deadline time.Time
		want     string
	}{
		{name: "later today", deadline: time.Date(2025, 6, 10, 23, 0, 0, 0, loc), want: "Today"},
		{name: "tomorrow", deadline: time.Date(2025, 6, 11, 8, 0, 0, 0, loc), want: "Tomorrow"},
		{name: "same year", deadline: time.Date(2025, 7, 4, 12, 0, 0, 0, loc), want: "Jul 4"},
		{name: "past same year", deadline: time.Date(2025, 6, 9, 12, 0, 0, 0, loc), want: "Jun 9"},
		{name: "next year", deadline: time.Date(2026, 1, 2, 12, 0, 0, 0, loc), want: "Jan 2, 2026"},
		// 22:30 UTC on the 10th is already the 11th in now's zone.
		{name: "converted to now zone", deadline: time.Date(2025, 6, 10, 22, 30, 0, 0, time.UTC), want: "Tomorrow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDue(tt.deadline, now); got != tt.want {
				t.Fatalf("FormatDue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSidebarShowsTree(t *testing.T) {
	out := RenderSidebar(SidebarData{
		TodaySelected: true,
		TodayCount:    2,
		Rows: []SidebarRow{
			{ID: "w", Title: "Work", HasChildren: true, Expanded: true},
			{ID: "a", Title: "Alpha", Depth: 1, Selected: true},
			{ID: "h", Title: "Home", HasChildren: true},
		},
	})
	for _, want := range []string{"> Today (2)", "  Overview", "- Work", "    Alpha", "+ Home"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in sidebar:\n%s", want, out)
		}
	}
}

func TestRenderSidebarEmpty(t *testing.T) {
	out := RenderSidebar(SidebarData{})
	if !strings.Contains(out, "(no projects)") {
		t.Fatalf("expected empty marker, got:\n%s", out)
	}
}

func TestRenderTaskList(t *testing.T) {
	out := RenderTaskList(TaskListData{
		Title: "Today",
		Items: []TaskItemData{
			{ID: "1", Title: "Ship release", Status: "in_progress", Urgent: true, Due: "Today", Overdue: true, Path: "Work / Alpha", Selected: true},
			{ID: "2", Title: "Water plants", Status: "done", Assigned: "2025-06-10"},
		},
	})
	for _, want := range []string{"Today", "[~]", "Ship release", "(overdue)", "Work / Alpha", "[x]", "@2025-06-10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in list:\n%s", want, out)
		}
	}

	empty := RenderTaskList(TaskListData{Title: "Overview", Empty: "nothing unassigned"})
	if !strings.Contains(empty, "nothing unassigned") {
		t.Fatalf("expected empty text, got:\n%s", empty)
	}
}

func TestTaskDetailMarkdown(t *testing.T) {
	md := TaskDetailMarkdown(TaskDetailData{
		Title:    "Ship release",
		Status:   "In progress",
		Priority: "urgent",
		Due:      "Tomorrow",
		Path:     "Work / Alpha",
	})
	for _, want := range []string{"# Ship release", "_Work / Alpha_", "**Status:** In progress", "**Due:** Tomorrow"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Assigned") {
		t.Fatalf("expected no assigned line:\n%s", md)
	}
	if TaskDetailMarkdown(TaskDetailData{}) != "" {
		t.Fatal("expected empty markdown without a title")
	}
}

func TestStatusBadge(t *testing.T) {
	if StatusBadge("todo") != "[ ]" || StatusBadge("in_progress") != "[~]" || StatusBadge("done") != "[x]" {
		t.Fatal("unexpected status badges")
	}
}
