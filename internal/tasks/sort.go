package tasks

import (
	"sort"
	"time"

	"github.com/sandeepkv93/hikari/internal/model"
)

// Compare orders tasks by deadline (earliest first, none last), then
// priority (urgent first), then creation time (newest first). It returns a
// negative number when a sorts before b.
func Compare(a, b model.Task) int {
	switch {
	case a.Deadline == nil && b.Deadline != nil:
		return 1
	case a.Deadline != nil && b.Deadline == nil:
		return -1
	case a.Deadline != nil && b.Deadline != nil:
		if c := a.Deadline.Compare(*b.Deadline); c != 0 {
			return c
		}
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		if ra > rb {
			return -1
		}
		return 1
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// SortTasks sorts in place. Tasks that compare equal keep their order.
func SortTasks(in []model.Task) {
	sort.SliceStable(in, func(i, j int) bool { return Compare(in[i], in[j]) < 0 })
}

func SortViews(in []model.TaskView) {
	sort.SliceStable(in, func(i, j int) bool { return Compare(in[i].Task, in[j].Task) < 0 })
}

// DueOn reports whether t belongs to the given day: either assigned to it,
// or with a deadline that falls on it in loc.
func DueOn(t model.Task, day model.Date, loc *time.Location) bool {
	if t.AssignedFor != nil && *t.AssignedFor == day {
		return true
	}
	if t.Deadline != nil && model.DateOf(*t.Deadline, loc) == day {
		return true
	}
	return false
}

// Unassigned keeps the views that have no day assigned, preserving order.
func Unassigned(in []model.TaskView) []model.TaskView {
	out := make([]model.TaskView, 0, len(in))
	for _, v := range in {
		if v.AssignedFor == nil {
			out = append(out, v)
		}
	}
	return out
}

// Overdue keeps the views past their deadline at now.
func Overdue(in []model.TaskView, now time.Time) []model.TaskView {
	out := make([]model.TaskView, 0)
	for _, v := range in {
		if v.IsOverdue(now) {
			out = append(out, v)
		}
	}
	return out
}
