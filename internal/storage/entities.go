package storage

import "github.com/sandeepkv93/hikari/internal/model"

// TaskListFilter narrows ListTasks. Zero values match everything.
type TaskListFilter struct {
	ProjectID   string
	Status      model.Status
	AssignedFor *model.Date
	Unassigned  bool
	Limit       int
	Offset      int
}

// Every task listing uses this order: earliest deadline first with
// deadline-less tasks last, then urgent before normal, then newest first.
// rowid keeps ties in insertion order.
const taskOrder = ` ORDER BY t.deadline IS NULL ASC, t.deadline ASC,
	CASE t.priority WHEN 'urgent' THEN 1 ELSE 0 END DESC,
	t.created_at DESC, t.rowid ASC`

const taskColumns = `t.id, t.title, t.project_id, t.priority, t.status, t.deadline, t.assigned_for, t.created_at, t.updated_at`
