package workspace

import (
	"context"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/tasks"
)

// Snapshot is whatever the cache currently holds, stale or not.
type Snapshot struct {
	Projects  []*model.ProjectNode
	Today     []model.TaskView
	Overview  []model.TaskView
	ByProject map[string][]model.Task
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	by := make(map[string][]model.Task, len(w.byProject))
	for id, list := range w.byProject {
		by[id] = append([]model.Task(nil), list...)
	}
	return Snapshot{
		Projects:  w.projects,
		Today:     cloneViews(w.today),
		Overview:  cloneViews(w.overview),
		ByProject: by,
	}
}

// ApplyStatus shows status on every cached copy of the task before the
// write is confirmed. It reports whether any copy was found.
func (w *Workspace) ApplyStatus(id string, status model.Status) bool {
	return w.apply(id, func(t *model.Task) { t.Status = status })
}

// ApplyAssignment is ApplyStatus for the assigned day. A nil day clears it.
func (w *Workspace) ApplyAssignment(id string, day *model.Date) bool {
	return w.apply(id, func(t *model.Task) {
		if day == nil {
			t.AssignedFor = nil
			return
		}
		d := *day
		t.AssignedFor = &d
	})
}

func (w *Workspace) apply(id string, fn func(*model.Task)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	found := false
	for i := range w.today {
		if w.today[i].ID == id {
			fn(&w.today[i].Task)
			found = true
		}
	}
	for i := range w.overview {
		if w.overview[i].ID == id {
			fn(&w.overview[i].Task)
			found = true
		}
	}
	for _, list := range w.byProject {
		for i := range list {
			if list[i].ID == id {
				fn(&list[i])
				found = true
			}
		}
	}
	return found
}

// Reconcile overwrites every cached copy of task with the stored row,
// restores display order, and marks the lists the task appears in stale.
func (w *Workspace) Reconcile(task model.Task) {
	w.mu.Lock()
	for i := range w.today {
		if w.today[i].ID == task.ID {
			w.today[i].Task = task
		}
	}
	tasks.SortViews(w.today)
	for i := range w.overview {
		if w.overview[i].ID == task.ID {
			w.overview[i].Task = task
		}
	}
	tasks.SortViews(w.overview)
	for _, list := range w.byProject {
		for i := range list {
			if list[i].ID == task.ID {
				list[i] = task
			}
		}
		tasks.SortTasks(list)
	}
	for _, k := range taskKeys(task.ProjectID) {
		w.bump(k)
	}
	w.mu.Unlock()
}

// discard drops every task list so optimistic edits from a failed write
// are refetched.
func (w *Workspace) discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.taskGen++
	for k := range w.fresh {
		if k != ProjectsKey {
			delete(w.fresh, k)
		}
	}
}

func (w *Workspace) write(task model.Task, err error) (model.Task, error) {
	if err != nil {
		w.discard()
		return model.Task{}, err
	}
	w.Reconcile(task)
	return task, nil
}

func (w *Workspace) Advance(ctx context.Context, id string) (model.Task, error) {
	return w.write(w.src.Advance(ctx, id))
}

func (w *Workspace) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	w.ApplyStatus(id, status)
	return w.write(w.src.SetStatus(ctx, id, status))
}

func (w *Workspace) AssignToDate(ctx context.Context, id string, day model.Date) (model.Task, error) {
	w.ApplyAssignment(id, &day)
	return w.write(w.src.AssignToDate(ctx, id, day))
}

func (w *Workspace) AssignToday(ctx context.Context, id string) (model.Task, error) {
	return w.write(w.src.AssignToday(ctx, id))
}

func (w *Workspace) Unassign(ctx context.Context, id string) (model.Task, error) {
	w.ApplyAssignment(id, nil)
	return w.write(w.src.Unassign(ctx, id))
}

func (w *Workspace) CreateTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	return w.write(w.src.CreateTask(ctx, in))
}

func (w *Workspace) CreateProject(ctx context.Context, title string) (model.Project, error) {
	p, err := w.src.CreateProject(ctx, title)
	if err != nil {
		return model.Project{}, err
	}
	w.Invalidate(ProjectsKey)
	return p, nil
}

func (w *Workspace) CreateSubproject(ctx context.Context, title, parentID string) (model.Project, error) {
	p, err := w.src.CreateSubproject(ctx, title, parentID)
	if err != nil {
		return model.Project{}, err
	}
	w.Invalidate(ProjectsKey)
	return p, nil
}
