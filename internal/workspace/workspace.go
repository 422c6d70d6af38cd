// Package workspace caches the lists each view shows and keeps them honest
// across writes. Reads are served from the cache until a write invalidates
// them. Status and assignment may be applied locally before the write lands;
// the stored row returned by the write always wins.
package workspace

import (
	"context"
	"sync"

	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/tasks"
)

// Source is the query and mutation surface the cache sits in front of.
type Source interface {
	Projects(ctx context.Context) ([]*model.ProjectNode, error)
	Project(ctx context.Context, id string) (model.Project, error)
	ByProject(ctx context.Context, projectID string) ([]model.Task, error)
	AllTasks(ctx context.Context) ([]model.TaskView, error)
	TodayTasks(ctx context.Context) ([]model.TaskView, error)

	CreateProject(ctx context.Context, title string) (model.Project, error)
	CreateSubproject(ctx context.Context, title, parentID string) (model.Project, error)
	CreateTask(ctx context.Context, in model.NewTask) (model.Task, error)
	Advance(ctx context.Context, id string) (model.Task, error)
	SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error)
	AssignToDate(ctx context.Context, id string, day model.Date) (model.Task, error)
	AssignToday(ctx context.Context, id string) (model.Task, error)
	Unassign(ctx context.Context, id string) (model.Task, error)
}

var _ Source = (*tasks.Service)(nil)

type Workspace struct {
	src Source

	mu        sync.Mutex
	projects  []*model.ProjectNode
	today     []model.TaskView
	overview  []model.TaskView
	byProject map[string][]model.Task
	fresh     map[Key]bool

	// Generations only grow. A fetch stores its result only if the
	// generation of its key did not move while it was in flight.
	gen     map[Key]uint64
	epoch   uint64
	taskGen uint64
}

func New(src Source) *Workspace {
	return &Workspace{
		src:       src,
		byProject: make(map[string][]model.Task),
		fresh:     make(map[Key]bool),
		gen:       make(map[Key]uint64),
	}
}

// generation must be called with mu held.
func (w *Workspace) generation(k Key) uint64 {
	g := w.epoch + w.gen[k]
	if k != ProjectsKey {
		g += w.taskGen
	}
	return g
}

// begin reports whether k is fresh and, if not, the generation a fetch for
// k starts from.
func (w *Workspace) begin(k Key) (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation(k), w.fresh[k]
}

// commit runs set and marks k fresh unless k was invalidated after begin.
func (w *Workspace) commit(k Key, gen uint64, set func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation(k) != gen {
		return false
	}
	set()
	w.fresh[k] = true
	return true
}

// bump must be called with mu held.
func (w *Workspace) bump(k Key) {
	w.gen[k]++
	delete(w.fresh, k)
}

func (w *Workspace) Projects(ctx context.Context) ([]*model.ProjectNode, error) {
	gen, fresh := w.begin(ProjectsKey)
	if fresh {
		w.mu.Lock()
		out := w.projects
		w.mu.Unlock()
		return out, nil
	}

	out, err := w.src.Projects(ctx)
	if err != nil {
		return nil, err
	}
	w.commit(ProjectsKey, gen, func() { w.projects = out })
	return out, nil
}

func (w *Workspace) Project(ctx context.Context, id string) (model.Project, error) {
	return w.src.Project(ctx, id)
}

func (w *Workspace) Today(ctx context.Context) ([]model.TaskView, error) {
	gen, fresh := w.begin(TodayKey)
	if fresh {
		w.mu.Lock()
		out := cloneViews(w.today)
		w.mu.Unlock()
		return out, nil
	}

	out, err := w.src.TodayTasks(ctx)
	if err != nil {
		return nil, err
	}
	w.commit(TodayKey, gen, func() { w.today = cloneViews(out) })
	return out, nil
}

func (w *Workspace) Overview(ctx context.Context) ([]model.TaskView, error) {
	gen, fresh := w.begin(OverviewKey)
	if fresh {
		w.mu.Lock()
		out := cloneViews(w.overview)
		w.mu.Unlock()
		return out, nil
	}

	out, err := w.src.AllTasks(ctx)
	if err != nil {
		return nil, err
	}
	w.commit(OverviewKey, gen, func() { w.overview = cloneViews(out) })
	return out, nil
}

func (w *Workspace) ProjectTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	key := ProjectKey(projectID)
	gen, fresh := w.begin(key)
	if fresh {
		w.mu.Lock()
		out := append([]model.Task(nil), w.byProject[projectID]...)
		w.mu.Unlock()
		return out, nil
	}

	out, err := w.src.ByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	w.commit(key, gen, func() { w.byProject[projectID] = append([]model.Task(nil), out...) })
	return out, nil
}

// Invalidate marks the given entries stale, including any fetch for them
// still in flight. With no keys, everything is.
func (w *Workspace) Invalidate(keys ...Key) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(keys) == 0 {
		w.epoch++
		w.fresh = make(map[Key]bool)
		return
	}
	for _, k := range keys {
		w.bump(k)
	}
}

// Fresh reports whether k would be served from the cache.
func (w *Workspace) Fresh(k Key) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fresh[k]
}

func cloneViews(in []model.TaskView) []model.TaskView {
	if in == nil {
		return nil
	}
	return append([]model.TaskView(nil), in...)
}
