package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/hikari/internal/model"
)

type fakeSource struct {
	tasks    map[string]model.Task
	order    []string
	calls    map[string]int
	writeErr error
	updated  time.Time
}

func newFakeSource(list ...model.Task) *fakeSource {
	f := &fakeSource{
		tasks:   map[string]model.Task{},
		calls:   map[string]int{},
		updated: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	for _, t := range list {
		f.tasks[t.ID] = t
		f.order = append(f.order, t.ID)
	}
	return f
}

func (f *fakeSource) views() []model.TaskView {
	out := make([]model.TaskView, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, model.TaskView{Task: f.tasks[id]})
	}
	return out
}

func (f *fakeSource) Projects(context.Context) ([]*model.ProjectNode, error) {
	f.calls["projects"]++
	return []*model.ProjectNode{{ID: "p", Title: "P", Subprojects: []*model.ProjectNode{}}}, nil
}

func (f *fakeSource) Project(_ context.Context, id string) (model.Project, error) {
	return model.Project{ID: id, Title: "P"}, nil
}

func (f *fakeSource) ByProject(_ context.Context, projectID string) ([]model.Task, error) {
	f.calls["project"]++
	out := make([]model.Task, 0)
	for _, id := range f.order {
		if f.tasks[id].ProjectID == projectID {
			out = append(out, f.tasks[id])
		}
	}
	return out, nil
}

func (f *fakeSource) AllTasks(context.Context) ([]model.TaskView, error) {
	f.calls["all"]++
	return f.views(), nil
}

func (f *fakeSource) TodayTasks(context.Context) ([]model.TaskView, error) {
	f.calls["today"]++
	return f.views(), nil
}

func (f *fakeSource) CreateProject(_ context.Context, title string) (model.Project, error) {
	return model.Project{ID: "new", Title: title}, nil
}

func (f *fakeSource) CreateSubproject(_ context.Context, title, parentID string) (model.Project, error) {
	return model.Project{ID: "sub", Title: title, Parent: &parentID}, nil
}

func (f *fakeSource) CreateTask(_ context.Context, in model.NewTask) (model.Task, error) {
	t := model.Task{ID: "created", Title: in.Title, ProjectID: in.ProjectID, Status: model.StatusTodo, Priority: model.PriorityNormal}
	f.tasks[t.ID] = t
	f.order = append(f.order, t.ID)
	return t, nil
}

func (f *fakeSource) mutate(id string, fn func(*model.Task)) (model.Task, error) {
	if f.writeErr != nil {
		return model.Task{}, f.writeErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return model.Task{}, errors.New("not found")
	}
	fn(&t)
	f.updated = f.updated.Add(time.Second)
	t.UpdatedAt = f.updated
	f.tasks[id] = t
	return t, nil
}

func (f *fakeSource) Advance(_ context.Context, id string) (model.Task, error) {
	return f.mutate(id, func(t *model.Task) { t.Status = t.Status.Next() })
}

func (f *fakeSource) SetStatus(_ context.Context, id string, s model.Status) (model.Task, error) {
	return f.mutate(id, func(t *model.Task) { t.Status = s })
}

func (f *fakeSource) AssignToDate(_ context.Context, id string, d model.Date) (model.Task, error) {
	return f.mutate(id, func(t *model.Task) { t.AssignedFor = &d })
}

func (f *fakeSource) AssignToday(ctx context.Context, id string) (model.Task, error) {
	return f.AssignToDate(ctx, id, model.Date{Year: 2025, Month: time.June, Day: 10})
}

func (f *fakeSource) Unassign(_ context.Context, id string) (model.Task, error) {
	return f.mutate(id, func(t *model.Task) { t.AssignedFor = nil })
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "a", Title: "A", ProjectID: "p", Status: model.StatusTodo, Priority: model.PriorityNormal},
		{ID: "b", Title: "B", ProjectID: "p", Status: model.StatusTodo, Priority: model.PriorityUrgent},
	}
}

func TestReadsAreCachedUntilInvalidated(t *testing.T) {
	src := newFakeSource(sampleTasks()...)
	ws := New(src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := ws.Today(ctx)
		require.NoError(t, err)
		_, err = ws.Overview(ctx)
		require.NoError(t, err)
		_, err = ws.ProjectTasks(ctx, "p")
		require.NoError(t, err)
		_, err = ws.Projects(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.calls["today"])
	assert.Equal(t, 1, src.calls["all"])
	assert.Equal(t, 1, src.calls["project"])
	assert.Equal(t, 1, src.calls["projects"])

	ws.Invalidate(TodayKey)
	assert.False(t, ws.Fresh(TodayKey))
	assert.True(t, ws.Fresh(OverviewKey))
	_, err := ws.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls["today"])

	ws.Invalidate()
	assert.False(t, ws.Fresh(ProjectsKey))
}

func TestWriteInvalidatesAffectedEntries(t *testing.T) {
	src := newFakeSource(sampleTasks()...)
	ws := New(src)
	ctx := context.Background()

	_, err := ws.Today(ctx)
	require.NoError(t, err)
	_, err = ws.ProjectTasks(ctx, "p")
	require.NoError(t, err)
	_, err = ws.ProjectTasks(ctx, "other")
	require.NoError(t, err)
	_, err = ws.Projects(ctx)
	require.NoError(t, err)

	got, err := ws.Advance(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)

	assert.False(t, ws.Fresh(TodayKey))
	assert.False(t, ws.Fresh(ProjectKey("p")))
	assert.True(t, ws.Fresh(ProjectKey("other")))
	assert.True(t, ws.Fresh(ProjectsKey))

	snap := ws.Snapshot()
	for _, v := range snap.Today {
		if v.ID == "a" {
			assert.Equal(t, model.StatusInProgress, v.Status)
		}
	}

	_, err = ws.CreateProject(ctx, "New")
	require.NoError(t, err)
	assert.False(t, ws.Fresh(ProjectsKey))
}

func TestOptimisticStatusReconciledByStoredRow(t *testing.T) {
	src := newFakeSource(sampleTasks()...)
	ws := New(src)
	ctx := context.Background()

	_, err := ws.Overview(ctx)
	require.NoError(t, err)

	require.True(t, ws.ApplyStatus("a", model.StatusDone))
	assert.False(t, ws.ApplyStatus("missing", model.StatusDone))
	snap := ws.Snapshot()
	require.Len(t, snap.Overview, 2)
	assert.Equal(t, model.StatusDone, findView(t, snap.Overview, "a").Status)

	// The store disagrees: the stored row wins.
	stored := src.tasks["a"]
	stored.Status = model.StatusInProgress
	stored.UpdatedAt = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	ws.Reconcile(stored)

	snap = ws.Snapshot()
	got := findView(t, snap.Overview, "a")
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, stored.UpdatedAt, got.UpdatedAt)
	assert.False(t, ws.Fresh(OverviewKey))
}

func TestOptimisticAssignmentRolledBackOnFailure(t *testing.T) {
	src := newFakeSource(sampleTasks()...)
	ws := New(src)
	ctx := context.Background()

	_, err := ws.Overview(ctx)
	require.NoError(t, err)
	_, err = ws.Projects(ctx)
	require.NoError(t, err)

	src.writeErr = errors.New("disk full")
	day := model.Date{Year: 2025, Month: time.June, Day: 12}
	_, err = ws.AssignToDate(ctx, "b", day)
	require.Error(t, err)

	assert.False(t, ws.Fresh(OverviewKey), "optimistic state must be refetched")
	assert.True(t, ws.Fresh(ProjectsKey))

	views, err := ws.Overview(ctx)
	require.NoError(t, err)
	assert.Nil(t, findView(t, views, "b").AssignedFor)
}

func TestReconcileRestoresOrder(t *testing.T) {
	deadline := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	src := newFakeSource(sampleTasks()...)
	ws := New(src)
	ctx := context.Background()

	_, err := ws.ProjectTasks(ctx, "p")
	require.NoError(t, err)

	require.Equal(t, "a", ws.Snapshot().ByProject["p"][0].ID)

	b := src.tasks["b"]
	b.Deadline = &deadline
	ws.Reconcile(b)

	list := ws.Snapshot().ByProject["p"]
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
}

func TestUnassignAppliesLocallyFirst(t *testing.T) {
	day := model.Date{Year: 2025, Month: time.June, Day: 10}
	seed := sampleTasks()
	seed[0].AssignedFor = &day
	src := newFakeSource(seed...)
	ws := New(src)
	ctx := context.Background()

	_, err := ws.Today(ctx)
	require.NoError(t, err)

	got, err := ws.Unassign(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got.AssignedFor)
	assert.Nil(t, findView(t, ws.Snapshot().Today, "a").AssignedFor)
}

// slowSource holds TodayTasks after taking its snapshot until release is
// closed, so a write can land while the fetch is in flight.
type slowSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
	once    bool
}

func (s *slowSource) TodayTasks(ctx context.Context) ([]model.TaskView, error) {
	out, err := s.fakeSource.TodayTasks(ctx)
	if !s.once {
		s.once = true
		close(s.started)
		<-s.release
	}
	return out, err
}

func TestFetchOverlappingWriteIsNotCached(t *testing.T) {
	src := &slowSource{
		fakeSource: newFakeSource(sampleTasks()...),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	ws := New(src)
	ctx := context.Background()

	done := make(chan []model.TaskView)
	go func() {
		views, err := ws.Today(ctx)
		assert.NoError(t, err)
		done <- views
	}()
	<-src.started

	got, err := ws.SetStatus(ctx, "a", model.StatusDone)
	require.NoError(t, err)
	require.Equal(t, model.StatusDone, got.Status)

	close(src.release)
	inflight := <-done
	assert.Equal(t, model.StatusTodo, findView(t, inflight, "a").Status)
	assert.False(t, ws.Fresh(TodayKey), "a fetch older than the write must not be marked fresh")

	views, err := ws.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, findView(t, views, "a").Status)
	assert.True(t, ws.Fresh(TodayKey))
	assert.Equal(t, 2, src.calls["today"])
}

func TestInvalidateDuringFetchDropsResult(t *testing.T) {
	src := &slowSource{
		fakeSource: newFakeSource(sampleTasks()...),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	ws := New(src)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		_, err := ws.Today(ctx)
		assert.NoError(t, err)
		close(done)
	}()
	<-src.started
	ws.Invalidate()
	close(src.release)
	<-done

	assert.False(t, ws.Fresh(TodayKey))
	assert.Empty(t, ws.Snapshot().Today)
}

func findView(t *testing.T, in []model.TaskView, id string) model.TaskView {
	t.Helper()
	for _, v := range in {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("task %s not found", id)
	return model.TaskView{}
}
