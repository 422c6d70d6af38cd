// Package tasks answers the questions the views ask of the store: which
// tasks belong to a project, which are on today's list, and what path of
// projects leads to each task. Mutations return the stored row so callers
// can reconcile whatever they showed optimistically.
package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/hikari/internal/hierarchy"
	"github.com/sandeepkv93/hikari/internal/model"
)

// Store is the persistence the service needs.
type Store interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	CreateProject(ctx context.Context, in model.NewProject) (model.Project, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error)
	ListTasksWithProject(ctx context.Context) ([]model.TaskRow, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	CreateTask(ctx context.Context, in model.NewTask) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.log = logger
		}
	}
}

type Service struct {
	store Store
	now   func() time.Time
	loc   *time.Location
	log   *log.Logger
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		loc:   time.Local,
		log:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Today is the current calendar date in the service location.
func (s *Service) Today() model.Date {
	return model.DateOf(s.now(), s.loc)
}

// Projects returns the sidebar forest. Projects that no root can reach are
// logged and left out.
func (s *Service) Projects(ctx context.Context) ([]*model.ProjectNode, error) {
	all, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	forest := hierarchy.BuildProjectTree(all)
	if n := hierarchy.Count(forest); n != len(all) {
		s.log.Warn("projects unreachable from any root", "count", len(all)-n)
	}
	s.log.Debug("fetched projects", "count", len(all))
	return forest, nil
}

func (s *Service) Project(ctx context.Context, id string) (model.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, fmt.Errorf("get project: %w", err)
	}
	s.log.Debug("fetched project", "project_id", id)
	return p, nil
}

// Breadcrumbs returns the path of projects leading to projectID.
func (s *Service) Breadcrumbs(ctx context.Context, projectID string) ([]model.Breadcrumb, error) {
	all, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return hierarchy.NewIndex(all).Breadcrumbs(projectID), nil
}

// ByProject returns the tasks of one project in display order.
func (s *Service) ByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	out, err := s.store.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	s.log.Debug("fetched project tasks", "project_id", projectID, "count", len(out))
	return out, nil
}

// AllTasks returns every task with its project title and breadcrumbs. The
// projects are fetched once and shared by every task in the batch.
func (s *Service) AllTasks(ctx context.Context) ([]model.TaskView, error) {
	rows, err := s.store.ListTasksWithProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	all, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	idx := hierarchy.NewIndex(all)

	out := make([]model.TaskView, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.TaskView{
			Task:               row.Task,
			ProjectTitle:       row.ProjectTitle,
			ProjectBreadcrumbs: idx.Breadcrumbs(row.ProjectID),
		})
	}
	s.log.Debug("fetched all tasks", "count", len(out))
	return out, nil
}

// TodayTasks returns the tasks assigned to today or due today.
func (s *Service) TodayTasks(ctx context.Context) ([]model.TaskView, error) {
	all, err := s.AllTasks(ctx)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	out := make([]model.TaskView, 0)
	for _, v := range all {
		if DueOn(v.Task, today, s.loc) {
			out = append(out, v)
		}
	}
	s.log.Debug("fetched today tasks", "date", today, "count", len(out))
	return out, nil
}

func (s *Service) CreateProject(ctx context.Context, title string) (model.Project, error) {
	p, err := s.store.CreateProject(ctx, model.NewProject{Title: title})
	if err != nil {
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}
	s.log.Debug("created project", "project_id", p.ID)
	return p, nil
}

func (s *Service) CreateSubproject(ctx context.Context, title, parentID string) (model.Project, error) {
	p, err := s.store.CreateProject(ctx, model.NewProject{Title: title, Parent: &parentID})
	if err != nil {
		return model.Project{}, fmt.Errorf("create subproject: %w", err)
	}
	s.log.Debug("created subproject", "project_id", p.ID, "parent", parentID)
	return p, nil
}

func (s *Service) CreateTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	t, err := s.store.CreateTask(ctx, in)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.log.Debug("created task", "task_id", t.ID, "project_id", t.ProjectID)
	return t, nil
}

// Advance moves a task to the next status in the todo, in_progress, done
// cycle. The successor is taken from the stored row inside the update, so
// rapid repeated advances each take effect.
func (s *Service) Advance(ctx context.Context, id string) (model.Task, error) {
	return s.update(ctx, id, model.TaskPatch{Advance: true})
}

func (s *Service) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	return s.update(ctx, id, model.TaskPatch{Status: &status})
}

func (s *Service) AssignToDate(ctx context.Context, id string, day model.Date) (model.Task, error) {
	return s.update(ctx, id, model.TaskPatch{AssignedFor: &day})
}

func (s *Service) AssignToday(ctx context.Context, id string) (model.Task, error) {
	return s.AssignToDate(ctx, id, s.Today())
}

func (s *Service) Unassign(ctx context.Context, id string) (model.Task, error) {
	return s.update(ctx, id, model.TaskPatch{ClearAssignedFor: true})
}

func (s *Service) update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	t, err := s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	fields := []any{"task_id", id, "status", t.Status}
	if t.AssignedFor != nil {
		fields = append(fields, "date", t.AssignedFor.String())
	}
	s.log.Debug("updated task", fields...)
	return t, nil
}
