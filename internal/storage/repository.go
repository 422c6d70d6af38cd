package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/hikari/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrNotReady = errors.New("storage: schema not ready")
	ErrNilDB    = errors.New("storage: nil db")
)

type Repository interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	CreateProject(ctx context.Context, in model.NewProject) (model.Project, error)

	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error)
	ListTasksWithProject(ctx context.Context) ([]model.TaskRow, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	CreateTask(ctx context.Context, in model.NewTask) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)

	Ready() bool
	Close() error
}
