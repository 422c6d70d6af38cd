package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/hikari/internal/model"
)

// Fixed-width UTC timestamps so that text comparison in ORDER BY matches
// chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type Option func(*SQLiteRepository)

// WithClock replaces time.Now for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator replaces the UUID v7 generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *SQLiteRepository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

type SQLiteRepository struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string

	mu    sync.RWMutex
	ready bool
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository wraps db. The repository is ready immediately when db
// already carries the current schema; otherwise every operation returns
// ErrNotReady until Migrate succeeds.
func NewSQLiteRepository(db *sql.DB, opts ...Option) (*SQLiteRepository, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	r := &SQLiteRepository{db: db, now: time.Now, newID: generateUUID}
	for _, opt := range opts {
		opt(r)
	}
	current, err := SchemaCurrent(db)
	if err != nil {
		return nil, err
	}
	r.ready = current
	return r, nil
}

// Migrate applies pending migrations and marks the repository ready.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := MigrateUp(r.db); err != nil {
		r.ready = false
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	r.ready = true
	return nil
}

func (r *SQLiteRepository) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	r.ready = false
	r.mu.Unlock()
	return r.db.Close()
}

func (r *SQLiteRepository) checkReady() error {
	if !r.Ready() {
		return ErrNotReady
	}
	return nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]model.Project, error) {
	if err := r.checkReady(); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, parent FROM projects ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]model.Project, 0)
	for rows.Next() {
		p, scanErr := scanProject(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (model.Project, error) {
	if err := r.checkReady(); err != nil {
		return model.Project{}, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT id, title, parent FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return model.Project{}, err
	}
	return p, nil
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, in model.NewProject) (model.Project, error) {
	if err := r.checkReady(); err != nil {
		return model.Project{}, err
	}
	in, err := in.Normalize()
	if err != nil {
		return model.Project{}, err
	}
	p := model.Project{ID: r.newID(), Title: in.Title, Parent: in.Parent}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, parent)
		VALUES (?, ?, ?)`,
		p.ID, p.Title, nullString(p.Parent),
	); err != nil {
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	if err := r.checkReady(); err != nil {
		return nil, err
	}
	query := `SELECT ` + taskColumns + ` FROM tasks t`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.ProjectID != "" {
		clauses = append(clauses, "t.project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "t.status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.AssignedFor != nil {
		clauses = append(clauses, "t.assigned_for = ?")
		args = append(args, filter.AssignedFor.String())
	} else if filter.Unassigned {
		clauses = append(clauses, "t.assigned_for IS NULL")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += taskOrder
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	return r.ListTasks(ctx, TaskListFilter{ProjectID: projectID})
}

// ListTasksWithProject returns every task with its immediate project title.
func (r *SQLiteRepository) ListTasksWithProject(ctx context.Context) ([]model.TaskRow, error) {
	if err := r.checkReady(); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+`, p.title
		FROM tasks t LEFT JOIN projects p ON p.id = t.project_id`+taskOrder)
	if err != nil {
		return nil, fmt.Errorf("list tasks with project: %w", err)
	}
	defer rows.Close()

	out := make([]model.TaskRow, 0)
	for rows.Next() {
		var title sql.NullString
		task, scanErr := scanTask(rows, &title)
		if scanErr != nil {
			return nil, scanErr
		}
		row := model.TaskRow{Task: task}
		if title.Valid {
			v := title.String
			row.ProjectTitle = &v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	if err := r.checkReady(); err != nil {
		return model.Task{}, err
	}
	return getTask(ctx, r.db, id)
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	if err := r.checkReady(); err != nil {
		return model.Task{}, err
	}
	in, err := in.Normalize()
	if err != nil {
		return model.Task{}, err
	}
	now := r.now().UTC()
	task := model.Task{
		ID:          r.newID(),
		Title:       in.Title,
		ProjectID:   in.ProjectID,
		Priority:    in.Priority,
		Status:      model.StatusTodo,
		Deadline:    in.Deadline,
		AssignedFor: in.AssignedFor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, project_id, priority, status, deadline, assigned_for, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.ProjectID, string(task.Priority), string(task.Status),
		nullTime(task.Deadline), nullDate(task.AssignedFor), mustTime(task.CreatedAt), mustTime(task.UpdatedAt),
	); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return getTask(ctx, r.db, task.ID)
}

// UpdateTask applies patch and returns the stored row. updated_at always
// moves forward, even when the clock does not.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := r.checkReady(); err != nil {
		return model.Task{}, err
	}
	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Task{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getTask(ctx, tx, id)
	if err != nil {
		return model.Task{}, err
	}
	next := patch.Apply(current)
	next.UpdatedAt = nextUpdatedAt(current.UpdatedAt, r.now())

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, assigned_for = ?, updated_at = ?
		WHERE id = ?`,
		string(next.Status), nullDate(next.AssignedFor), mustTime(next.UpdatedAt), id,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if err := checkRowsAffected(res); err != nil {
		return model.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	out, err := getTask(ctx, tx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, fmt.Errorf("commit update: %w", err)
	}
	return out, nil
}

func nextUpdatedAt(prev, now time.Time) time.Time {
	now = now.UTC().Round(0)
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryer, id string) (model.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return model.Task{}, err
	}
	return task, nil
}

func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func nullDate(v *model.Date) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func parseNullableDate(v sql.NullString) (*model.Date, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	d, err := model.ParseDate(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (model.Project, error) {
	var out model.Project
	var parent sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &parent); err != nil {
		return model.Project{}, err
	}
	if parent.Valid {
		v := parent.String
		out.Parent = &v
	}
	return out, nil
}

// scanTask reads taskColumns followed by any extra destinations.
func scanTask(s scanner, extra ...any) (model.Task, error) {
	var out model.Task
	var deadline sql.NullString
	var assigned sql.NullString
	var created string
	var updated string
	dest := []any{&out.ID, &out.Title, &out.ProjectID, &out.Priority, &out.Status, &deadline, &assigned, &created, &updated}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return model.Task{}, err
	}
	deadlineAt, err := parseNullableTime(deadline)
	if err != nil {
		return model.Task{}, err
	}
	assignedFor, err := parseNullableDate(assigned)
	if err != nil {
		return model.Task{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.Deadline = deadlineAt
	out.AssignedFor = assignedFor
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
