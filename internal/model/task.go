package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxProjectTitle = 100
	MaxTaskTitle    = 300
)

var (
	ErrInvalidTitle    = errors.New("model: title is required")
	ErrTitleTooLong    = errors.New("model: title too long")
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrProjectRequired = errors.New("model: task project is required")
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Next returns the status that follows s in the todo, in_progress, done
// cycle. Unknown values restart at todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if s == "in-progress" || s == "inprogress" {
		s = StatusInProgress
	}
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityNormal:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting; higher sorts first.
func (p Priority) Rank() int {
	if p == PriorityUrgent {
		return 1
	}
	return 0
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if p == "" {
		return PriorityNormal, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, v)
	}
	return p, nil
}

type Task struct {
	ID          string     `json:"id" toml:"id"`
	Title       string     `json:"title" toml:"title"`
	ProjectID   string     `json:"project_id" toml:"project_id"`
	Priority    Priority   `json:"priority" toml:"priority"`
	Status      Status     `json:"status" toml:"status"`
	Deadline    *time.Time `json:"deadline,omitempty" toml:"deadline,omitempty"`
	AssignedFor *Date      `json:"assigned_for,omitempty" toml:"assigned_for,omitempty"`
	CreatedAt   time.Time  `json:"created_at" toml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" toml:"updated_at"`
}

// IsOverdue reports whether an unfinished task has a deadline before now.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == StatusDone {
		return false
	}
	return t.Deadline.Before(now)
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if err := validateTitle(t.Title, MaxTaskTitle); err != nil {
		return err
	}
	if strings.TrimSpace(t.ProjectID) == "" {
		return ErrProjectRequired
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// NewTask is the input for task creation. Status always starts at todo.
type NewTask struct {
	Title       string
	ProjectID   string
	Priority    Priority
	Deadline    *time.Time
	AssignedFor *Date
}

// Normalize trims the title, defaults the priority and validates the result.
func (n NewTask) Normalize() (NewTask, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.ProjectID = strings.TrimSpace(n.ProjectID)
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}
	if err := validateTitle(n.Title, MaxTaskTitle); err != nil {
		return NewTask{}, err
	}
	if n.ProjectID == "" {
		return NewTask{}, ErrProjectRequired
	}
	if !n.Priority.IsValid() {
		return NewTask{}, fmt.Errorf("%w: %q", ErrInvalidPriority, n.Priority)
	}
	return n, nil
}

// TaskPatch describes a partial update. Nil fields are left untouched;
// ClearAssignedFor removes the assignment. Advance moves the stored status
// to its successor, so it is resolved against the row being updated.
type TaskPatch struct {
	Status           *Status
	Advance          bool
	AssignedFor      *Date
	ClearAssignedFor bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Status == nil && !p.Advance && p.AssignedFor == nil && !p.ClearAssignedFor
}

func (p TaskPatch) Validate() error {
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	if p.Status != nil && p.Advance {
		return errors.New("model: patch both sets and advances status")
	}
	if p.AssignedFor != nil && p.ClearAssignedFor {
		return errors.New("model: patch both sets and clears assigned_for")
	}
	return nil
}

// Apply returns t with the patch applied. UpdatedAt is left to the caller.
func (p TaskPatch) Apply(t Task) Task {
	if p.Status != nil {
		t.Status = *p.Status
	} else if p.Advance {
		t.Status = t.Status.Next()
	}
	if p.ClearAssignedFor {
		t.AssignedFor = nil
	} else if p.AssignedFor != nil {
		d := *p.AssignedFor
		t.AssignedFor = &d
	}
	return t
}

func validateTitle(title string, max int) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	if n := utf8.RuneCountInString(title); n > max {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, n, max)
	}
	return nil
}
