package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/hikari/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeProject  Type = "project"
	TypeSub      Type = "sub"
	TypeAssign   Type = "assign"
	TypeUnassign Type = "unassign"
	TypeAdvance  Type = "advance"
	TypeStatus   Type = "status"
	TypeShow     Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs creates a task. "!" anywhere marks it urgent, "due:" sets a
// deadline and "on:" assigns a day.
type AddArgs struct {
	Title    string
	Priority model.Priority
	Due      string
	On       string
}

type ProjectArgs struct {
	Title string
}

type AssignArgs struct {
	When string
}

type StatusArgs struct {
	Status model.Status
}

type ShowArgs struct {
	View string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Project *ProjectArgs
	Assign  *AssignArgs
	Status  *StatusArgs
	Show    *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeProject, TypeSub:
		return parseProject(input, Type(head), args)
	case TypeAssign:
		return parseAssign(input, args)
	case TypeUnassign, TypeAdvance:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeStatus:
		return parseStatus(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{Priority: model.PriorityNormal}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case arg == "!":
			out.Priority = model.PriorityUrgent
		case strings.HasPrefix(lower, "due:"):
			out.Due = arg[len("due:"):]
		case strings.HasPrefix(lower, "on:"):
			out.On = arg[len("on:"):]
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseProject(raw string, typ Type, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, invalid("%s requires a title", typ)
	}
	return Command{Type: typ, Raw: raw, Project: &ProjectArgs{Title: title}}, nil
}

func parseAssign(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeAssign, Raw: raw, Assign: &AssignArgs{When: "today"}}, nil
	}
	return Command{Type: TypeAssign, Raw: raw, Assign: &AssignArgs{When: strings.ToLower(args[0])}}, nil
}

func parseStatus(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("status requires todo, in_progress or done")
	}
	s, err := model.ParseStatus(strings.Join(args, "_"))
	if err != nil {
		return Command{}, invalid("%v", err)
	}
	return Command{Type: TypeStatus, Raw: raw, Status: &StatusArgs{Status: s}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("show requires a view")
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{View: strings.ToLower(args[0])}}, nil
}

// ResolveDate turns "today", "tomorrow", "+N" or YYYY-MM-DD into a date.
func ResolveDate(when string, today model.Date) (model.Date, error) {
	switch strings.ToLower(strings.TrimSpace(when)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	if strings.HasPrefix(when, "+") {
		var n int
		if _, err := fmt.Sscanf(when, "+%d", &n); err != nil || n < 0 {
			return model.Date{}, invalid("bad day offset %q", when)
		}
		return today.AddDays(n), nil
	}
	d, err := model.ParseDate(when)
	if err != nil {
		return model.Date{}, invalid("%v", err)
	}
	return d, nil
}

var deadlineLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", model.DateLayout}

// ParseDeadline reads a deadline in loc. A bare date means the end of that
// day.
func ParseDeadline(v string, today model.Date, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "today", "tomorrow":
		d, _ := ResolveDate(v, today)
		return endOfDay(d, loc), nil
	}
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, v, loc)
		if err != nil {
			continue
		}
		if layout == model.DateLayout {
			return endOfDay(model.DateOf(t, loc), loc), nil
		}
		return t, nil
	}
	return time.Time{}, invalid("bad deadline %q", v)
}

func endOfDay(d model.Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 0, 0, loc)
}
