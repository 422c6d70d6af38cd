package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Project  func(ProjectArgs) (Result, error)
	Sub      func(ProjectArgs) (Result, error)
	Assign   func(AssignArgs) (Result, error)
	Unassign func() (Result, error)
	Advance  func() (Result, error)
	Status   func(StatusArgs) (Result, error)
	Show     func(ShowArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeProject:
		if handlers.Project == nil {
			return Result{}, missing("project")
		}
		return handlers.Project(*cmd.Project)
	case TypeSub:
		if handlers.Sub == nil {
			return Result{}, missing("sub")
		}
		return handlers.Sub(*cmd.Project)
	case TypeAssign:
		if handlers.Assign == nil {
			return Result{}, missing("assign")
		}
		return handlers.Assign(*cmd.Assign)
	case TypeUnassign:
		if handlers.Unassign == nil {
			return Result{}, missing("unassign")
		}
		return handlers.Unassign()
	case TypeAdvance:
		if handlers.Advance == nil {
			return Result{}, missing("advance")
		}
		return handlers.Advance()
	case TypeStatus:
		if handlers.Status == nil {
			return Result{}, missing("status")
		}
		return handlers.Status(*cmd.Status)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing("show")
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
