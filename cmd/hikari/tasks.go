package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/hikari/internal/commands"
	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/tasks"
)

func newTasksCmd(a *app) *cobra.Command {
	list := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
	}

	list.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Tasks assigned to or due today",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.svc.TodayTasks(cmd.Context())
			if err != nil {
				return err
			}
			return a.printViews(cmd, out)
		},
	})

	var unassigned bool
	all := &cobra.Command{
		Use:   "all",
		Short: "Every task with its project path",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.svc.AllTasks(cmd.Context())
			if err != nil {
				return err
			}
			if unassigned {
				out = tasks.Unassigned(out)
			}
			return a.printViews(cmd, out)
		},
	}
	all.Flags().BoolVar(&unassigned, "unassigned", false, "only tasks not planned for a day")
	list.AddCommand(all)

	list.AddCommand(&cobra.Command{
		Use:   "project <project-id>",
		Short: "Tasks of one project",
		Args:  wrapArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.svc.Project(cmd.Context(), args[0]); err != nil {
				return err
			}
			out, err := a.svc.ByProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flagJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printTasks(cmd.OutOrStdout(), out, a.localNow())
			return nil
		},
	})
	return list
}

func (a *app) printViews(cmd *cobra.Command, out []model.TaskView) error {
	if a.flagJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	printViews(cmd.OutOrStdout(), out, a.localNow())
	return nil
}

func (a *app) localNow() time.Time {
	return a.svc.Now().In(a.svc.Location())
}

func newTaskCmd(a *app) *cobra.Command {
	task := &cobra.Command{
		Use:   "task",
		Short: "Create and change tasks",
	}

	var (
		urgent bool
		due    string
		on     string
	)
	add := &cobra.Command{
		Use:   "add <project-id> <title...>",
		Short: "Create a task in a project",
		Example: `  hikari task add $PROJECT Pay rent --due 2025-07-01 --urgent
  hikari task add $PROJECT Call mum --on tomorrow`,
		Args: wrapArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.svc.Project(ctx, args[0]); err != nil {
				return err
			}
			in := model.NewTask{
				Title:     strings.Join(args[1:], " "),
				ProjectID: args[0],
				Priority:  model.PriorityNormal,
			}
			if urgent {
				in.Priority = model.PriorityUrgent
			}
			if due != "" {
				deadline, err := commands.ParseDeadline(due, a.svc.Today(), a.svc.Location())
				if err != nil {
					return err
				}
				in.Deadline = &deadline
			}
			if on != "" {
				day, err := commands.ResolveDate(on, a.svc.Today())
				if err != nil {
					return err
				}
				in.AssignedFor = &day
			}
			t, err := a.svc.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			return a.printTask(cmd, "created", t)
		},
	}
	add.Flags().BoolVar(&urgent, "urgent", false, "mark the task urgent")
	add.Flags().StringVar(&due, "due", "", "deadline: today, tomorrow, YYYY-MM-DD or YYYY-MM-DD HH:MM")
	add.Flags().StringVar(&on, "on", "", "assign to a day: today, tomorrow, +N or YYYY-MM-DD")

	task.AddCommand(
		add,
		a.taskWriteCmd("advance <task-id>", "Move a task to its next status", 1,
			func(ctx context.Context, args []string) (model.Task, error) {
				return a.svc.Advance(ctx, args[0])
			}),
		a.taskWriteCmd("status <task-id> <todo|in_progress|done>", "Set a task's status", 2,
			func(ctx context.Context, args []string) (model.Task, error) {
				s, err := model.ParseStatus(args[1])
				if err != nil {
					return model.Task{}, err
				}
				return a.svc.SetStatus(ctx, args[0], s)
			}),
		a.taskWriteCmd("assign <task-id> [today|tomorrow|+N|YYYY-MM-DD]", "Plan a task for a day", -1,
			func(ctx context.Context, args []string) (model.Task, error) {
				when := "today"
				if len(args) > 1 {
					when = args[1]
				}
				day, err := commands.ResolveDate(when, a.svc.Today())
				if err != nil {
					return model.Task{}, err
				}
				return a.svc.AssignToDate(ctx, args[0], day)
			}),
		a.taskWriteCmd("unassign <task-id>", "Remove a task from its planned day", 1,
			func(ctx context.Context, args []string) (model.Task, error) {
				return a.svc.Unassign(ctx, args[0])
			}),
	)
	return task
}

// taskWriteCmd builds a subcommand that changes one task. nargs of -1
// accepts the task id plus one optional argument.
func (a *app) taskWriteCmd(use, short string, nargs int, fn func(context.Context, []string) (model.Task, error)) *cobra.Command {
	args := cobra.ExactArgs(nargs)
	if nargs < 0 {
		args = cobra.RangeArgs(1, 2)
	}
	verb := strings.Fields(use)[0]
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  wrapArgs(args),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := fn(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.printTask(cmd, verb, t)
		},
	}
}

func (a *app) printTask(cmd *cobra.Command, verb string, t model.Task) error {
	if a.flagJSON {
		return writeJSON(cmd.OutOrStdout(), t)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, taskLine(t, "", a.localNow()))
	return nil
}
