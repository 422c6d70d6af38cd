package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/hikari/internal/model"
)

func newProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "Print the project tree",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			forest, err := a.svc.Projects(cmd.Context())
			if err != nil {
				return err
			}
			if a.flagJSON {
				return writeJSON(cmd.OutOrStdout(), forest)
			}
			printTree(cmd.OutOrStdout(), forest)
			return nil
		},
	}
}

func newProjectCmd(a *app) *cobra.Command {
	project := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var parent string
	add := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a project, optionally under --parent",
		Example: `  hikari project add Home
  hikari project add Kitchen --parent 0190f0c2-...`,
		Args: wrapArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			var (
				p   model.Project
				err error
			)
			if parent == "" {
				p, err = a.svc.CreateProject(cmd.Context(), title)
			} else {
				if _, err := a.svc.Project(cmd.Context(), parent); err != nil {
					return err
				}
				p, err = a.svc.CreateSubproject(cmd.Context(), title, parent)
			}
			if err != nil {
				return err
			}
			if a.flagJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created project %s  %s\n", p.Title, p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&parent, "parent", "", "parent project id")

	project.AddCommand(add)
	return project
}
