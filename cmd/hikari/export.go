package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/hikari/internal/model"
)

type exportDoc struct {
	ExportedAt time.Time            `json:"exported_at" toml:"exported_at"`
	Projects   []*model.ProjectNode `json:"projects" toml:"projects"`
	Tasks      []model.Task         `json:"tasks" toml:"tasks"`
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every project and task as JSON or TOML",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "toml" {
				return usagef("unknown export format %q (want json or toml)", format)
			}
			forest, err := a.svc.Projects(cmd.Context())
			if err != nil {
				return err
			}
			views, err := a.svc.AllTasks(cmd.Context())
			if err != nil {
				return err
			}
			doc := exportDoc{
				ExportedAt: a.svc.Now().UTC(),
				Projects:   forest,
				Tasks:      make([]model.Task, 0, len(views)),
			}
			for _, v := range views {
				doc.Tasks = append(doc.Tasks, v.Task)
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := encodeExport(w, format, doc); err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			a.log.Debug("exported", "format", format, "projects", len(forest), "tasks", len(doc.Tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func encodeExport(w io.Writer, format string, doc exportDoc) error {
	if format == "toml" {
		return toml.NewEncoder(w).Encode(doc)
	}
	return writeJSON(w, doc)
}
