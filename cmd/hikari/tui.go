package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/hikari/internal/logging"
	"github.com/sandeepkv93/hikari/internal/scheduler"
	"github.com/sandeepkv93/hikari/internal/tasks"
	"github.com/sandeepkv93/hikari/internal/update"
	"github.com/sandeepkv93/hikari/internal/workspace"
)

// runTUI starts the terminal UI. Logging moves to a file so it never draws
// over the screen.
func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	logger, closer, err := logging.OpenFile(a.cfg.Log.File, a.cfg.Log.Level, a.cfg.Log.Format)
	if err != nil {
		return err
	}
	defer closer.Close()

	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}
	svc := tasks.NewService(a.repo,
		tasks.WithClock(a.now),
		tasks.WithLocation(loc),
		tasks.WithLogger(logger),
	)

	var engine *scheduler.Engine
	if a.cfg.Alerts.Enabled {
		engine = scheduler.NewEngine(a.cfg.Alerts.Buffer)
		engine.Start()
		defer engine.Stop()
	}

	m := update.NewModel(update.Options{
		Workspace: workspace.New(svc),
		Clock:     svc,
		Scheduler: engine,
		AlertLead: a.cfg.Alerts.Lead,
		Logger:    logger,
	})
	logger.Info("starting terminal ui", "driver", a.cfg.Database.Driver)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
