package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskgrid/internal/app"
	"taskgrid/internal/config"
	"taskgrid/internal/logging"
	"taskgrid/internal/render"
	"taskgrid/internal/storage"
	"taskgrid/internal/ui"
	"taskgrid/internal/view"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type env struct {
	cfg   config.Config
	app   *app.App
	close func()
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "taskgrid",
		Short:        "Terminal task list manager",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(configPath)
			if err != nil {
				return err
			}
			defer e.close()
			if err := ui.Run(e.app, e.cfg); err != nil {
				return fmt.Errorf("error running program: %w", err)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default: $TASKGRID_CONFIG or ~/.config/taskgrid/config.toml)")

	cmd.AddCommand(listCmd(&configPath))
	cmd.AddCommand(exportCmd(&configPath))
	return cmd
}

func listCmd(configPath *string) *cobra.Command {
	var status, category, search string
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks using the same filters as the UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			applyFilterFlags(cmd, e.app, status, category, search, desc)
			fmt.Fprint(cmd.OutOrStdout(), render.Text(e.app.Board()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status filter: all, pending, completed")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only tasks in this category")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Case-insensitive title search")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort by due date descending")
	return cmd
}

func exportCmd(configPath *string) *cobra.Command {
	var out, status, category string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an HTML snapshot of the task board",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			applyFilterFlags(cmd, e.app, status, category, "", false)
			dark := e.app.Theme() == storage.ThemeDark
			board := e.app.Board()
			if out == "" || out == "-" {
				return writeExport(cmd.OutOrStdout(), board, dark)
			}
			return exportFile(out, board, dark)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status filter: all, pending, completed")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only tasks in this category")
	return cmd
}

func exportFile(path string, b render.Board, dark bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return writeExport(f, b, dark)
}

func writeExport(w io.Writer, b render.Board, dark bool) error {
	if err := render.WriteHTML(w, b, dark, time.Now()); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return nil
}

func applyFilterFlags(cmd *cobra.Command, a *app.App, status, category, search string, desc bool) {
	if cmd.Flags().Changed("status") {
		a.SetStatus(view.ParseStatus(status))
	}
	if category != "" {
		a.SetCategory(category)
	}
	if search != "" {
		a.SetQuery(search)
	}
	if desc && a.Filter().SortAsc {
		a.ToggleSort()
	}
}

func setup(configPath string) (*env, error) {
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	filter := view.DefaultFilter()
	filter.Status = view.ParseStatus(cfg.DefaultFilter)
	filter.SortAsc = cfg.SortAscending

	a := app.New(store, app.WithLogger(logger), app.WithFilter(filter))
	a.Load()

	return &env{
		cfg: cfg,
		app: a,
		close: func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Error("error closing database")
			}
			logCloser.Close()
		},
	}, nil
}
