package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskdash/internal/config"
	"taskdash/internal/storage"
	"taskdash/internal/tasks"
	"taskdash/internal/ui"
)

type App struct {
	ConfigPath string
	DBPath     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdash",
		Short:        "Task dashboard (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskdash

  # Scriptable commands
  taskdash add "Write report" --priority high --due 2024-06-01
  taskdash ls --filter active --search report
  taskdash done 3f2a
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log.SetOutput(cmd.ErrOrStderr())
		log.SetFlags(0)
		log.SetPrefix("taskdash: ")
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TASKDASH_CONFIG", ""), "Path to config.toml")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("TASKDASH_DB", ""), "Path to the SQLite database (overrides db_path)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newStarCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newPriorityCmd(app))
	cmd.AddCommand(newDueCmd(app))

	return cmd
}

func (app *App) loadConfig() (config.Config, error) {
	path := app.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if app.DBPath != "" {
		cfg.DBPath = app.DBPath
	}
	return cfg, nil
}

func runTUI(app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "taskdash")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	return ui.Run(tasks.NewBoard(), store, cfg)
}

// session is one CLI invocation: a board seeded from the database whose
// changes are written back as they happen.
type session struct {
	store       *storage.Store
	board       *tasks.Board
	unsubscribe func()
	errs        []error
}

func openSession(app *App) (*session, error) {
	cfg, err := app.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	initial, err := store.FetchTasks()
	if err != nil {
		store.Close()
		return nil, err
	}

	s := &session{store: store, board: tasks.NewBoard()}
	s.board.Load(initial)
	s.unsubscribe = s.board.Subscribe(func(c tasks.Change) {
		if err := store.Apply(c); err != nil {
			log.Printf("save %s: %v", c.Kind, err)
			s.errs = append(s.errs, err)
		}
	})
	return s, nil
}

func (s *session) close() error {
	s.unsubscribe()
	err := errors.Join(s.errs...)
	if cerr := s.store.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

// withSession runs fn against a fresh session and reports the first of fn's
// error or any write-back failure.
func withSession(app *App, fn func(*session) error) error {
	s, err := openSession(app)
	if err != nil {
		return err
	}
	runErr := fn(s)
	closeErr := s.close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

func (s *session) resolve(ref string) (tasks.Task, error) {
	t, ok, ambiguous := s.board.Items().Lookup(ref)
	if ambiguous {
		return tasks.Task{}, errAmbiguous(ref)
	}
	if !ok {
		return tasks.Task{}, errNotFound(ref)
	}
	return t, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
