package cli

import (
	"fmt"
	"os"
	"strings"

	"deskplan/internal/format"
	"deskplan/internal/schedule"
	"deskplan/internal/store"
	"deskplan/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "deskplan",
		Short:        "Office dashboard: drag-and-drop scheduling for tasks, people and crews",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  deskplan

  # Scriptable commands
  deskplan tasks list --date 2025-06-01
  deskplan tasks move task-abc 2025-06-03
  deskplan conflicts --date 2025-06-01
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DESKPLAN_DIR", ""), "Path to workspace dir (advanced: overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("DESKPLAN_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DESKPLAN_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newEmployeesCmd(app))
	cmd.AddCommand(newCrewsCmd(app))
	cmd.AddCommand(newClientsCmd(app))
	cmd.AddCommand(newConflictsCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s, db)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		// Workspace-first resolution:
		// 1) --workspace
		// 2) ~/.deskplan/config.json currentWorkspace
		// 3) the implicit "default" workspace
		// 4) project-local .deskplan discovery
		if app.Workspace == "" {
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
				app.Workspace = cfg.CurrentWorkspace
			}
		}
		if app.Workspace == "" {
			if cwd, err := os.Getwd(); err == nil {
				if found, ok := store.DiscoverDir(cwd); ok {
					dir = found
				}
			}
		}
		if dir == "" {
			if app.Workspace == "" {
				app.Workspace = "default"
			}
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return nil, store.Store{}, err
			}
			dir = d
		}
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, s, err
	}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// openEngine loads the workspace and stands up the schedule engine over its
// task collection. The returned syncer has already pulled the external tasks
// into the canonical store.
func openEngine(app *App) (*store.DB, store.Store, *schedule.Store, *schedule.Syncer, error) {
	db, s, err := loadDB(app)
	if err != nil {
		return nil, store.Store{}, nil, nil, err
	}
	sched := schedule.NewStore()
	syncer := schedule.NewSyncer(sched, store.Collection{DB: db})
	syncer.SyncIn()
	return db, s, sched, syncer, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
