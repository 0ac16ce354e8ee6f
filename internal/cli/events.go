package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var entityID string
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the workspace event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := s.ReadEvents(entityID, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}

	cmd.Flags().StringVar(&entityID, "entity", "", "Only events for this entity id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Max events (most recent)")
	return cmd
}
