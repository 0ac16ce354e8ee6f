package cli

import (
	"strings"

	"deskplan/internal/model"
	"deskplan/internal/schedule"
	"deskplan/internal/store"

	"github.com/spf13/cobra"
)

func newConflictsCmd(app *App) *cobra.Command {
	var date string
	var id string

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Detect double-booked employees and crews",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, sched, _, err := openEngine(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			all := sched.Assignments()
			if strings.TrimSpace(date) != "" {
				all = sched.On(date)
			}

			if strings.TrimSpace(id) != "" {
				a, ok := sched.Find(id)
				if !ok {
					return writeErr(cmd, errNotFound("task", id))
				}
				return writeOut(cmd, app, map[string]any{
					"data": conflictReport(db, a, schedule.DetectConflicts(a, all)),
				})
			}

			var reports []map[string]any
			seen := map[string]bool{}
			for _, a := range all {
				hits := schedule.DetectConflicts(a, all)
				if len(hits) == 0 || seen[a.ID] {
					continue
				}
				seen[a.ID] = true
				reports = append(reports, conflictReport(db, a, hits))
			}
			return writeOut(cmd, app, map[string]any{"data": reports})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only check this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&id, "id", "", "Only check conflicts against this task")
	return cmd
}

func conflictReport(db *store.DB, a model.Assignment, hits []model.Assignment) map[string]any {
	return map[string]any{
		"task":     a,
		"assignee": db.AssigneeLabel(a.AssigneeID, a.CrewID),
		"with":     hits,
	}
}
