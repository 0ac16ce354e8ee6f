package cli

import (
	"strings"

	"deskplan/internal/model"
	"deskplan/internal/schedule"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally for a single day",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, sched, _, err := openEngine(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := sched.Assignments()
			if strings.TrimSpace(date) != "" {
				out = sched.On(date)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only tasks on this day (YYYY-MM-DD)")
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var (
		title      string
		notes      string
		date       string
		start      string
		end        string
		assigneeID string
		crewID     string
		clientID   string
		locationID string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, sched, _, err := openEngine(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			if assigneeID != "" {
				if _, ok := db.FindEmployee(assigneeID); !ok {
					return writeErr(cmd, errNotFound("employee", assigneeID))
				}
			}
			if crewID != "" {
				if _, ok := db.FindCrew(crewID); !ok {
					return writeErr(cmd, errNotFound("crew", crewID))
				}
			}
			if clientID != "" {
				if _, ok := db.FindClient(clientID); !ok {
					return writeErr(cmd, errNotFound("client", clientID))
				}
			}

			a := model.Assignment{
				ID:    s.NextID(db, "task"),
				Title: strings.TrimSpace(title),
				Notes: notes,
				Date:  date,
			}
			if start != "" {
				a.StartTime = &start
			}
			if end != "" {
				a.EndTime = &end
			}
			if assigneeID != "" {
				a.AssigneeID = &assigneeID
			}
			if crewID != "" {
				a.CrewID = &crewID
			}
			if clientID != "" {
				a.ClientID = &clientID
			}
			if locationID != "" {
				a.LocationID = &locationID
			}

			a = sched.Add(a)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("task.add", a.ID, a)
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&notes, "notes", "", "Task notes (markdown)")
	cmd.Flags().StringVar(&date, "date", "", "Scheduled day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&assigneeID, "assignee", "", "Employee id")
	cmd.Flags().StringVar(&crewID, "crew", "", "Crew id")
	cmd.Flags().StringVar(&clientID, "client", "", "Client id")
	cmd.Flags().StringVar(&locationID, "location", "", "Location id")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle task completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, sched, _, err := openEngine(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, ok := sched.ToggleCompletion(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("task.toggle", a.ID, a)
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}
	return cmd
}

func newTasksMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id> <date>",
		Short: "Reschedule a task to another day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, sched, _, err := openEngine(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, moved := sched.Move(args[0], args[1])
			if !moved {
				// Missing id is an error; a same-day move is a no-op
				// and just echoes the unchanged task.
				if a.ID == "" {
					return writeErr(cmd, errNotFound("task", args[0]))
				}
				return writeOut(cmd, app, map[string]any{"data": a, "moved": false})
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("task.move", a.ID, a)
			return writeOut(cmd, app, map[string]any{"data": a, "moved": true})
		},
	}
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var (
		title      string
		notes      string
		date       string
		start      string
		end        string
		assigneeID string
		crewID     string

		clearTimes    bool
		clearAssignee bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, sched, _, err := openEngine(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var p schedule.Patch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("notes") {
				p.Notes = &notes
			}
			if cmd.Flags().Changed("date") {
				p.Date = &date
			}
			if cmd.Flags().Changed("start") {
				p.StartTime = &start
			}
			if cmd.Flags().Changed("end") {
				p.EndTime = &end
			}
			if cmd.Flags().Changed("assignee") {
				if _, ok := db.FindEmployee(assigneeID); !ok {
					return writeErr(cmd, errNotFound("employee", assigneeID))
				}
				p.AssigneeID = &assigneeID
			}
			if cmd.Flags().Changed("crew") {
				if _, ok := db.FindCrew(crewID); !ok {
					return writeErr(cmd, errNotFound("crew", crewID))
				}
				p.CrewID = &crewID
			}
			p.ClearStartTime = clearTimes
			p.ClearEndTime = clearTimes
			p.ClearAssignee = clearAssignee

			a, ok := sched.Edit(args[0], p)
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("task.edit", a.ID, a)
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes")
	cmd.Flags().StringVar(&date, "date", "", "New day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM)")
	cmd.Flags().StringVar(&assigneeID, "assignee", "", "Reassign to employee id")
	cmd.Flags().StringVar(&crewID, "crew", "", "Reassign to crew id")
	cmd.Flags().BoolVar(&clearTimes, "clear-times", false, "Remove start and end times")
	cmd.Flags().BoolVar(&clearAssignee, "clear-assignee", false, "Remove employee/crew assignment")
	return cmd
}

func newTasksRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, sched, _, err := openEngine(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !sched.Remove(args[0]) {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("task.rm", args[0], nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "removed": true}})
		},
	}
	return cmd
}
