package cli

import (
	"strings"

	"deskplan/internal/model"

	"github.com/spf13/cobra"
)

func newCrewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crews",
		Short: "Crew commands",
	}
	cmd.AddCommand(newCrewsListCmd(app))
	cmd.AddCommand(newCrewsAddCmd(app))
	cmd.AddCommand(newCrewsMembersCmd(app))
	return cmd
}

func newCrewsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List crews",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Crews})
		},
	}
	return cmd
}

func newCrewsAddCmd(app *App) *cobra.Command {
	var name string
	var members []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a crew",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, id := range members {
				if _, ok := db.FindEmployee(id); !ok {
					return writeErr(cmd, errNotFound("employee", id))
				}
			}

			c := model.Crew{
				ID:        s.NextID(db, "crew"),
				Name:      strings.TrimSpace(name),
				MemberIDs: append([]string{}, members...),
			}
			db.Crews = append(db.Crews, c)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("crew.add", c.ID, c)
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Crew name")
	cmd.Flags().StringSliceVar(&members, "members", nil, "Employee ids, lead first")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCrewsMembersCmd(app *App) *cobra.Command {
	var add, remove []string

	cmd := &cobra.Command{
		Use:   "members <crew-id>",
		Short: "Add or remove crew members (order is preserved, lead first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, ok := db.FindCrew(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("crew", args[0]))
			}

			for _, id := range remove {
				for i, m := range c.MemberIDs {
					if m == id {
						c.MemberIDs = append(c.MemberIDs[:i], c.MemberIDs[i+1:]...)
						break
					}
				}
			}
			for _, id := range add {
				if _, ok := db.FindEmployee(id); !ok {
					return writeErr(cmd, errNotFound("employee", id))
				}
				dup := false
				for _, m := range c.MemberIDs {
					if m == id {
						dup = true
						break
					}
				}
				if !dup {
					c.MemberIDs = append(c.MemberIDs, id)
				}
			}

			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("crew.members", c.ID, c)
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringSliceVar(&add, "add", nil, "Employee ids to append")
	cmd.Flags().StringSliceVar(&remove, "remove", nil, "Employee ids to remove")
	return cmd
}
