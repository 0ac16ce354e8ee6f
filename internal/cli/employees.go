package cli

import (
	"strings"

	"deskplan/internal/model"

	"github.com/spf13/cobra"
)

func newEmployeesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Employee commands",
	}
	cmd.AddCommand(newEmployeesListCmd(app))
	cmd.AddCommand(newEmployeesAddCmd(app))
	cmd.AddCommand(newEmployeesRmCmd(app))
	return cmd
}

func newEmployeesListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := db.Employees
			if !all {
				out = nil
				for _, e := range db.Employees {
					if !e.Archived {
						out = append(out, e)
					}
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived employees")
	return cmd
}

func newEmployeesAddCmd(app *App) *cobra.Command {
	var name, role, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			e := model.Employee{
				ID:    s.NextID(db, "emp"),
				Name:  strings.TrimSpace(name),
				Role:  strings.TrimSpace(role),
				Email: strings.TrimSpace(email),
			}
			db.Employees = append(db.Employees, e)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("employee.add", e.ID, e)
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Employee name")
	cmd.Flags().StringVar(&role, "role", "", "Role label")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newEmployeesRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Archive an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			e, ok := db.FindEmployee(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("employee", args[0]))
			}
			e.Archived = true
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("employee.rm", e.ID, e)
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}
	return cmd
}
