package cli

import (
	"strings"

	"deskplan/internal/model"

	"github.com/spf13/cobra"
)

func newClientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Client commands",
	}
	cmd.AddCommand(newClientsListCmd(app))
	cmd.AddCommand(newClientsAddCmd(app))
	cmd.AddCommand(newClientsLocationsCmd(app))
	return cmd
}

func newClientsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Clients})
		},
	}
	return cmd
}

func newClientsAddCmd(app *App) *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			c := model.Client{
				ID:    s.NextID(db, "client"),
				Name:  strings.TrimSpace(name),
				Email: strings.TrimSpace(email),
				Phone: strings.TrimSpace(phone),
			}
			db.Clients = append(db.Clients, c)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("client.add", c.ID, c)
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Client name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newClientsLocationsCmd(app *App) *cobra.Command {
	var label, address string

	cmd := &cobra.Command{
		Use:   "locations <client-id>",
		Short: "List a client's locations, or add one with --label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, ok := db.FindClient(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("client", args[0]))
			}

			if strings.TrimSpace(label) == "" {
				var out []model.ClientLocation
				for _, l := range db.ClientLocations {
					if l.ClientID == c.ID {
						out = append(out, l)
					}
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			}

			l := model.ClientLocation{
				ID:       s.NextID(db, "loc"),
				ClientID: c.ID,
				Label:    strings.TrimSpace(label),
				Address:  strings.TrimSpace(address),
			}
			db.ClientLocations = append(db.ClientLocations, l)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("client.location.add", l.ID, l)
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Location label (adds a location when set)")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	return cmd
}
