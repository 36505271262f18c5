package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridops/gridassess/internal/auth"
)

func addUserCmd() *cobra.Command {
	var username, name, email, password string

	c := &cobra.Command{
		Use:   "adduser",
		Short: "Add a login to the credentials file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			file, err := auth.LoadFile(a.cfg.AuthFile)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				// First user: start a fresh credentials file.
				file = auth.File{
					Cookie: auth.Cookie{
						Name:       "grid_assessment_auth",
						Key:        uuid.NewString(),
						ExpiryDays: 30,
					},
				}
			}

			if err := file.AddUser(username, name, email, password); err != nil {
				return err
			}
			if err := file.Save(a.cfg.AuthFile); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %s added to %s\n", username, a.cfg.AuthFile)
			return nil
		},
	}

	c.Flags().StringVarP(&username, "username", "u", "", "login name (required)")
	c.Flags().StringVarP(&name, "name", "n", "", "display name")
	c.Flags().StringVarP(&email, "email", "e", "", "email address")
	c.Flags().StringVarP(&password, "password", "p", "", "password (required)")
	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("password")
	return c
}
