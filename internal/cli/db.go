package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, st.Close())
			}()

			return st.InitSchema()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade an existing database to the current schema",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, st.Close())
			}()

			return st.Migrate()
		},
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the database file into the backup directory",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, st.Close())
			}()

			path, err := st.Backup(a.cfg.BackupDir, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	var days int

	c := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete assessments whose import date fell out of the retention window",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			if days == 0 {
				days = a.cfg.RetentionDays
			}
			if days < 1 {
				return fmt.Errorf("retention must be at least 1 day, got %d", days)
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, st.Close())
			}()

			n, err := st.DeleteExpired(days, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d assessments older than %d days\n", n, days)
			return nil
		},
	}

	c.Flags().IntVar(&days, "days", 0, "retention in days (default: configured retention)")
	return c
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Dump the stored assessments",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, st.Close())
			}()

			rows, err := st.Joined(0)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no assessments stored")
				return nil
			}

			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d %s (%s) %s total=%.2f\n",
					row.ID, row.Name, row.Area, row.Date, row.TotalScore)
			}
			return nil
		},
	}
}
