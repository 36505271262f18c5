package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/gridops/gridassess/internal/export"
	"github.com/gridops/gridassess/internal/ingest"
)

func importCmd() *cobra.Command {
	var filePath string
	var mappingPath string

	c := &cobra.Command{
		Use:   "import",
		Short: "Import leaders and assessments from a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, f.Close())
			}()

			table, err := ingest.ReadFile(filePath, f)
			if err != nil {
				return err
			}

			mapping := ingest.AutoMapping(table.Header)
			if mappingPath != "" {
				b, err := os.ReadFile(mappingPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(b, &mapping); err != nil {
					return fmt.Errorf("parse mapping %s: %w", mappingPath, err)
				}
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, st.Close())
			}()

			if err := st.InitSchema(); err != nil {
				return err
			}

			res, err := ingest.NewImporter(st, a.logger).Import(table, mapping)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d assessments for %d leaders (%d rows skipped)\n",
				res.Imported, res.Leaders, res.Skipped)
			for _, msg := range res.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&filePath, "file", "f", "", "file to import (required)")
	c.Flags().StringVarP(&mappingPath, "mapping", "m", "", "JSON column mapping (default: auto-map by column name)")
	_ = c.MarkFlagRequired("file")
	return c
}

func exportCmd() *cobra.Command {
	var leaderName string
	var format string
	var outPath string

	c := &cobra.Command{
		Use:   "export",
		Short: "Export assessments to a CSV or XLSX file",
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

			var leaderID int64
			if leaderName != "" {
				leader, err := st.LeaderByName(leaderName)
				if err != nil {
					return fmt.Errorf("leader %q: %w", leaderName, err)
				}
				leaderID = leader.ID
			}

			rows, err := st.Joined(leaderID)
			if err != nil {
				return err
			}

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, out.Close())
			}()

			switch format {
			case "csv":
				err = export.CSV(out, rows)
			case "xlsx":
				err = export.XLSX(out, rows)
			default:
				return fmt.Errorf("unsupported format %q: want csv or xlsx", format)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), outPath)
			return nil
		},
	}

	c.Flags().StringVar(&leaderName, "leader", "", "restrict to one leader by name (default: all)")
	c.Flags().StringVar(&format, "format", "csv", "output format: csv|xlsx")
	c.Flags().StringVarP(&outPath, "out", "o", "assessment_data.csv", "output file")
	return c
}
