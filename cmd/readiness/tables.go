// cmd/readiness/tables.go
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/app"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
)

func newTablesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "tables [majors|institutions]",
		Short:     "Print the loaded reference tables",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"majors", "institutions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			catalog, pg, err := app.OpenCatalog(cmd.Context(), cfg, root.logger())
			if err != nil {
				return err
			}
			defer pg.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reference: %s\n\n", catalog.Version())
			which := ""
			if len(args) == 1 {
				which = args[0]
			}
			if which == "" || which == "majors" {
				printMajors(out, catalog)
			}
			if which == "" {
				fmt.Fprintln(out)
			}
			if which == "" || which == "institutions" {
				printInstitutions(out, catalog)
			}
			return nil
		},
	}
}

func printMajors(out io.Writer, catalog *reference.Catalog) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"MAJOR"}
	for _, s := range models.AllSubtests() {
		header = append(header, string(s))
	}
	header = append(header, "ALTERNATIVES")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, major := range catalog.Majors() {
		row := []string{major}
		weights := catalog.WeightsFor(major)
		for _, s := range models.AllSubtests() {
			row = append(row, fmt.Sprintf("%.0f%%", weights[s]*100))
		}
		row = append(row, strings.Join(catalog.AlternativesFor(major), ", "))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func printInstitutions(out io.Writer, catalog *reference.Catalog) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTITUTION\tTIER\tMIN\tMAX\tLABEL")
	for _, name := range catalog.Institutions() {
		b := catalog.InstitutionBand(name)
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%.0f\t%s\n", name, b.Tier, b.Min, b.Max, b.Label)
	}
	tw.Flush()
}
