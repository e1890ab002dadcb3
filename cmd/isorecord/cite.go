package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dlovans/isorecord/pkg/catalogue"
	"github.com/dlovans/isorecord/pkg/record"
)

func citeCmd(app *App) *cobra.Command {
	var (
		templateLabel string
		markdown      bool
	)

	cmd := &cobra.Command{
		Use:   "cite <record.json>",
		Short: "Print the citation for an assembled record",
		Example: `  isorecord cite record.json
  isorecord cite record.json --template "Dataset (MAGIC)" --markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}
			var o record.Object
			if err := json.Unmarshal(raw, &o); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			rec, err := record.Decode(o)
			if err != nil {
				return err
			}

			s, err := app.cat.Settings()
			if err != nil {
				return err
			}

			rt := rec.HierarchyLevel
			licence, _ := record.LicenceOf(rec, app.cat)
			available := record.FilterTemplates(rt, licence.Open)
			tmpl := record.DefaultTemplate(available, recordCollections(app.cat, rec), rt, s)

			if templateLabel != "" {
				t, ok := record.ParseCitationTemplate(templateLabel)
				if !ok || !slices.Contains(available, t) {
					return fmt.Errorf("template %q does not apply to this record, use one of %q", templateLabel, available)
				}
				tmpl = t
			}

			citation, err := record.Cite(rec, tmpl, app.cat, s)
			if err != nil {
				return err
			}
			if markdown {
				ref, err := record.FormatReference(record.PreferredReferenceIdentifier(rec.Identification.Identifiers))
				if err != nil {
					ref = ""
				}
				citation = record.FormatCitationAsMarkdown(citation, ref)
			}

			app.logger.Debug("record cited", "template", tmpl)
			fmt.Fprintln(cmd.OutOrStdout(), citation)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateLabel, "template", "", "Citation template label (defaults by resource type and collection)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Format the citation as Markdown")
	return cmd
}

// recordCollections returns the catalogue collections a record is aggregated into,
// in the record's order.
func recordCollections(cat *catalogue.Catalogue, rec record.Record) []catalogue.Collection {
	var out []catalogue.Collection
	for _, agg := range rec.Identification.Aggregations {
		if agg.InitiativeType != record.InitiativeCollection {
			continue
		}
		for _, c := range cat.Collections() {
			if c.Identifier == agg.Identifier.Identifier {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
