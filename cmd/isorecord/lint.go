package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlovans/isorecord/pkg/lint"
)

func lintCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the reference data catalogue for gaps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := lint.Run(app.cat)
			out := cmd.OutOrStdout()

			if asJSON {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else if len(result.Issues) == 0 {
				fmt.Fprintln(out, "✓ No issues found")
			} else {
				for _, issue := range result.Issues {
					icon := "⚠"
					if issue.Severity == "error" {
						icon = "✗"
					}
					location := ""
					if issue.Field != "" {
						location = fmt.Sprintf(" [%s]", issue.Field)
					}
					if issue.Rule != "" {
						location += fmt.Sprintf(" [rule: %s]", issue.Rule)
					}
					fmt.Fprintf(out, "%s %s%s: %s\n", icon, issue.Severity, location, issue.Message)
				}
			}

			if !result.Valid {
				return errors.New("catalogue has errors")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
