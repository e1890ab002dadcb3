package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dlovans/isorecord/pkg/record"
)

func newCmd(app *App) *cobra.Command {
	var resourceType string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Print an empty record with a new file identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fragments := []record.Fragment{
				record.FileIdentifierFragment(record.NewFileIdentifier()),
			}
			if resourceType != "" {
				rt, err := parseResourceType(resourceType)
				if err != nil {
					return err
				}
				fragments = append(fragments, record.ResourceTypeFragment(rt))
			}

			asm, err := app.assembler(time.Now())
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), asm.Assemble(fragments...))
		},
	}

	cmd.Flags().StringVarP(&resourceType, "type", "t", "", "Resource type (collection, dataset, product)")
	return cmd
}
