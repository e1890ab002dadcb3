package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dlovans/isorecord/pkg/record"
)

// fragmentFile is the document read by assemble. JSON is accepted as YAML.
//
//	resource_type: product
//	fragments:
//	  - section: title
//	    value: {identification: {title: {value: Cambridge}}}
type fragmentFile struct {
	// Optional. When set, fragments for sections hidden for the type are dropped.
	ResourceType string `yaml:"resource_type"`

	Fragments []struct {
		Section string         `yaml:"section"`
		Value   map[string]any `yaml:"value"`
	} `yaml:"fragments"`
}

func assembleCmd(app *App) *cobra.Command {
	var (
		filePath string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a record from a file of section fragments",
		Example: `  isorecord assemble -f fragments.yaml
  isorecord assemble -f fragments.yaml --validate > record.json
  cat fragments.json | isorecord assemble`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				input []byte
				err   error
			)
			if filePath != "" {
				input, err = os.ReadFile(filePath)
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read fragments: %w", err)
			}

			fragments, rt, err := parseFragments(input)
			if err != nil {
				return err
			}
			if rt != "" {
				fragments = record.VisibleFragments(rt, fragments)
			}

			asm, err := app.assembler(time.Now())
			if err != nil {
				return err
			}
			rec := asm.Assemble(fragments...)
			app.logger.Debug("record assembled", "fragments", len(fragments), "resource_type", rt)

			if validate {
				errs, err := app.validator.ValidateRecord(rec)
				if err != nil {
					return err
				}
				if werr := app.writeMetrics(); werr != nil {
					return werr
				}
				if len(errs) > 0 {
					for _, e := range errs {
						fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", e)
					}
					return fmt.Errorf("assembled record has %d validation errors", len(errs))
				}
			}

			return writeRecord(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Fragments file, YAML or JSON (or use stdin)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate the assembled record and fail if it is invalid")
	return cmd
}

// parseFragments decodes a fragment file. Values are normalised to their JSON form so
// they merge like fragments built in code.
func parseFragments(input []byte) ([]record.Fragment, record.ResourceType, error) {
	var f fragmentFile
	if err := yaml.Unmarshal(input, &f); err != nil {
		return nil, "", fmt.Errorf("parse fragments: %w", err)
	}
	if len(f.Fragments) == 0 {
		return nil, "", errors.New("parse fragments: no fragments")
	}

	var rt record.ResourceType
	if f.ResourceType != "" {
		var err error
		if rt, err = parseResourceType(f.ResourceType); err != nil {
			return nil, "", err
		}
	}

	fragments := make([]record.Fragment, 0, len(f.Fragments))
	for i, raw := range f.Fragments {
		if raw.Section == "" {
			return nil, "", fmt.Errorf("parse fragments: fragment %d has no section", i)
		}
		value, err := record.ToObject(raw.Value)
		if err != nil {
			return nil, "", fmt.Errorf("parse fragments: fragment %d (%s): %w", i, raw.Section, err)
		}
		fragments = append(fragments, record.RawFragment(raw.Section, value))
	}
	return fragments, rt, nil
}
