package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/dlovans/isorecord/internal/watch"
)

func validateCmd(app *App) *cobra.Command {
	var (
		watchFiles  bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "validate [files or globs...]",
		Short: "Validate records against the record schema",
		Example: `  isorecord validate record.json
  isorecord validate 'records/**/*.json'
  isorecord validate 'records/**/*.json' --watch
  cat record.json | isorecord validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if metricsFile != "" {
				app.cfg.Metrics.File = metricsFile
			}

			if len(args) == 0 {
				if watchFiles {
					return errors.New("--watch needs at least one file or glob")
				}
				input, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				ok := app.validateText(out, "stdin", string(input))
				if err := app.writeMetrics(); err != nil {
					return err
				}
				if !ok {
					return errors.New("record is invalid")
				}
				return nil
			}

			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			failed := 0
			for _, p := range paths {
				if !app.validateFile(out, p) {
					failed++
				}
			}
			if err := app.writeMetrics(); err != nil {
				return err
			}

			if watchFiles {
				return app.watch(cmd.Context(), out, args)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d records invalid", failed, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "Re-validate files when they change")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write validation metrics to this Prometheus textfile")
	return cmd
}

// expandPaths expands globs in order, dropping duplicates. Arguments without glob
// syntax are kept even when missing so that the read error is reported.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			if hasMeta(arg) {
				return nil, fmt.Errorf("no files match %q", arg)
			}
			matches = []string{arg}
		}
		slices.Sort(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func hasMeta(pattern string) bool {
	return slices.ContainsFunc([]rune(pattern), func(r rune) bool {
		return r == '*' || r == '?' || r == '[' || r == '{'
	})
}

// validateFile prints ✓ or ✗ for one record file and reports whether it is valid.
func (a *App) validateFile(out io.Writer, path string) bool {
	input, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "✗ %s: %v\n", path, err)
		return false
	}
	return a.validateText(out, path, string(input))
}

func (a *App) validateText(out io.Writer, name, text string) bool {
	errs, err := a.validator.ValidateRecordText(text)
	if err != nil {
		fmt.Fprintf(out, "✗ %s: %v\n", name, err)
		return false
	}
	if len(errs) > 0 {
		fmt.Fprintf(out, "✗ %s\n", name)
		for _, e := range errs {
			fmt.Fprintf(out, "    %s\n", e)
		}
		a.logger.Info("record invalid", "file", name, "errors", len(errs))
		return false
	}
	fmt.Fprintf(out, "✓ %s\n", name)
	return true
}

// watch re-validates matching files as they change until ctx is done.
func (a *App) watch(ctx context.Context, out io.Writer, patterns []string) error {
	w, err := watch.New(patterns, a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")
	for ev := range w.Events() {
		if ev.Op == watch.OpRemoved {
			a.logger.Info("record removed", "file", ev.Path)
			continue
		}
		a.validateFile(out, ev.Path)
		if err := a.writeMetrics(); err != nil {
			a.logger.Warn("failed to write metrics", "error", err)
		}
	}
	return nil
}
