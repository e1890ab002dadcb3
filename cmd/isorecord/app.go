package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dlovans/isorecord/internal/config"
	"github.com/dlovans/isorecord/internal/logger"
	"github.com/dlovans/isorecord/pkg/catalogue"
	"github.com/dlovans/isorecord/pkg/record"
	"github.com/dlovans/isorecord/pkg/validation"
)

// App holds what every command shares: configuration, logger, catalogue and validator.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	cat       *catalogue.Catalogue
	validator *validation.Validator
	registry  *prometheus.Registry
}

// NewApp loads the catalogue and compiles the record schema named by cfg.
// Logs are written to logOut.
func NewApp(cfg *config.Config, logOut io.Writer) (*App, error) {
	log := logger.New(cfg.Log, logOut)

	cat, err := loadCatalogue(cfg.Catalogue)
	if err != nil {
		return nil, err
	}

	schema := validation.RecordSchema()
	if cfg.Validation.SchemaPath != "" {
		schema, err = os.ReadFile(cfg.Validation.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	v, err := validation.New(schema,
		validation.WithLogger(log),
		validation.WithMetrics(validation.NewMetrics(registry)),
	)
	if err != nil {
		return nil, err
	}

	log.Debug("app ready", "catalogue_dir", cfg.Catalogue.Dir, "schema_path", cfg.Validation.SchemaPath)

	return &App{
		cfg:       cfg,
		logger:    log,
		cat:       cat,
		validator: v,
		registry:  registry,
	}, nil
}

func loadCatalogue(cfg config.CatalogueConfig) (*catalogue.Catalogue, error) {
	var (
		cat *catalogue.Catalogue
		err error
	)
	if cfg.Dir == "" {
		cat, err = catalogue.Default()
	} else {
		cat, err = catalogue.Load(os.DirFS(cfg.Dir))
	}
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	if len(cfg.Settings) > 0 {
		cat = cat.WithSettings(cfg.Settings)
	}
	return cat, nil
}

// assembler checks the catalogue settings and builds an assembler stamped with now.
func (a *App) assembler(now time.Time) (*record.Assembler, error) {
	s, err := a.cat.Settings()
	if err != nil {
		return nil, err
	}
	return record.NewAssembler(now, a.cat, s)
}

// writeMetrics writes validation metrics to the configured textfile, if any.
func (a *App) writeMetrics() error {
	if a.cfg.Metrics.File == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.Metrics.File, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func parseResourceType(s string) (record.ResourceType, error) {
	switch rt := record.ResourceType(s); rt {
	case record.Collection, record.Dataset, record.Product:
		return rt, nil
	default:
		return "", fmt.Errorf("unknown resource type %q (want collection, dataset or product)", s)
	}
}

func writeJSON(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func writeRecord(w io.Writer, o record.Object) error {
	raw, err := record.Marshal(o)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
