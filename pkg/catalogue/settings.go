package catalogue

import (
	"fmt"
	"maps"
	"strings"
)

// Settings are the fixed values that steer record building: which organisations act as
// distributor and metadata contact, which collections identify map series, and the
// base URLs used for identifiers. A Settings value is passed explicitly to every
// function that needs one.
type Settings struct {
	SchemaURL               string // $schema of assembled records
	ItemsBaseURL            string // Prefix for data catalogue item URLs, with trailing slash
	OpenDatasetDistributor  string // Organisation slug distributing open datasets
	DefaultDistributor      string // Organisation slug distributing everything else
	MetadataContact         string // Organisation slug used as the metadata point of contact
	DomainConsistency       string // Profile slug every record declares
	CollectionGeneralMaps   string // Collection slug marking general interest maps
	CollectionPublishedMaps string // Collection slug marking published maps
	SiteBaseURL             string // Prefix for alias URLs, with trailing slash
}

// setting keys in settings.json
const (
	keySchemaURL               = "record_schema_url"
	keyItemsBaseURL            = "items_base_url"
	keyOpenDatasetDistributor  = "distributor_open_dataset"
	keyDefaultDistributor      = "distributor_default"
	keyMetadataContact         = "metadata_contact"
	keyDomainConsistency       = "domain_consistency"
	keyCollectionGeneralMaps   = "collection_general_maps"
	keyCollectionPublishedMaps = "collection_published_maps"
	keySiteBaseURL             = "site_base_url"
)

// Settings builds typed settings from the catalogue's settings table and checks that
// every referenced slug resolves.
func (c *Catalogue) Settings() (Settings, error) {
	s := Settings{
		SchemaURL:               c.settings[keySchemaURL],
		ItemsBaseURL:            c.settings[keyItemsBaseURL],
		OpenDatasetDistributor:  c.settings[keyOpenDatasetDistributor],
		DefaultDistributor:      c.settings[keyDefaultDistributor],
		MetadataContact:         c.settings[keyMetadataContact],
		DomainConsistency:       c.settings[keyDomainConsistency],
		CollectionGeneralMaps:   c.settings[keyCollectionGeneralMaps],
		CollectionPublishedMaps: c.settings[keyCollectionPublishedMaps],
		SiteBaseURL:             c.settings[keySiteBaseURL],
	}
	if err := c.CheckSettings(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// MustSettings is like Settings but panics on error.
func (c *Catalogue) MustSettings() Settings {
	s, err := c.Settings()
	if err != nil {
		panic(err)
	}
	return s
}

// CheckSettings reports the first setting that is empty or names a slug missing from c.
func (c *Catalogue) CheckSettings(s Settings) error {
	if err := required(
		"schema url", s.SchemaURL,
		"items base url", s.ItemsBaseURL,
		"site base url", s.SiteBaseURL,
	); err != nil {
		return fmt.Errorf("%w: settings: %v", ErrInvalidCatalogue, err)
	}
	for _, u := range []string{s.ItemsBaseURL, s.SiteBaseURL} {
		if !strings.HasSuffix(u, "/") {
			return fmt.Errorf("%w: settings: base url %q must end with '/'", ErrInvalidCatalogue, u)
		}
	}

	orgs := map[string]string{
		"open dataset distributor": s.OpenDatasetDistributor,
		"default distributor":      s.DefaultDistributor,
		"metadata contact":         s.MetadataContact,
	}
	for _, name := range []string{"open dataset distributor", "default distributor", "metadata contact"} {
		if _, ok := c.Organisation(orgs[name]); !ok {
			return fmt.Errorf("%w: settings: %s %q is not a known organisation", ErrInvalidCatalogue, name, orgs[name])
		}
	}
	if _, ok := c.DomainConsistency(s.DomainConsistency); !ok {
		return fmt.Errorf("%w: settings: unknown domain consistency %q", ErrInvalidCatalogue, s.DomainConsistency)
	}
	for _, slug := range []string{s.CollectionGeneralMaps, s.CollectionPublishedMaps} {
		if _, ok := c.Collection(slug); !ok {
			return fmt.Errorf("%w: settings: unknown collection %q", ErrInvalidCatalogue, slug)
		}
	}
	return nil
}

// WithSettings returns a copy of c with the given settings table entries replaced,
// e.g. {"items_base_url": "https://staging.example.com/items/"}. Tables are shared.
// The result is not checked; call Settings on it.
func (c *Catalogue) WithSettings(overrides map[string]string) *Catalogue {
	out := *c
	out.settings = maps.Clone(c.settings)
	if out.settings == nil {
		out.settings = map[string]string{}
	}
	maps.Copy(out.settings, overrides)
	return &out
}
