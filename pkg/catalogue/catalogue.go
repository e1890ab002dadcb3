package catalogue

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

//go:embed data/*.json
var embedded embed.FS

// ErrInvalidCatalogue is returned when a catalogue table cannot be decoded or fails its checks.
var ErrInvalidCatalogue = errors.New("invalid catalogue")

// entry is implemented by every catalogue record type.
type entry interface {
	key() string
	check() error
}

// table is an ordered, slug keyed set of catalogue records.
type table[T entry] struct {
	order []string
	items map[string]T
}

func (t table[T]) get(slug string) (T, bool) {
	v, ok := t.items[slug]
	return v, ok
}

// list returns records in file order.
func (t table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, slug := range t.order {
		out = append(out, t.items[slug])
	}
	return out
}

// Catalogue is an immutable set of reference data tables.
// Lookups by an unknown slug return false rather than an error; callers decide
// whether a miss is fatal.
type Catalogue struct {
	formats       table[Format]
	licences      table[Licence]
	organisations table[Organisation]
	services      table[Service]
	projections   table[Projection]
	individuals   table[Individual]
	collections   table[Collection]
	series        table[Series]
	keywords      table[KeywordSet]
	extents       table[Extent]
	ideas         table[Idea]
	sizes         table[PhysicalSize]
	profiles      table[DomainConsistency]
	restrictions  table[AccessRestriction]
	settings      map[string]string
}

var loadDefault = sync.OnceValues(func() (*Catalogue, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
})

// Default returns the embedded catalogue. It is decoded once per process.
func Default() (*Catalogue, error) {
	return loadDefault()
}

// MustDefault is like Default but panics if the embedded data is invalid.
func MustDefault() *Catalogue {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads every table from fsys. File names match the embedded data directory
// (formats.json, licences.json, ...). All tables are required.
func Load(fsys fs.FS) (*Catalogue, error) {
	c := &Catalogue{}
	var err error

	if c.formats, err = loadTable[Format](fsys, "formats.json"); err != nil {
		return nil, err
	}
	if c.licences, err = loadTable[Licence](fsys, "licences.json"); err != nil {
		return nil, err
	}
	if c.organisations, err = loadTable[Organisation](fsys, "organisations.json"); err != nil {
		return nil, err
	}
	if c.services, err = loadTable[Service](fsys, "services.json"); err != nil {
		return nil, err
	}
	if c.projections, err = loadTable[Projection](fsys, "projections.json"); err != nil {
		return nil, err
	}
	if c.individuals, err = loadTable[Individual](fsys, "individuals.json"); err != nil {
		return nil, err
	}
	if c.collections, err = loadTable[Collection](fsys, "collections.json"); err != nil {
		return nil, err
	}
	if c.series, err = loadTable[Series](fsys, "series.json"); err != nil {
		return nil, err
	}
	if c.keywords, err = loadTable[KeywordSet](fsys, "keywords.json"); err != nil {
		return nil, err
	}
	if c.extents, err = loadTable[Extent](fsys, "extents.json"); err != nil {
		return nil, err
	}
	if c.ideas, err = loadTable[Idea](fsys, "ideas.json"); err != nil {
		return nil, err
	}
	if c.sizes, err = loadTable[PhysicalSize](fsys, "physical_sizes.json"); err != nil {
		return nil, err
	}
	if c.profiles, err = loadTable[DomainConsistency](fsys, "domain_consistency.json"); err != nil {
		return nil, err
	}
	if c.restrictions, err = loadTable[AccessRestriction](fsys, "access_restrictions.json"); err != nil {
		return nil, err
	}

	raw, err := fs.ReadFile(fsys, "settings.json")
	if err != nil {
		return nil, fmt.Errorf("%w: settings.json: %v", ErrInvalidCatalogue, err)
	}
	if err := strictDecode(raw, &c.settings); err != nil {
		return nil, fmt.Errorf("%w: settings.json: %v", ErrInvalidCatalogue, err)
	}

	return c, nil
}

func loadTable[T entry](fsys fs.FS, name string) (table[T], error) {
	t := table[T]{items: map[string]T{}}

	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return t, fmt.Errorf("%w: %s: %v", ErrInvalidCatalogue, name, err)
	}

	var records []T
	if err := strictDecode(raw, &records); err != nil {
		return t, fmt.Errorf("%w: %s: %v", ErrInvalidCatalogue, name, err)
	}

	for i, r := range records {
		slug := r.key()
		if slug == "" {
			return t, fmt.Errorf("%w: %s: record %d has no slug", ErrInvalidCatalogue, name, i)
		}
		if _, dup := t.items[slug]; dup {
			return t, fmt.Errorf("%w: %s: duplicate slug %q", ErrInvalidCatalogue, name, slug)
		}
		if err := r.check(); err != nil {
			return t, fmt.Errorf("%w: %s: %q: %v", ErrInvalidCatalogue, name, slug, err)
		}
		t.items[slug] = r
		t.order = append(t.order, slug)
	}
	return t, nil
}

// strictDecode rejects unknown fields and trailing data.
func strictDecode(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}

// Format returns the format with the given slug.
func (c *Catalogue) Format(slug string) (Format, bool) { return c.formats.get(slug) }

// Licence returns the licence with the given slug.
func (c *Catalogue) Licence(slug string) (Licence, bool) { return c.licences.get(slug) }

// Organisation returns the organisation with the given slug.
func (c *Catalogue) Organisation(slug string) (Organisation, bool) {
	return c.organisations.get(slug)
}

// Service returns the service with the given slug.
func (c *Catalogue) Service(slug string) (Service, bool) { return c.services.get(slug) }

// Projection returns the projection with the given slug.
func (c *Catalogue) Projection(slug string) (Projection, bool) { return c.projections.get(slug) }

// Individual returns the individual with the given slug.
func (c *Catalogue) Individual(slug string) (Individual, bool) { return c.individuals.get(slug) }

// Collection returns the collection with the given slug.
func (c *Catalogue) Collection(slug string) (Collection, bool) { return c.collections.get(slug) }

// Series returns the map series with the given slug.
func (c *Catalogue) Series(slug string) (Series, bool) { return c.series.get(slug) }

// KeywordSet returns the keyword set with the given slug.
func (c *Catalogue) KeywordSet(slug string) (KeywordSet, bool) { return c.keywords.get(slug) }

// Extent returns the well known extent with the given slug.
func (c *Catalogue) Extent(slug string) (Extent, bool) { return c.extents.get(slug) }

// Idea returns the idea with the given slug.
func (c *Catalogue) Idea(slug string) (Idea, bool) { return c.ideas.get(slug) }

// PhysicalSize returns the paper size with the given slug.
func (c *Catalogue) PhysicalSize(slug string) (PhysicalSize, bool) { return c.sizes.get(slug) }

// DomainConsistency returns the profile with the given slug.
func (c *Catalogue) DomainConsistency(slug string) (DomainConsistency, bool) {
	return c.profiles.get(slug)
}

// AccessRestriction returns the access restriction with the given slug.
func (c *Catalogue) AccessRestriction(slug string) (AccessRestriction, bool) {
	return c.restrictions.get(slug)
}

// Setting returns a raw setting value.
func (c *Catalogue) Setting(key string) (string, bool) {
	v, ok := c.settings[key]
	return v, ok
}

func (c *Catalogue) Formats() []Format { return c.formats.list() }
func (c *Catalogue) Licences() []Licence { return c.licences.list() }
func (c *Catalogue) Organisations() []Organisation { return c.organisations.list() }
func (c *Catalogue) Services() []Service { return c.services.list() }
func (c *Catalogue) Projections() []Projection { return c.projections.list() }
func (c *Catalogue) Individuals() []Individual { return c.individuals.list() }
func (c *Catalogue) Collections() []Collection { return c.collections.list() }
func (c *Catalogue) AllSeries() []Series { return c.series.list() }
func (c *Catalogue) KeywordSets() []KeywordSet { return c.keywords.list() }
func (c *Catalogue) Extents() []Extent { return c.extents.list() }
func (c *Catalogue) Ideas() []Idea { return c.ideas.list() }
func (c *Catalogue) PhysicalSizes() []PhysicalSize { return c.sizes.list() }
func (c *Catalogue) DomainConsistencies() []DomainConsistency { return c.profiles.list() }
func (c *Catalogue) AccessRestrictions() []AccessRestriction { return c.restrictions.list() }

// SettingKeys returns setting keys in sorted order.
func (c *Catalogue) SettingKeys() []string {
	keys := make([]string, 0, len(c.settings))
	for k := range c.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatByExtension returns the first format, in catalogue order, listing ext.
// ext includes the leading dot.
func (c *Catalogue) FormatByExtension(ext string) (Format, bool) {
	for _, f := range c.formats.list() {
		for _, e := range f.Extensions {
			if e == ext {
				return f, true
			}
		}
	}
	return Format{}, false
}

// FormatByType returns the first format, in catalogue order, listing mediaType.
func (c *Catalogue) FormatByType(mediaType string) (Format, bool) {
	if mediaType == "" {
		return Format{}, false
	}
	for _, f := range c.formats.list() {
		for _, t := range f.MediaTypes {
			if t == mediaType {
				return f, true
			}
		}
	}
	return Format{}, false
}

// AllFormatExtensions flattens the extensions of every format.
// An extension claimed by more than one format appears more than once.
func (c *Catalogue) AllFormatExtensions() []string {
	var out []string
	for _, f := range c.formats.list() {
		out = append(out, f.Extensions...)
	}
	return out
}

// LicencesFiltered returns licences whose openness matches open.
func (c *Catalogue) LicencesFiltered(open bool) []Licence {
	var out []Licence
	for _, l := range c.licences.list() {
		if l.Open == open {
			out = append(out, l)
		}
	}
	return out
}
