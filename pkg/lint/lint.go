// Package lint provides static checks for reference data catalogues.
// It finds gaps that loading accepts but record builders would trip over later.
package lint

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// Issue represents a problem found in a catalogue.
type Issue struct {
	Severity string `json:"severity"` // "error" or "warning"
	Field    string `json:"field,omitempty"` // table/slug, e.g. "formats/pdf"
	Rule     string `json:"rule,omitempty"`
	Message  string `json:"message"`
}

// Result contains all issues found by the linter.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// RunFS loads a catalogue from fsys and lints it.
// An error means the catalogue could not be loaded at all.
func RunFS(fsys fs.FS) (*Result, error) {
	cat, err := catalogue.Load(fsys)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	return Run(cat), nil
}

// Run checks a loaded catalogue. Errors make the result invalid; warnings do not.
func Run(cat *catalogue.Catalogue) *Result {
	result := &Result{
		Valid:  true,
		Issues: make([]Issue, 0),
	}

	// Check 1: Settings resolve against the catalogue
	s, err := cat.Settings()
	if err != nil {
		result.addError("settings", "settings", err.Error())
	}

	// Check 2: Extensions claimed by more than one format
	claimedBy := make(map[string][]string)
	for _, f := range cat.Formats() {
		for _, ext := range f.Extensions {
			claimedBy[ext] = append(claimedBy[ext], f.Slug)
		}
	}
	exts := make([]string, 0, len(claimedBy))
	for ext := range claimedBy {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		if slugs := claimedBy[ext]; len(slugs) > 1 {
			result.addWarning("formats", "ambiguous-extension", fmt.Sprintf(
				"extension '%s' is claimed by %v; files resolve to '%s'", ext, slugs, slugs[0]))
		}
	}

	// Check 3: Formats that files can never resolve to
	services := make(map[string]bool)
	for _, svc := range cat.Services() {
		services[svc.Slug] = true
	}
	for _, f := range cat.Formats() {
		if len(f.Extensions) == 0 && len(f.MediaTypes) == 0 && !services[f.Slug] {
			result.addWarning(field("formats", f.Slug), "undetectable-format",
				fmt.Sprintf("format '%s' has no extensions, media types or service", f.Slug))
		}
	}

	// Check 4: Services need a format of the same slug
	for _, svc := range cat.Services() {
		if _, ok := cat.Format(svc.Slug); !ok {
			result.addError(field("services", svc.Slug), "service-format",
				fmt.Sprintf("service '%s' has no format with the same slug", svc.Slug))
		}
	}

	// Check 5: Extents
	for _, e := range cat.Extents() {
		if _, ok := cat.Projection(e.Projection); !ok {
			result.addError(field("extents", e.Slug), "extent-projection",
				fmt.Sprintf("extent '%s' uses unknown projection '%s'", e.Slug, e.Projection))
		}
		for _, msg := range checkBoundingBox(e.Geographic.BoundingBox) {
			result.addError(field("extents", e.Slug), "bounding-box", msg)
		}
	}

	// Check 6: Collections are referenced by UUID item identifiers
	for _, c := range cat.Collections() {
		if _, err := uuid.Parse(c.Identifier); err != nil {
			result.addError(field("collections", c.Slug), "collection-identifier",
				fmt.Sprintf("collection '%s' identifier '%s' is not a UUID", c.Slug, c.Identifier))
			continue
		}
		if s.ItemsBaseURL != "" && c.Href != "" && c.Href != s.ItemsBaseURL+c.Identifier {
			result.addWarning(field("collections", c.Slug), "collection-href",
				fmt.Sprintf("collection '%s' href '%s' differs from its item URL", c.Slug, c.Href))
		}
	}

	// Check 7: Contacts without persistent identifiers
	for _, o := range cat.Organisations() {
		if o.ROR == "" {
			result.addWarning(field("organisations", o.Slug), "missing-ror",
				fmt.Sprintf("organisation '%s' has no ROR identifier", o.Slug))
		}
	}
	for _, i := range cat.Individuals() {
		if i.ORCID == "" {
			result.addWarning(field("individuals", i.Slug), "missing-orcid",
				fmt.Sprintf("individual '%s' has no ORCID", i.Slug))
		}
		if !strings.Contains(i.Name, ", ") {
			result.addWarning(field("individuals", i.Slug), "name-format",
				fmt.Sprintf("individual name '%s' is not 'Last, First' and cannot be abbreviated in citations", i.Name))
		}
	}

	// Check 8: Repeated keyword terms
	for _, k := range cat.KeywordSets() {
		seen := make(map[string]bool)
		for _, t := range k.Terms {
			if seen[t.Term] {
				result.addWarning(field("keywords", k.Slug), "duplicate-term",
					fmt.Sprintf("keyword set '%s' repeats term '%s'", k.Slug, t.Term))
			}
			seen[t.Term] = true
		}
	}

	return result
}

func field(table, slug string) string {
	return table + "/" + slug
}

// checkBoundingBox returns a message per out of range coordinate. Inverted
// latitudes are already rejected on load.
func checkBoundingBox(b catalogue.BoundingBox) []string {
	var msgs []string
	for name, v := range map[string]float64{"west_longitude": b.WestLongitude, "east_longitude": b.EastLongitude} {
		if v < -180 || v > 180 {
			msgs = append(msgs, fmt.Sprintf("%s %v is outside -180..180", name, v))
		}
	}
	for name, v := range map[string]float64{"south_latitude": b.SouthLatitude, "north_latitude": b.NorthLatitude} {
		if v < -90 || v > 90 {
			msgs = append(msgs, fmt.Sprintf("%s %v is outside -90..90", name, v))
		}
	}
	sort.Strings(msgs)
	return msgs
}

func (r *Result) addError(field, rule, message string) {
	r.Valid = false
	r.Issues = append(r.Issues, Issue{
		Severity: "error",
		Field:    field,
		Rule:     rule,
		Message:  message,
	})
}

func (r *Result) addWarning(field, rule, message string) {
	r.Issues = append(r.Issues, Issue{
		Severity: "warning",
		Field:    field,
		Rule:     rule,
		Message:  message,
	})
}
