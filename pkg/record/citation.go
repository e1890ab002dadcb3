package record

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// CitationTemplate is a citation style, named by its user facing label.
type CitationTemplate string

const (
	TemplateUnknown                  CitationTemplate = "Unknown"
	TemplateDatasetPdc               CitationTemplate = "Dataset (PDC)"
	TemplateDatasetMagic             CitationTemplate = "Dataset (MAGIC)"
	TemplateProductMapMagicGeneral   CitationTemplate = "Product (Map, MAGIC, General)"
	TemplateProductMapMagicPublished CitationTemplate = "Product (Map, MAGIC, Published)"
)

var templates = []CitationTemplate{
	TemplateUnknown,
	TemplateDatasetPdc,
	TemplateDatasetMagic,
	TemplateProductMapMagicGeneral,
	TemplateProductMapMagicPublished,
}

// ParseCitationTemplate returns the template with the given label.
func ParseCitationTemplate(label string) (CitationTemplate, bool) {
	for _, t := range templates {
		if string(t) == label {
			return t, true
		}
	}
	return TemplateUnknown, false
}

const magicOrganisation = "Mapping and Geographic Information Centre, British Antarctic Survey"

var scalePrinter = message.NewPrinter(language.English)

// FilterTemplates returns the templates that apply to a resource.
func FilterTemplates(rt ResourceType, licenceOpen bool) []CitationTemplate {
	switch {
	case rt == Dataset && licenceOpen:
		return []CitationTemplate{TemplateDatasetPdc, TemplateDatasetMagic}
	case rt == Dataset:
		return []CitationTemplate{TemplateDatasetMagic}
	case rt == Product:
		return []CitationTemplate{TemplateProductMapMagicGeneral, TemplateProductMapMagicPublished}
	default:
		return []CitationTemplate{TemplateUnknown}
	}
}

// DefaultTemplate picks the initial template for a resource. Products use the first of the
// given collections, in the order given, that marks general or published maps.
func DefaultTemplate(available []CitationTemplate, collections []catalogue.Collection, rt ResourceType, s catalogue.Settings) CitationTemplate {
	switch rt {
	case Dataset:
		if len(available) == 0 {
			return TemplateUnknown
		}
		return available[0]
	case Product:
		for _, c := range collections {
			switch c.Slug {
			case s.CollectionGeneralMaps:
				return TemplateProductMapMagicGeneral
			case s.CollectionPublishedMaps:
				return TemplateProductMapMagicPublished
			}
		}
		return TemplateProductMapMagicGeneral
	default:
		return TemplateUnknown
	}
}

// FormatName abbreviates "Last, First" to "Last, F.". Other shapes are returned unchanged.
func FormatName(name string) string {
	parts := strings.Split(name, ", ")
	if len(parts) < 2 {
		return name
	}
	initial := ""
	if r, size := utf8.DecodeRuneInString(parts[1]); size > 0 {
		initial = string(r)
	}
	return fmt.Sprintf("%s, %s.", parts[0], initial)
}

// FormatAuthors joins author names in APA style, with "&amp;" before the last name.
func FormatAuthors(authors []string) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = FormatName(a)
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		last := len(names) - 1
		return strings.Join(names[:last], ", ") + ", &amp; " + names[last]
	}
}

// FormatScale formats a scale denominator as a ratio, e.g. 400000 as "1:400,000".
func FormatScale(scale int) string {
	return "1:" + scalePrinter.Sprintf("%d", scale)
}

// FormatTitle strips Markdown from a title and marks it as italic.
func FormatTitle(title string) string {
	return "<i>" + StripMarkdown(title) + "</i>"
}

// StripMarkdown returns the plain text of a Markdown fragment on a single line.
func StripMarkdown(md string) string {
	src := []byte(md)
	doc := goldmark.DefaultParser().Parse(gmtext.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.NextSibling() != nil {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// FormatCitationAsMarkdown converts the first <i>...</i> pair to _..._ and, if url is not
// empty, links the first exact occurrence of url. Link text and target are lower-cased.
func FormatCitationAsMarkdown(citation, url string) string {
	out := strings.Replace(citation, "<i>", "_", 1)
	out = strings.Replace(out, "</i>", "_", 1)
	if url == "" {
		return out
	}
	lower := strings.ToLower(url)
	return strings.Replace(out, url, "["+lower+"]("+lower+")", 1)
}

// CiteDataset renders an APA style dataset citation.
//
//	Watson, C. (2014). <i>Title</i> (Version 1) [Data set]. Publisher. https://data.bas.ac.uk/items/....
func CiteDataset(authors []string, year, title, version, publisher string, id Identifier) (string, error) {
	ref, err := FormatReference(id)
	if err != nil {
		return "", err
	}
	parts := []string{
		fmt.Sprintf("%s (%s).", FormatAuthors(authors), year),
		fmt.Sprintf("%s (Version %s) [Data set].", FormatTitle(title), version),
		sentence(publisher),
	}
	if ref != "" {
		parts = append(parts, sentence(ref))
	}
	return strings.Join(parts, " "), nil
}

// CiteMagicMapGeneral renders the citation MAGIC uses for general interest maps.
func CiteMagicMapGeneral(year, version string, id Identifier) (string, error) {
	ref, err := FormatReference(id)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("Produced by the %s, %s, version %s", magicOrganisation, year, version)
	if ref != "" {
		out += ", " + ref
	}
	return out + ".", nil
}

// CiteMagicMapPublished renders the citation MAGIC uses for maps in a published series.
func CiteMagicMapPublished(year, title string, scale int, series, sheet, edition string) string {
	parts := []string{
		sentence("British Antarctic Survey, " + year),
		fmt.Sprintf("%s, %s scale map.", StripMarkdown(title), FormatScale(scale)),
	}
	var sheetInfo []string
	if series != "" {
		sheetInfo = append(sheetInfo, series)
	}
	if sheet != "" {
		sheetInfo = append(sheetInfo, "sheet "+sheet)
	}
	if edition != "" {
		sheetInfo = append(sheetInfo, "edition "+edition)
	}
	if len(sheetInfo) > 0 {
		parts = append(parts, sentence(strings.Join(sheetInfo, ", ")))
	}
	parts = append(parts, "Cambridge, British Antarctic Survey.")
	return strings.Join(parts, " ")
}

// sentence ends s with a full stop unless it already has one, e.g. after "n.d.".
func sentence(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

// Cite renders tmpl for an assembled record.
//
// Authors are contacts with the author role, the year comes from the publication date
// ("n.d." when missing), the version is the edition and the reference is the preferred
// identifier. The publisher follows the record's licence, found through its usage constraint.
func Cite(rec Record, tmpl CitationTemplate, cat *catalogue.Catalogue, s catalogue.Settings) (string, error) {
	id := rec.Identification
	year := citationYear(id.Dates["publication"])
	ref := PreferredReferenceIdentifier(id.Identifiers)

	switch tmpl {
	case TemplateDatasetPdc, TemplateDatasetMagic:
		licence, _ := LicenceOf(rec, cat)
		rt := rec.HierarchyLevel
		if tmpl == TemplateDatasetMagic {
			// MAGIC cites its own datasets regardless of licence.
			licence.Open = false
		}
		slug, err := PublisherOrgSlug(s, rt, licence)
		if err != nil {
			return "", err
		}
		org, ok := cat.Organisation(slug)
		if !ok {
			return "", fmt.Errorf("%w: organisation %q", ErrPublisherUndetermined, slug)
		}
		return CiteDataset(Authors(rec), year, id.Title.Value, id.Edition, org.Name, ref)

	case TemplateProductMapMagicGeneral:
		return CiteMagicMapGeneral(year, id.Edition, ref)

	case TemplateProductMapMagicPublished:
		scale := 0
		if id.SpatialResolution != nil {
			scale = *id.SpatialResolution
		}
		var series Series
		if id.Series != nil {
			series = *id.Series
		}
		return CiteMagicMapPublished(year, id.Title.Value, scale, series.Name, series.Sheet, series.Edition), nil

	default:
		return "", fmt.Errorf("no citation for template %q", tmpl)
	}
}

// Authors returns the names of author contacts, preferring the individual's name.
func Authors(rec Record) []string {
	var names []string
	for _, c := range rec.Identification.Contacts {
		if !c.HasRole(RoleAuthor) {
			continue
		}
		switch {
		case c.Individual != nil:
			names = append(names, c.Individual.Name)
		case c.Organisation != nil:
			names = append(names, c.Organisation.Name)
		}
	}
	return names
}

// LicenceOf finds the catalogue licence referenced by the record's usage constraint.
func LicenceOf(rec Record, cat *catalogue.Catalogue) (catalogue.Licence, bool) {
	for _, c := range rec.Identification.Constraints {
		if c.Type != ConstraintUsage {
			continue
		}
		for _, l := range cat.Licences() {
			if l.URL == c.Href {
				return l, true
			}
		}
	}
	return catalogue.Licence{}, false
}

func citationYear(date string) string {
	if d, err := ParseImpreciseDate(date); err == nil {
		return strconv.Itoa(d.Time.Year())
	}
	return "n.d."
}
