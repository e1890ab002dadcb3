package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

const testFileIdentifier = "973c7fed-66d2-42a2-a461-1fdb9bf48564"

func TestFormatName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Watson, Constance", "Watson, C."},
		{"Ó Briain, Éanna", "Ó Briain, É."},
		{"British Antarctic Survey", "British Antarctic Survey"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatName(tt.in))
		})
	}
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"none", nil, ""},
		{"one", []string{"Watson, Constance"}, "Watson, C."},
		{"two", []string{"Watson, Constance", "Cinnamon, John"}, "Watson, C., &amp; Cinnamon, J."},
		{"three", []string{"Watson, Constance", "Cinnamon, John", "Fennell, Felix"}, "Watson, C., Cinnamon, J., &amp; Fennell, F."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAuthors(tt.authors))
		})
	}
}

func TestFormatScale(t *testing.T) {
	assert.Equal(t, "1:400,000", FormatScale(400000))
	assert.Equal(t, "1:1,000,000", FormatScale(1000000))
	assert.Equal(t, "1:500", FormatScale(500))
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plain title", "Plain title"},
		{"_Italic_ and **bold**", "Italic and bold"},
		{"Title with `code`", "Title with code"},
		{"[Link](https://example.com) text", "Link text"},
		{"Two\nlines", "Two lines"},
		{"# Heading", "Heading"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkdown(tt.in))
		})
	}

	assert.Equal(t, "<i>Italic title</i>", FormatTitle("_Italic_ title"))
}

func TestFormatCitationAsMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		citation string
		url      string
		want     string
	}{
		{
			name:     "link",
			citation: "Watson, C. (2014). https://example.com.",
			url:      "https://example.com",
			want:     "Watson, C. (2014). [https://example.com](https://example.com).",
		},
		{
			name:     "italics",
			citation: "Watson, C. (2014). <i>Title</i> (Version 1).",
			want:     "Watson, C. (2014). _Title_ (Version 1).",
		},
		{
			name:     "doi lower-cased in link",
			citation: "X. https://doi.org/10.5285/ABC.",
			url:      "https://doi.org/10.5285/ABC",
			want:     "X. [https://doi.org/10.5285/abc](https://doi.org/10.5285/abc).",
		},
		{
			name:     "url not present",
			citation: "X.",
			url:      "https://example.com",
			want:     "X.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCitationAsMarkdown(tt.citation, tt.url))
		})
	}
}

func TestFilterTemplates(t *testing.T) {
	tests := []struct {
		name string
		rt   ResourceType
		open bool
		want []CitationTemplate
	}{
		{"open dataset", Dataset, true, []CitationTemplate{TemplateDatasetPdc, TemplateDatasetMagic}},
		{"closed dataset", Dataset, false, []CitationTemplate{TemplateDatasetMagic}},
		{"product", Product, true, []CitationTemplate{TemplateProductMapMagicGeneral, TemplateProductMapMagicPublished}},
		{"collection", Collection, true, []CitationTemplate{TemplateUnknown}},
		{"unknown", "", false, []CitationTemplate{TemplateUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterTemplates(tt.rt, tt.open))
		})
	}
}

func TestDefaultTemplate(t *testing.T) {
	cat := catalogue.MustDefault()
	s := testSettings(t)
	general, _ := cat.Collection(s.CollectionGeneralMaps)
	published, _ := cat.Collection(s.CollectionPublishedMaps)
	other, _ := cat.Collection("cf64dd21_545f_4d2a_8d0c_2b7b4b9c5b8f")

	tests := []struct {
		name        string
		available   []CitationTemplate
		collections []catalogue.Collection
		rt          ResourceType
		want        CitationTemplate
	}{
		{"open dataset", FilterTemplates(Dataset, true), nil, Dataset, TemplateDatasetPdc},
		{"closed dataset", FilterTemplates(Dataset, false), nil, Dataset, TemplateDatasetMagic},
		{"dataset without templates", nil, nil, Dataset, TemplateUnknown},
		{"published map", nil, []catalogue.Collection{other, published}, Product, TemplateProductMapMagicPublished},
		{"general map", nil, []catalogue.Collection{general}, Product, TemplateProductMapMagicGeneral},
		{"first marked collection wins", nil, []catalogue.Collection{published, general}, Product, TemplateProductMapMagicPublished},
		{"product without collections", nil, nil, Product, TemplateProductMapMagicGeneral},
		{"collection", nil, nil, Collection, TemplateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultTemplate(tt.available, tt.collections, tt.rt, s))
		})
	}
}

func TestParseCitationTemplate(t *testing.T) {
	got, ok := ParseCitationTemplate("Product (Map, MAGIC, Published)")
	assert.True(t, ok)
	assert.Equal(t, TemplateProductMapMagicPublished, got)

	got, ok = ParseCitationTemplate("APA")
	assert.False(t, ok)
	assert.Equal(t, TemplateUnknown, got)
}

func TestCiteDataset(t *testing.T) {
	s := testSettings(t)

	got, err := CiteDataset([]string{"Watson, Constance"}, "2014", "Title", "1", "Publisher", SelfIdentifier(testFileIdentifier, s))
	require.NoError(t, err)
	assert.Equal(t, "Watson, C. (2014). <i>Title</i> (Version 1) [Data set]. Publisher. https://data.bas.ac.uk/items/973c7fed-66d2-42a2-a461-1fdb9bf48564.", got)

	_, err = CiteDataset(nil, "2014", "Title", "1", "Publisher", Identifier{Identifier: "bad", Namespace: NamespaceDoi})
	assert.ErrorIs(t, err, ErrInvalidDoi)
}

func TestCiteMagicMaps(t *testing.T) {
	s := testSettings(t)

	got, err := CiteMagicMapGeneral("2014", "1", SelfIdentifier(testFileIdentifier, s))
	require.NoError(t, err)
	assert.Equal(t, "Produced by the Mapping and Geographic Information Centre, British Antarctic Survey, 2014, version 1, https://data.bas.ac.uk/items/973c7fed-66d2-42a2-a461-1fdb9bf48564.", got)

	assert.Equal(t,
		"British Antarctic Survey, 2014. Title, 1:400,000 scale map. Example Series, sheet 1A, edition 1. Cambridge, British Antarctic Survey.",
		CiteMagicMapPublished("2014", "_Title_", 400000, "Example Series", "1A", "1"))
}

func TestCitationsWithoutReference(t *testing.T) {
	none := PreferredReferenceIdentifier(nil)

	got, err := CiteDataset([]string{"Watson, Constance"}, "n.d.", "Title", "1", "British Antarctic Survey", none)
	require.NoError(t, err)
	assert.Equal(t, "Watson, C. (n.d.). <i>Title</i> (Version 1) [Data set]. British Antarctic Survey.", got)

	got, err = CiteMagicMapGeneral("2014", "1", none)
	require.NoError(t, err)
	assert.Equal(t, "Produced by the Mapping and Geographic Information Centre, British Antarctic Survey, 2014, version 1.", got)

	assert.Equal(t,
		"British Antarctic Survey, n.d. Title, 1:400,000 scale map. Cambridge, British Antarctic Survey.",
		CiteMagicMapPublished("n.d.", "Title", 400000, "", "", ""))
	assert.Equal(t,
		"British Antarctic Survey, 2014. Title, 1:400,000 scale map. Sheet series, edition 2. Cambridge, British Antarctic Survey.",
		CiteMagicMapPublished("2014", "Title", 400000, "Sheet series", "", "2"))
}

func TestCite(t *testing.T) {
	cat := catalogue.MustDefault()
	s := testSettings(t)
	bas, _ := cat.Organisation("bas")
	watson, _ := cat.Individual("watson_constance")
	open, _ := cat.Licence("OGL_UK_3_0")
	anonymous, _ := cat.AccessRestriction("anonymous")
	scale := 400000

	rec := Record{
		HierarchyLevel: Dataset,
		Identification: Identification{
			Title:       Title{Value: "Title"},
			Dates:       map[string]string{"creation": "2013", "publication": "2014-06-01"},
			Edition:     "1",
			Identifiers: []Identifier{SelfIdentifier(testFileIdentifier, s)},
			Contacts: []Contact{
				AuthorContact(watson, bas),
				OrgPointOfContact(bas, RolePointOfContact),
			},
			Constraints:       []Constraint{AccessConstraint(anonymous), UsageConstraint(open)},
			SpatialResolution: &scale,
			Series:            &Series{Name: "Example Series", Sheet: "1A", Edition: "1"},
		},
	}

	tests := []struct {
		template CitationTemplate
		want     string
	}{
		{TemplateDatasetPdc, "Watson, C. (2014). <i>Title</i> (Version 1) [Data set]. NERC EDS UK Polar Data Centre. https://data.bas.ac.uk/items/973c7fed-66d2-42a2-a461-1fdb9bf48564."},
		{TemplateDatasetMagic, "Watson, C. (2014). <i>Title</i> (Version 1) [Data set]. Mapping and Geographic Information Centre, British Antarctic Survey. https://data.bas.ac.uk/items/973c7fed-66d2-42a2-a461-1fdb9bf48564."},
		{TemplateProductMapMagicGeneral, "Produced by the Mapping and Geographic Information Centre, British Antarctic Survey, 2014, version 1, https://data.bas.ac.uk/items/973c7fed-66d2-42a2-a461-1fdb9bf48564."},
		{TemplateProductMapMagicPublished, "British Antarctic Survey, 2014. Title, 1:400,000 scale map. Example Series, sheet 1A, edition 1. Cambridge, British Antarctic Survey."},
	}

	for _, tt := range tests {
		t.Run(string(tt.template), func(t *testing.T) {
			got, err := Cite(rec, tt.template, cat, s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown template", func(t *testing.T) {
		_, err := Cite(rec, TemplateUnknown, cat, s)
		assert.Error(t, err)
	})

	t.Run("no publication date", func(t *testing.T) {
		undated := rec
		undated.Identification.Dates = map[string]string{}
		got, err := Cite(undated, TemplateProductMapMagicGeneral, cat, s)
		require.NoError(t, err)
		assert.Contains(t, got, ", n.d., ")
	})
}

func TestAuthorsAndLicenceOf(t *testing.T) {
	cat := catalogue.MustDefault()
	bas, _ := cat.Organisation("bas")
	watson, _ := cat.Individual("watson_constance")
	cinnamon, _ := cat.Individual("cinnamon_john")
	closed, _ := cat.Licence("X_ALL_RIGHTS_RESERVED_1")

	rec := Record{Identification: Identification{
		Contacts: []Contact{
			OrgPointOfContact(bas, RolePointOfContact),
			AuthorContact(watson, bas),
			OrgPointOfContact(bas, RoleAuthor),
			AuthorContact(cinnamon, bas),
		},
		Constraints: []Constraint{UsageConstraint(closed)},
	}}

	assert.Equal(t, []string{"Watson, Constance", "British Antarctic Survey", "Cinnamon, John"}, Authors(rec))

	l, ok := LicenceOf(rec, cat)
	require.True(t, ok)
	assert.Equal(t, "X_ALL_RIGHTS_RESERVED_1", l.Slug)

	_, ok = LicenceOf(Record{}, cat)
	assert.False(t, ok)
}
