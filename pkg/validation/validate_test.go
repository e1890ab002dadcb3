package validation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlovans/isorecord/pkg/catalogue"
	"github.com/dlovans/isorecord/pkg/record"
)

const minimalRecord = `{
  "$schema": "https://metadata-resources.data.bas.ac.uk/bas-metadata-generator-configuration-schemas/v2/iso-19115-2-v4.json",
  "hierarchy_level": "dataset",
  "metadata": {
    "language": "eng",
    "character_set": "utf8",
    "contacts": [
      {
        "organisation": {"name": "MAGIC", "href": "https://ror.org/01rhff309", "title": "ror"},
        "role": ["pointOfContact"]
      }
    ],
    "date_stamp": "2024-04-07"
  },
  "identification": {
    "title": {"value": "x"},
    "dates": {"publication": "2024-04-06"},
    "abstract": "xx",
    "language": "eng",
    "character_set": "utf8",
    "topics": ["society"],
    "extents": [
      {
        "identifier": "bounding",
        "geographic": {
          "bounding_box": {"west_longitude": -180, "east_longitude": 180, "south_latitude": -90, "north_latitude": -60}
        }
      }
    ]
  }
}`

// minimal returns the minimal record with edit applied.
func minimal(t *testing.T, edit func(r map[string]any)) string {
	t.Helper()
	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(minimalRecord), &r))
	if edit != nil {
		edit(r)
	}
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	return string(raw)
}

func identification(r map[string]any) map[string]any {
	return r["identification"].(map[string]any)
}

func TestValidateRecordTextValid(t *testing.T) {
	errs, err := ValidateRecordText(minimalRecord)
	require.NoError(t, err)
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestValidateRecordTextMissingHierarchyLevel(t *testing.T) {
	text := minimal(t, func(r map[string]any) { delete(r, "hierarchy_level") })

	errs, err := ValidateRecordText(text)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, ValidationError{
		InstancePath: "",
		SchemaPath:   "#/required",
		Keyword:      "required",
		Params:       map[string]any{"missingProperty": "hierarchy_level"},
		Message:      "must have required property 'hierarchy_level'",
	}, errs[0])
}

func TestValidateRecordTextUnparsable(t *testing.T) {
	for _, text := range []string{"//invalid//", "", "{", "{'a': 1}"} {
		t.Run(text, func(t *testing.T) {
			errs, err := ValidateRecordText(text)
			assert.ErrorIs(t, err, ErrUnparsableInput)
			assert.Nil(t, errs)
		})
	}
	assert.Equal(t, "Cannot parse input as JSON.", ErrUnparsableInput.Error())
}

func TestValidateRecordTextViolations(t *testing.T) {
	tests := []struct {
		name         string
		edit         func(r map[string]any)
		instancePath string
		schemaPath   string
		keyword      string
		message      string
	}{
		{
			name:         "unknown hierarchy level",
			edit:         func(r map[string]any) { r["hierarchy_level"] = "map" },
			instancePath: "/hierarchy_level",
			schemaPath:   "#/definitions/hierarchy_level/enum",
			keyword:      "enum",
			message:      "must be equal to one of the allowed values",
		},
		{
			name:         "wrong type",
			edit:         func(r map[string]any) { identification(r)["abstract"] = 42 },
			instancePath: "/identification/abstract",
			schemaPath:   "#/definitions/identification/properties/abstract/type",
			keyword:      "type",
			message:      "must be string",
		},
		{
			name: "bad date",
			edit: func(r map[string]any) {
				identification(r)["dates"] = map[string]any{"publication": "6 April 2024"}
			},
			instancePath: "/identification/dates/publication",
			schemaPath:   "#/definitions/imprecise_date/format",
			keyword:      "format",
			message:      `must match format "imprecise-date"`,
		},
		{
			name:         "additional property",
			edit:         func(r map[string]any) { r["notes"] = "x" },
			instancePath: "",
			schemaPath:   "#/additionalProperties",
			keyword:      "additionalProperties",
			message:      "must NOT have additional properties",
		},
		{
			name: "latitude out of range",
			edit: func(r map[string]any) {
				bbox := identification(r)["extents"].([]any)[0].(map[string]any)["geographic"].(map[string]any)["bounding_box"].(map[string]any)
				bbox["south_latitude"] = -91
			},
			instancePath: "/identification/extents/0/geographic/bounding_box/south_latitude",
			schemaPath:   "#/definitions/extent/properties/geographic/properties/bounding_box/properties/south_latitude/minimum",
			keyword:      "minimum",
			message:      "must be >= -90",
		},
		{
			name: "contact without party",
			edit: func(r map[string]any) {
				r["metadata"].(map[string]any)["contacts"] = []any{map[string]any{"role": []any{"pointOfContact"}}}
			},
			instancePath: "/metadata/contacts/0",
			schemaPath:   "#/definitions/contact/anyOf",
			keyword:      "anyOf",
			message:      "must match a schema in anyOf",
		},
		{
			name: "no metadata contacts",
			edit: func(r map[string]any) {
				r["metadata"].(map[string]any)["contacts"] = []any{}
			},
			instancePath: "/metadata/contacts",
			schemaPath:   "#/definitions/metadata/properties/contacts/allOf/1/minItems",
			keyword:      "minItems",
			message:      "must NOT have fewer than 1 items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := ValidateRecordText(minimal(t, tt.edit))
			require.NoError(t, err)
			require.Len(t, errs, 1, "%v", errs)

			got := errs[0]
			assert.Equal(t, tt.instancePath, got.InstancePath)
			assert.Equal(t, tt.schemaPath, got.SchemaPath)
			assert.Equal(t, tt.keyword, got.Keyword)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestValidateRecordTextReportsAllViolations(t *testing.T) {
	text := minimal(t, func(r map[string]any) {
		delete(r, "hierarchy_level")
		delete(r, "metadata")
		delete(identification(r), "abstract")
		identification(r)["topics"] = []any{"society", "weather"}
	})

	errs, err := ValidateRecordText(text)
	require.NoError(t, err)
	require.Len(t, errs, 4)

	var messages []string
	for _, e := range errs {
		messages = append(messages, e.String())
	}
	assert.ElementsMatch(t, []string{
		"must have required property 'hierarchy_level'",
		"must have required property 'metadata'",
		"/identification must have required property 'abstract'",
		"/identification/topics/1 must be equal to one of the allowed values",
	}, messages)

	// root errors sort before nested ones
	assert.Equal(t, "", errs[0].InstancePath)
	assert.Equal(t, "", errs[1].InstancePath)
}

func TestImpreciseDateFormat(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"2024", true},
		{"2024-04", true},
		{"2024-04-06", true},
		{"2024-04-06T09+00:00", true},
		{"2024-04-06T09:05+00:00", true},
		{"2024-04-06T09:05:07+00:00", true},
		{"24", false},
		{"2024-4", false},
		{"2024-04-06T09:05:07Z", false},
		{"2024-04-06T09", false},
		{" 2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validateImpreciseDate(tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.NoError(t, validateImpreciseDate(2024), "non-strings are left to the type keyword")
}

func TestValidateRecordAssembled(t *testing.T) {
	cat := catalogue.MustDefault()
	s := cat.MustSettings()

	a, err := record.NewAssembler(time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), cat, s)
	require.NoError(t, err)

	bas, _ := cat.Organisation("bas")
	watson, _ := cat.Individual("watson_constance")
	licence, _ := cat.Licence("CC_BY_4_0")
	access, _ := cat.AccessRestriction("bas_staff")
	csv, _ := cat.Format("csv")
	extent, _ := cat.Extent("south_georgia")
	projection, _ := cat.Projection(extent.Projection)
	keywords, _ := cat.KeywordSet("gemet_inspire_themes")

	fileID := record.NewFileIdentifier()
	publication, err := record.NewImpreciseDate(2024, 3, 6, 9, 30)
	require.NoError(t, err)
	start, _ := record.NewImpreciseDate(2020)
	temporal, err := record.NewTemporalExtent(start, nil)
	require.NoError(t, err)
	distributor, err := record.Distributor(cat, s, record.Dataset, licence)
	require.NoError(t, err)
	doi, err := record.DoiIdentifier("10.5285/abc-123")
	require.NoError(t, err)

	fragments := []record.Fragment{
		record.FileIdentifierFragment(fileID),
		record.ResourceTypeFragment(record.Dataset),
		record.TitleFragment("_South Georgia_ coastline"),
		record.AbstractFragment("Coastline of South Georgia."),
		record.EditionFragment("2"),
		record.DatesFragment(map[string]record.ImpreciseDate{"publication": publication, "creation": start}),
		record.IdentifiersFragment(record.SelfIdentifier(fileID, s), doi),
		record.ContactsFragment(record.AuthorContact(watson, bas)),
		record.ConstraintsFragment(access, licence),
		record.ExtentsFragment(record.NewExtent(record.BoundingExtentID, extent.Geographic, temporal)),
		record.ProjectionFragment(projection),
		record.KeywordsFragment(keywords.Keywords),
		record.TopicsFragment("oceans", "location"),
		record.LineageFragment("Digitised from satellite imagery."),
		record.MaintenanceFragment("asNeeded", "completed"),
		record.DistributionFragment(record.DownloadDistributionOption(csv, "https://example.com/coast.csv", distributor, 2048)),
	}

	errs, err := ValidateRecord(a.Assemble(fragments...))
	require.NoError(t, err)
	assert.Empty(t, errs)

	rec, err := a.AssembleRecord(fragments...)
	require.NoError(t, err)
	errs, err = ValidateRecord(rec)
	require.NoError(t, err)
	assert.Empty(t, errs)

	// the skeleton alone is not a record: it has no resource type
	errs, err = ValidateRecord(a.Skeleton())
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, "/hierarchy_level", errs[0].InstancePath)
}

func TestCompileMemoized(t *testing.T) {
	first, err := Compile(RecordSchema())
	require.NoError(t, err)
	second, err := Compile(RecordSchema())
	require.NoError(t, err)
	assert.Same(t, first, second)

	v1, err := Default()
	require.NoError(t, err)
	v2, err := Default()
	require.NoError(t, err)
	assert.Same(t, v1, v2)
}

func TestCompileInvalidSchema(t *testing.T) {
	_, err := Compile([]byte("{"))
	assert.Error(t, err)

	_, err = Compile([]byte(`{"type": "nonsense"}`))
	assert.Error(t, err)
}

func TestCustomSchema(t *testing.T) {
	v, err := New([]byte(`{"type": "object", "required": ["a", "b"], "properties": {"d": {"type": "string", "format": "imprecise-date"}}}`))
	require.NoError(t, err)

	errs, err := v.ValidateRecordText(`{"d": "soon"}`)
	require.NoError(t, err)
	require.Len(t, errs, 3)
	assert.Equal(t, "must have required property 'a'", errs[0].Message)
	assert.Equal(t, "must have required property 'b'", errs[1].Message)
	assert.Equal(t, "/d", errs[2].InstancePath)
}

func TestValidationErrorJSON(t *testing.T) {
	raw, err := json.Marshal(ValidationError{
		InstancePath: "/a",
		SchemaPath:   "#/required",
		Keyword:      "required",
		Params:       map[string]any{"missingProperty": "b"},
		Message:      "must have required property 'b'",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"instancePath": "/a",
		"schemaPath": "#/required",
		"keyword": "required",
		"params": {"missingProperty": "b"},
		"message": "must have required property 'b'"
	}`, string(raw))
}

func TestInstancePath(t *testing.T) {
	assert.Equal(t, "", instancePath(nil))
	assert.Equal(t, "/identification/dates/publication", instancePath([]string{"identification", "dates", "publication"}))
	assert.Equal(t, "/a~1b/c~0d", instancePath([]string{"a/b", "c~d"}))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	v, err := New(RecordSchema(), WithMetrics(NewMetrics(reg)))
	require.NoError(t, err)

	_, err = v.ValidateRecordText(minimalRecord)
	require.NoError(t, err)
	_, err = v.ValidateRecordText(strings.Replace(minimalRecord, `"dataset"`, `"map"`, 1))
	require.NoError(t, err)
	_, err = v.ValidateRecordText("//invalid//")
	require.ErrorIs(t, err, ErrUnparsableInput)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			if c := m.GetCounter(); c != nil {
				counts[key] = c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				counts[key] = float64(h.GetSampleCount())
			}
		}
	}

	assert.Equal(t, 1.0, counts["isorecord_validations_total/valid"])
	assert.Equal(t, 1.0, counts["isorecord_validations_total/invalid"])
	assert.Equal(t, 1.0, counts["isorecord_validations_total/unparsable"])
	assert.Equal(t, 1.0, counts["isorecord_validation_violations_total/enum"])
	assert.Equal(t, 2.0, counts["isorecord_validation_duration_seconds"])
}
