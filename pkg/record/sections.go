package record

import (
	"fmt"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// Section names, as used for visibility and fragment attribution.
const (
	SectionAbstract       = "abstract"
	SectionAccess         = "access"
	SectionCitation       = "citation"
	SectionCollections    = "collections"
	SectionContacts       = "contacts"
	SectionDates          = "dates"
	SectionDownloads      = "downloads"
	SectionEdition        = "edition"
	SectionExtentSpatial  = "extent-spatial"
	SectionExtentTemporal = "extent-temporal"
	SectionFileIdentifier = "file-identifier"
	SectionIdentifiers    = "identifiers"
	SectionIdentifierDoi  = "identifierDoi"
	SectionKeywords       = "keywords"
	SectionLicence        = "licence"
	SectionLineage        = "lineage"
	SectionMaintenance    = "maintenance"
	SectionProjection     = "projection"
	SectionResourceType   = "resource-type"
	SectionScale          = "scale"
	SectionSeries         = "series"
	SectionServices       = "services"
	SectionSize           = "size"
	SectionThumbnails     = "thumbnails"
	SectionTitle          = "title"
	SectionTopics         = "topics"
)

var hiddenSections = map[ResourceType][]string{
	Collection: {
		SectionAccess, SectionCitation, SectionCollections, SectionContacts, SectionDownloads,
		SectionExtentSpatial, SectionExtentTemporal, SectionIdentifierDoi, SectionLicence,
		SectionLineage, SectionScale, SectionSeries, SectionServices,
	},
	Dataset: {SectionCollections, SectionSeries, SectionSize},
	Product: {SectionServices},
}

// ShowSection reports whether a section applies to a resource type.
// Unknown resource types show nothing.
func ShowSection(section string, rt ResourceType) bool {
	hidden, ok := hiddenSections[rt]
	if !ok {
		return false
	}
	for _, h := range hidden {
		if h == section {
			return false
		}
	}
	return true
}

// Fragment is one section's contribution to a record: a partial record rooted at the
// top level, merged over the skeleton during assembly.
type Fragment struct {
	Section string
	Value   Object
}

// newFragment nests the generic JSON form of v at path.
func newFragment(section, path string, v any) Fragment {
	value, err := toValue(v)
	if err != nil {
		// only record types defined in this package reach here
		panic(fmt.Sprintf("record: fragment %s: %v", section, err))
	}
	return Fragment{Section: section, Value: nest(path, value)}
}

// RawFragment wraps an arbitrary partial record, e.g. one read from a file.
func RawFragment(section string, value Object) Fragment {
	return Fragment{Section: section, Value: Clone(value)}
}

// FileIdentifierFragment sets the record's file identifier.
func FileIdentifierFragment(id string) Fragment {
	return newFragment(SectionFileIdentifier, "file_identifier", id)
}

// ResourceTypeFragment sets the hierarchy level.
func ResourceTypeFragment(rt ResourceType) Fragment {
	return newFragment(SectionResourceType, "hierarchy_level", rt)
}

// TitleFragment sets the resource title.
func TitleFragment(title string) Fragment {
	return newFragment(SectionTitle, "identification.title.value", title)
}

// AbstractFragment sets the resource abstract.
func AbstractFragment(abstract string) Fragment {
	return newFragment(SectionAbstract, "identification.abstract", abstract)
}

// EditionFragment sets the edition, cited as the version.
func EditionFragment(edition string) Fragment {
	return newFragment(SectionEdition, "identification.edition", edition)
}

// DatesFragment sets resource dates keyed by ISO date type, e.g. "publication".
func DatesFragment(dates map[string]ImpreciseDate) Fragment {
	return newFragment(SectionDates, "identification.dates", dates)
}

// IdentifiersFragment sets the identifier list, dropping exact repeats.
func IdentifiersFragment(ids ...Identifier) Fragment {
	return newFragment(SectionIdentifiers, "identification.identifiers", dedupe(ids))
}

// ContactsFragment sets the resource contacts.
func ContactsFragment(contacts ...Contact) Fragment {
	return newFragment(SectionContacts, "identification.contacts", contacts)
}

// ConstraintsFragment sets access and usage constraints together, since both live in
// one list and lists are replaced whole when merged.
func ConstraintsFragment(access catalogue.AccessRestriction, licence catalogue.Licence) Fragment {
	return newFragment(SectionLicence, "identification.constraints", []Constraint{
		AccessConstraint(access),
		UsageConstraint(licence),
	})
}

// ExtentsFragment sets the spatial and temporal extents.
func ExtentsFragment(extents ...Extent) Fragment {
	return newFragment(SectionExtentSpatial, "identification.extents", extents)
}

// ProjectionFragment sets the reference system from a catalogue projection.
func ProjectionFragment(p catalogue.Projection) Fragment {
	return newFragment(SectionProjection, "reference_system_info", ProjectionInfo(p))
}

// CollectionsFragment links the resource to catalogue collections as aggregations.
func CollectionsFragment(s catalogue.Settings, collections ...catalogue.Collection) Fragment {
	aggs := make([]Aggregation, 0, len(collections))
	for _, c := range collections {
		aggs = append(aggs, CollectionAggregation(c, s))
	}
	return newFragment(SectionCollections, "identification.aggregations", aggs)
}

// SeriesFragment sets the descriptive series of a map.
func SeriesFragment(series Series) Fragment {
	return newFragment(SectionSeries, "identification.series", series)
}

// ScaleFragment sets the scale denominator of a map.
func ScaleFragment(scale int) Fragment {
	return newFragment(SectionScale, "identification.spatial_resolution", scale)
}

// PhysicalSizeFragment stores the physical map size as supplemental information.
func PhysicalSizeFragment(d PhysicalDimensions) Fragment {
	return newFragment(SectionSize, "identification.supplemental_information", SupplementalInfo(&d))
}

// KeywordsFragment sets keyword sets, merging sets from the same thesaurus.
func KeywordsFragment(sets ...KeywordSet) Fragment {
	return newFragment(SectionKeywords, "identification.keywords", UniqueKeywords(sets))
}

// TopicsFragment sets ISO topic categories, dropping repeats.
func TopicsFragment(topics ...string) Fragment {
	return newFragment(SectionTopics, "identification.topics", UniqueTopics(topics))
}

// LineageFragment sets the lineage statement.
func LineageFragment(statement string) Fragment {
	return newFragment(SectionLineage, "identification.lineage", Lineage{Statement: statement})
}

// MaintenanceFragment sets maintenance frequency and progress.
func MaintenanceFragment(frequency, progress string) Fragment {
	return newFragment(SectionMaintenance, "identification.maintenance", Maintenance{
		MaintenanceFrequency: frequency,
		Progress:             progress,
	})
}

// ThumbnailsFragment sets the graphic overviews.
func ThumbnailsFragment(overviews ...GraphicOverview) Fragment {
	return newFragment(SectionThumbnails, "identification.graphic_overviews", overviews)
}

// DistributionFragment sets download and service distribution options.
func DistributionFragment(options ...DistributionOption) Fragment {
	return newFragment(SectionDownloads, "distribution", options)
}
