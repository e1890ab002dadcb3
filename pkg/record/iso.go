// Package record assembles ISO 19115-2 discovery metadata records from independent
// fragments. It covers imprecise dates, deep merging of fragments over a skeleton,
// identifier resolution, builders for ISO sub-documents, citation rendering and
// section visibility. Every function is a pure transform; nothing is mutated in place.
package record

import (
	"encoding/json"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// Shared leaf types.
type (
	Address          = catalogue.Address
	OnlineResource   = catalogue.OnlineResource
	Title            = catalogue.Title
	Citation         = catalogue.Citation
	Code             = catalogue.Code
	KeywordTerm      = catalogue.KeywordTerm
	KeywordSet       = catalogue.Keywords
	BoundingBox      = catalogue.BoundingBox
	GeographicExtent = catalogue.GeographicExtent
)

// ResourceType is the ISO hierarchy level of a record.
type ResourceType string

const (
	Collection ResourceType = "collection"
	Dataset    ResourceType = "dataset"
	Product    ResourceType = "product"
)

// Role codes used by contact builders.
const (
	RoleAuthor         = "author"
	RoleDistributor    = "distributor"
	RolePublisher      = "publisher"
	RolePointOfContact = "pointOfContact"
)

// Record is an assembled ISO 19115-2 record.
// Optional sections are pointers or omitempty so absent sections stay absent when serialised.
type Record struct {
	Schema              string               `json:"$schema"`
	FileIdentifier      string               `json:"file_identifier,omitempty"`
	HierarchyLevel      ResourceType         `json:"hierarchy_level"`
	Metadata            Metadata             `json:"metadata"`
	ReferenceSystemInfo *ReferenceSystemInfo `json:"reference_system_info,omitempty"`
	Identification      Identification       `json:"identification"`
	Distribution        []DistributionOption `json:"distribution,omitempty"`
}

// MarshalJSON encodes r with nil lists and maps the schema requires written as empty.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	if r.Metadata.Contacts == nil {
		r.Metadata.Contacts = []Contact{}
	}
	id := &r.Identification
	if id.Dates == nil {
		id.Dates = map[string]string{}
	}
	if id.Identifiers == nil {
		id.Identifiers = []Identifier{}
	}
	if id.Topics == nil {
		id.Topics = []string{}
	}
	if id.Extents == nil {
		id.Extents = []Extent{}
	}
	return json.Marshal(plain(r))
}

// Metadata describes the record itself rather than the resource.
type Metadata struct {
	Language     string    `json:"language"`
	CharacterSet string    `json:"character_set"`
	Contacts     []Contact `json:"contacts"`
	DateStamp    string    `json:"date_stamp"`
}

// Identification describes the resource.
type Identification struct {
	Title                   Title               `json:"title"`
	Abstract                string              `json:"abstract"`
	Purpose                 string              `json:"purpose,omitempty"`
	Dates                   map[string]string   `json:"dates"`
	Edition                 string              `json:"edition,omitempty"`
	Series                  *Series             `json:"series,omitempty"`
	OtherCitationDetails    string              `json:"other_citation_details,omitempty"`
	Identifiers             []Identifier        `json:"identifiers"`
	Contacts                []Contact           `json:"contacts,omitempty"`
	Maintenance             *Maintenance        `json:"maintenance,omitempty"`
	GraphicOverviews        []GraphicOverview   `json:"graphic_overviews,omitempty"`
	Keywords                []KeywordSet        `json:"keywords,omitempty"`
	Constraints             []Constraint        `json:"constraints,omitempty"`
	Aggregations            []Aggregation       `json:"aggregations,omitempty"`
	Language                string              `json:"language"`
	CharacterSet            string              `json:"character_set"`
	Topics                  []string            `json:"topics"`
	SpatialResolution       *int                `json:"spatial_resolution,omitempty"`
	Extents                 []Extent            `json:"extents"`
	SupplementalInformation string              `json:"supplemental_information,omitempty"`
	Lineage                 *Lineage            `json:"lineage,omitempty"`
	DomainConsistency       []DomainConsistency `json:"domain_consistency,omitempty"`
}

// Identifier is an external identifier for the resource.
type Identifier struct {
	Identifier string `json:"identifier"`
	Href       string `json:"href"`
	Namespace  string `json:"namespace"`
}

// Individual names a person within a contact.
type Individual struct {
	Name  string `json:"name"`
	Href  string `json:"href,omitempty"`
	Title string `json:"title,omitempty"`
}

// Organisation names an organisation within a contact.
type Organisation struct {
	Name  string `json:"name"`
	Href  string `json:"href,omitempty"`
	Title string `json:"title,omitempty"`
}

// Contact is an ISO point of contact.
type Contact struct {
	Individual     *Individual     `json:"individual,omitempty"`
	Organisation   *Organisation   `json:"organisation,omitempty"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        *Address        `json:"address,omitempty"`
	OnlineResource *OnlineResource `json:"online_resource,omitempty"`
	Role           []string        `json:"role"`
}

// HasRole reports whether role is one of c's roles.
func (c Contact) HasRole(role string) bool {
	for _, r := range c.Role {
		if r == role {
			return true
		}
	}
	return false
}

// Constraint is an access or usage constraint.
type Constraint struct {
	Type            string `json:"type"` // "access" or "usage"
	RestrictionCode string `json:"restriction_code"`
	Statement       string `json:"statement,omitempty"`
	Href            string `json:"href,omitempty"`
}

// Format names the format of a distribution option.
type Format struct {
	Format  string `json:"format"`
	Href    string `json:"href,omitempty"`
	Version string `json:"version,omitempty"`
}

// Size is a transfer size.
type Size struct {
	Unit      string `json:"unit"`
	Magnitude int64  `json:"magnitude"`
}

// TransferOption is how a distribution option is transferred.
type TransferOption struct {
	Size           *Size          `json:"size,omitempty"`
	OnlineResource OnlineResource `json:"online_resource"`
}

// DistributionOption is one way to access the resource.
type DistributionOption struct {
	Format         *Format        `json:"format,omitempty"`
	TransferOption TransferOption `json:"transfer_option"`
	Distributor    Contact        `json:"distributor"`
}

// Extent is an identified spatio-temporal extent.
type Extent struct {
	Identifier string           `json:"identifier"`
	Geographic GeographicExtent `json:"geographic"`
	Temporal   *TemporalExtent  `json:"temporal,omitempty"`
}

// TemporalExtent is a time period.
type TemporalExtent struct {
	Period Period `json:"period"`
}

// Period has a start and optional end as ISO date text.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// ReferenceSystemInfo is the coordinate reference system of the resource.
type ReferenceSystemInfo struct {
	Authority Citation `json:"authority"`
	Code      Code     `json:"code"`
	Version   string   `json:"version"`
}

// Aggregation relates the resource to another item.
type Aggregation struct {
	AssociationType string     `json:"association_type"`
	InitiativeType  string     `json:"initiative_type,omitempty"`
	Identifier      Identifier `json:"identifier"`
}

// GraphicOverview is a thumbnail image.
type GraphicOverview struct {
	Identifier  string `json:"identifier"`
	Href        string `json:"href"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mime_type"`
}

// Series is the map series a product belongs to.
type Series struct {
	Name    string `json:"name"`
	Edition string `json:"edition,omitempty"`
	Sheet   string `json:"sheet,omitempty"`
}

// Maintenance describes update frequency and progress.
type Maintenance struct {
	MaintenanceFrequency string `json:"maintenance_frequency"`
	Progress             string `json:"progress"`
}

// Lineage is a free text provenance statement.
type Lineage struct {
	Statement string `json:"statement"`
}

// DomainConsistency declares conformance with a profile.
type DomainConsistency struct {
	Specification Citation `json:"specification"`
	Explanation   string   `json:"explanation"`
	Result        bool     `json:"result"`
}
