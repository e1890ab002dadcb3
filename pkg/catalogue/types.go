// Package catalogue holds the static reference data a metadata record is built from:
// formats, licences, organisations, services, projections and the other keyed tables.
// Tables are decoded into typed records and checked once at load time, so lookups
// return concrete values instead of loosely typed JSON.
package catalogue

import "fmt"

// Address is a postal address as used by ISO points of contact.
type Address struct {
	DeliveryPoint      string `json:"delivery_point"`
	City               string `json:"city"`
	AdministrativeArea string `json:"administrative_area,omitempty"`
	PostalCode         string `json:"postal_code"`
	Country            string `json:"country"`
}

// OnlineResource is a link with a title, optional description and ISO function code.
type OnlineResource struct {
	Href        string `json:"href"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Function    string `json:"function,omitempty"`
}

// Title wraps a title value with an optional link.
type Title struct {
	Value string `json:"value"`
	Href  string `json:"href,omitempty"`
}

// Citation is the minimal cited-resource shape used for thesauri, authorities and specifications.
type Citation struct {
	Title   Title             `json:"title"`
	Dates   map[string]string `json:"dates,omitempty"`
	Edition string            `json:"edition,omitempty"`
	Href    string            `json:"href,omitempty"`
}

// Format is a file or service format a resource can be distributed in.
type Format struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	URL         string   `json:"url"`
	Extensions  []string `json:"extensions,omitempty"` // Including the leading dot, e.g. ".shp.zip"
	MediaTypes  []string `json:"media_types,omitempty"`
}

// Licence is a usage licence. Open drives distributor and citation template selection.
type Licence struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Statement string `json:"statement"`
	Open      bool   `json:"open"`
	ImgLight  string `json:"img_light,omitempty"`
	ImgDark   string `json:"img_dark,omitempty"`
}

// Organisation is an organisation that can act as author, distributor or publisher.
type Organisation struct {
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	ROR            string          `json:"ror,omitempty"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        *Address        `json:"address,omitempty"`
	OnlineResource *OnlineResource `json:"online_resource,omitempty"`
}

// Service is a web service endpoint type. Its slug doubles as a Format slug.
type Service struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Code is an identifier code within an authority.
type Code struct {
	Value string `json:"value"`
	Href  string `json:"href,omitempty"`
}

// Projection is a coordinate reference system.
type Projection struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Authority Citation `json:"authority"`
	Code      Code     `json:"code"`
	Version   string   `json:"version"`
}

// Individual is a person that can be credited as an author.
type Individual struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"` // "Last, First"
	ORCID string `json:"orcid,omitempty"`
	Email string `json:"email,omitempty"`
}

// Collection is a catalogue item grouping other items.
type Collection struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Href       string `json:"href,omitempty"`
}

// Series is a published map series.
type Series struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Edition string `json:"edition,omitempty"`
}

// KeywordTerm is a single controlled keyword.
type KeywordTerm struct {
	Term string `json:"term"`
	Href string `json:"href,omitempty"`
}

// Keywords is a set of terms from one thesaurus, in its ISO shape.
type Keywords struct {
	Type      string        `json:"type"`
	Thesaurus Citation      `json:"thesaurus"`
	Terms     []KeywordTerm `json:"terms"`
}

// KeywordSet is a named catalogue entry wrapping a thesaurus keyword set.
type KeywordSet struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Keywords
}

// BoundingBox is a geographic bounding box in decimal degrees.
type BoundingBox struct {
	WestLongitude float64 `json:"west_longitude"`
	EastLongitude float64 `json:"east_longitude"`
	SouthLatitude float64 `json:"south_latitude"`
	NorthLatitude float64 `json:"north_latitude"`
}

// GeographicExtent wraps a bounding box.
type GeographicExtent struct {
	BoundingBox BoundingBox `json:"bounding_box"`
}

// Extent is a well known geographic area with its preferred projection.
type Extent struct {
	Slug       string           `json:"slug"`
	Name       string           `json:"name"`
	Projection string           `json:"projection"` // Projection slug
	Geographic GeographicExtent `json:"geographic"`
}

// Idea is a proposed editor feature shown to users for feedback.
type Idea struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Href    string `json:"href,omitempty"`
}

// PhysicalSize is a standard paper size for printed maps.
type PhysicalSize struct {
	Slug     string `json:"slug"`
	Label    string `json:"label"`
	WidthMM  int    `json:"width_mm"`
	HeightMM int    `json:"height_mm"`
}

// DomainConsistency is a profile a record declares conformance with.
type DomainConsistency struct {
	Slug          string   `json:"slug"`
	Specification Citation `json:"specification"`
	Explanation   string   `json:"explanation"`
	Result        bool     `json:"result"`
}

// Permission grants access to a directory object (user or group).
type Permission struct {
	Scheme        string `json:"scheme"`
	SchemeVersion string `json:"schemeVersion"`
	DirectoryID   string `json:"directoryId"`
	ObjectID      string `json:"objectId"`
}

// AccessRestriction is a named access level with the permissions it implies.
type AccessRestriction struct {
	Slug        string       `json:"slug"`
	Restriction string       `json:"restriction"` // ISO restriction code
	Label       string       `json:"label"`
	Permissions []Permission `json:"permissions"`
}

func (f Format) key() string { return f.Slug }
func (l Licence) key() string { return l.Slug }
func (o Organisation) key() string { return o.Slug }
func (s Service) key() string { return s.Slug }
func (p Projection) key() string { return p.Slug }
func (i Individual) key() string { return i.Slug }
func (c Collection) key() string { return c.Slug }
func (s Series) key() string { return s.Slug }
func (k KeywordSet) key() string { return k.Slug }
func (e Extent) key() string { return e.Slug }
func (i Idea) key() string { return i.Slug }
func (p PhysicalSize) key() string { return p.Slug }
func (d DomainConsistency) key() string { return d.Slug }
func (a AccessRestriction) key() string { return a.Slug }

func (f Format) check() error {
	return required("name", f.Name, "url", f.URL)
}

func (l Licence) check() error {
	return required("name", l.Name, "url", l.URL, "statement", l.Statement)
}

func (o Organisation) check() error {
	return required("name", o.Name)
}

func (s Service) check() error {
	return required("name", s.Name)
}

func (p Projection) check() error {
	return required("name", p.Name, "code.value", p.Code.Value, "version", p.Version)
}

func (i Individual) check() error {
	return required("name", i.Name)
}

func (c Collection) check() error {
	return required("name", c.Name, "identifier", c.Identifier)
}

func (s Series) check() error {
	return required("name", s.Name)
}

func (k KeywordSet) check() error {
	if len(k.Terms) == 0 {
		return fmt.Errorf("no terms")
	}
	return required("type", k.Type, "thesaurus.title.value", k.Thesaurus.Title.Value)
}

func (e Extent) check() error {
	b := e.Geographic.BoundingBox
	if b.SouthLatitude > b.NorthLatitude {
		return fmt.Errorf("south latitude %v is north of north latitude %v", b.SouthLatitude, b.NorthLatitude)
	}
	return required("name", e.Name, "projection", e.Projection)
}

func (i Idea) check() error {
	return required("title", i.Title)
}

func (p PhysicalSize) check() error {
	if p.WidthMM <= 0 || p.HeightMM <= 0 {
		return fmt.Errorf("dimensions must be positive")
	}
	return required("label", p.Label)
}

func (d DomainConsistency) check() error {
	return required("specification.title.value", d.Specification.Title.Value, "explanation", d.Explanation)
}

func (a AccessRestriction) check() error {
	return required("restriction", a.Restriction, "label", a.Label)
}

// required takes name/value pairs and reports the first empty value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("missing %s", pairs[i])
		}
	}
	return nil
}
