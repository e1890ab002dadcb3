package record

import (
	"fmt"
	"strings"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// Identifier namespaces.
const (
	NamespaceDoi    = "doi"
	NamespaceAlias  = "alias.data.bas.ac.uk"
	NamespaceSelf   = "data.bas.ac.uk"
	NamespaceGitlab = "gitlab.data.bas.ac.uk"
	NamespaceEsri   = "esri.com"
)

const doiBase = "https://doi.org"

// DOI resolver hosts stripped before formatting, longest first.
// doiScheme is the "doi:" URI scheme some sources prefix DOIs with.
const doiScheme = "doi:"

var doiHosts = []string{
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"https://doi.org/",
	"http://doi.org/",
}

// preferenceOrder lists namespaces from most to least preferred for citations.
var preferenceOrder = []string{NamespaceDoi, NamespaceAlias, NamespaceSelf}

// PreferredReferenceIdentifier picks the identifier used to reference a resource in a
// citation: DOI, then alias, then the catalogue item itself.
// When none is present the empty identifier {"", "", "x"} is returned, so citations
// can always be rendered for incomplete records.
func PreferredReferenceIdentifier(ids []Identifier) Identifier {
	for _, ns := range preferenceOrder {
		for _, id := range ids {
			if id.Namespace == ns {
				return id
			}
		}
	}
	return Identifier{Namespace: "x"}
}

// FormatReference returns the text used for an identifier within a citation.
func FormatReference(id Identifier) (string, error) {
	switch id.Namespace {
	case NamespaceSelf, NamespaceAlias:
		return id.Href, nil
	case NamespaceDoi:
		return FormatDoi(id.Identifier)
	default:
		return id.Identifier, nil
	}
}

// FormatDoi formats a DOI as a resolver URL with an upper-cased suffix, following
// CrossCite display guidelines. Surrounding whitespace and a "doi:" prefix are removed.
// Values already formatted are returned unchanged.
//
//	10.5285/93a1479e-8379-4820-b510-ef8a7639d29d
//	https://doi.org/10.5285/93A1479E-8379-4820-B510-EF8A7639D29D
func FormatDoi(doi string) (string, error) {
	value := strings.TrimSpace(doi)
	if value == "" {
		return "", nil
	}

	lower := strings.ToLower(value)
	for _, host := range doiHosts {
		if strings.HasPrefix(lower, host) {
			value = value[len(host):]
			break
		}
	}
	if strings.HasPrefix(strings.ToLower(value), doiScheme) {
		value = strings.TrimSpace(value[len(doiScheme):])
	}

	prefix, suffix, ok := strings.Cut(value, "/")
	if !ok || strings.Contains(suffix, "/") {
		return "", fmt.Errorf("%w: %q must contain exactly one '/'", ErrInvalidDoi, doi)
	}
	if prefix == "" || suffix == "" {
		return "", fmt.Errorf("%w: %q has an empty prefix or suffix", ErrInvalidDoi, doi)
	}

	return fmt.Sprintf("%s/%s/%s", doiBase, prefix, strings.ToUpper(suffix)), nil
}

// SelfIdentifier identifies a record by its catalogue item URL.
func SelfIdentifier(fileIdentifier string, s catalogue.Settings) Identifier {
	return Identifier{
		Identifier: fileIdentifier,
		Href:       s.ItemsBaseURL + fileIdentifier,
		Namespace:  NamespaceSelf,
	}
}

// aliasPrefixes are the URL path prefixes for aliases per resource type.
var aliasPrefixes = map[ResourceType]string{
	Collection: "collections",
	Dataset:    "datasets",
	Product:    "maps",
}

// AliasIdentifier identifies a record by a human readable alias, e.g. "maps/foo".
func AliasIdentifier(rt ResourceType, alias string, s catalogue.Settings) (Identifier, error) {
	prefix, ok := aliasPrefixes[rt]
	if !ok {
		return Identifier{}, fmt.Errorf("no alias prefix for resource type %q", rt)
	}
	alias = strings.Trim(alias, "/")
	if alias == "" || strings.ContainsAny(alias, " /") {
		return Identifier{}, fmt.Errorf("invalid alias %q", alias)
	}
	value := prefix + "/" + alias
	return Identifier{
		Identifier: value,
		Href:       s.SiteBaseURL + value,
		Namespace:  NamespaceAlias,
	}, nil
}

// DoiIdentifier identifies a record by DOI. doi may be bare or a resolver URL.
func DoiIdentifier(doi string) (Identifier, error) {
	href, err := FormatDoi(doi)
	if err != nil {
		return Identifier{}, err
	}
	if href == "" {
		return Identifier{}, fmt.Errorf("%w: empty", ErrInvalidDoi)
	}
	return Identifier{
		Identifier: strings.TrimPrefix(href, doiBase+"/"),
		Href:       href,
		Namespace:  NamespaceDoi,
	}, nil
}

// GitlabIdentifier links a record to the issue tracking its production.
func GitlabIdentifier(issueURL string) Identifier {
	return Identifier{Identifier: issueURL, Href: issueURL, Namespace: NamespaceGitlab}
}

// EsriIdentifier links a record to an ArcGIS Online item.
func EsriIdentifier(itemURL string) Identifier {
	return Identifier{Identifier: itemURL, Href: itemURL, Namespace: NamespaceEsri}
}

// DoiPossible reports whether a DOI can be minted. Only the Polar Data Centre mints DOIs,
// and it only publishes open datasets.
func DoiPossible(rt ResourceType, licence catalogue.Licence) bool {
	return rt == Dataset && licence.Open
}
