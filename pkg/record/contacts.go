package record

import (
	"fmt"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

const orcidDescription = "ORCID is an open, non-profit, community-driven effort to create and maintain a registry " +
	"of unique researcher identifiers and a transparent method of linking research activities and outputs to these identifiers."

// OrgPointOfContact builds a contact for an organisation acting in role.
// Email is only set when the organisation has one.
func OrgPointOfContact(org catalogue.Organisation, role string) Contact {
	o := &Organisation{Name: org.Name}
	if org.ROR != "" {
		o.Href = org.ROR
		o.Title = "ror"
	}

	c := Contact{
		Organisation: o,
		Email:        org.Email,
		Phone:        org.Phone,
		Role:         []string{role},
	}
	if org.Address != nil {
		addr := *org.Address
		c.Address = &addr
	}
	if org.OnlineResource != nil {
		res := *org.OnlineResource
		c.OnlineResource = &res
	}
	return c
}

// OrgSlugPointOfContact looks up an organisation by slug and builds a contact for it.
func OrgSlugPointOfContact(cat *catalogue.Catalogue, slug, role string) (Contact, error) {
	org, ok := cat.Organisation(slug)
	if !ok {
		return Contact{}, fmt.Errorf("%w: organisation %q", ErrMissingReference, slug)
	}
	return OrgPointOfContact(org, role), nil
}

// AuthorContact credits an individual, within an organisation, as an author.
// An ORCID, when known, links the individual and replaces the organisation's online resource.
func AuthorContact(ind catalogue.Individual, org catalogue.Organisation) Contact {
	c := OrgPointOfContact(org, RoleAuthor)

	c.Individual = &Individual{Name: ind.Name}
	if ind.ORCID != "" {
		c.Individual.Href = ind.ORCID
		c.Individual.Title = "orcid"
		c.OnlineResource = &OnlineResource{
			Href:        ind.ORCID,
			Title:       "ORCID record",
			Description: orcidDescription,
			Function:    "information",
		}
	}
	if ind.Email != "" {
		c.Email = ind.Email
	}
	return c
}

// distributorSlug routes open datasets to the open data distributor and everything else,
// including closed datasets and collections, to the default distributor.
func distributorSlug(s catalogue.Settings, rt ResourceType, licence catalogue.Licence) string {
	if rt == Dataset && licence.Open {
		return s.OpenDatasetDistributor
	}
	return s.DefaultDistributor
}

// Distributor builds the distributor contact for a resource.
func Distributor(cat *catalogue.Catalogue, s catalogue.Settings, rt ResourceType, licence catalogue.Licence) (Contact, error) {
	return OrgSlugPointOfContact(cat, distributorSlug(s, rt, licence), RoleDistributor)
}

// PublisherOrgSlug returns the organisation publishing a resource. It starts from the
// distributor and overrides closed datasets and collections to the default distributor.
func PublisherOrgSlug(s catalogue.Settings, rt ResourceType, licence catalogue.Licence) (string, error) {
	slug := distributorSlug(s, rt, licence)
	if (rt == Dataset && !licence.Open) || rt == Collection {
		slug = s.DefaultDistributor
	}
	if slug == "" {
		return "", fmt.Errorf("%w: resource type %q, licence %q", ErrPublisherUndetermined, rt, licence.Slug)
	}
	return slug, nil
}

// Publisher builds the publisher contact for a resource.
func Publisher(cat *catalogue.Catalogue, s catalogue.Settings, rt ResourceType, licence catalogue.Licence) (Contact, error) {
	slug, err := PublisherOrgSlug(s, rt, licence)
	if err != nil {
		return Contact{}, err
	}
	c, err := OrgSlugPointOfContact(cat, slug, RolePublisher)
	if err != nil {
		return Contact{}, fmt.Errorf("%w: %v", ErrPublisherUndetermined, err)
	}
	return c, nil
}
