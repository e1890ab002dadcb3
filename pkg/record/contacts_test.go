package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

func TestOrgPointOfContact(t *testing.T) {
	cat := catalogue.MustDefault()
	org, ok := cat.Organisation("bas_magic")
	require.True(t, ok)

	c := OrgPointOfContact(org, RolePointOfContact)

	require.NotNil(t, c.Organisation)
	assert.Equal(t, Organisation{
		Name:  "Mapping and Geographic Information Centre, British Antarctic Survey",
		Href:  "https://ror.org/01rhff309",
		Title: "ror",
	}, *c.Organisation)
	assert.Equal(t, "magic@bas.ac.uk", c.Email)
	assert.Equal(t, []string{RolePointOfContact}, c.Role)
	require.NotNil(t, c.Address)
	assert.Equal(t, "Cambridge", c.Address.City)
	require.NotNil(t, c.OnlineResource)
	assert.Equal(t, "https://www.bas.ac.uk/teams/magic", c.OnlineResource.Href)
	assert.Nil(t, c.Individual)

	// the contact must not alias catalogue data
	c.Address.City = "Oxford"
	again, _ := cat.Organisation("bas_magic")
	assert.Equal(t, "Cambridge", again.Address.City)
}

func TestOrgPointOfContactMinimal(t *testing.T) {
	c := OrgPointOfContact(catalogue.Organisation{Slug: "x", Name: "X"}, RoleAuthor)
	assert.Equal(t, Contact{Organisation: &Organisation{Name: "X"}, Role: []string{RoleAuthor}}, c)
}

func TestOrgSlugPointOfContact(t *testing.T) {
	cat := catalogue.MustDefault()

	_, err := OrgSlugPointOfContact(cat, "bas", RolePublisher)
	require.NoError(t, err)

	_, err = OrgSlugPointOfContact(cat, "unknown", RolePublisher)
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestAuthorContact(t *testing.T) {
	cat := catalogue.MustDefault()
	org, _ := cat.Organisation("bas")

	t.Run("with orcid", func(t *testing.T) {
		ind, ok := cat.Individual("watson_constance")
		require.True(t, ok)

		c := AuthorContact(ind, org)
		assert.Equal(t, &Individual{Name: "Watson, Constance", Href: "https://orcid.org/0000-0001-0000-0001", Title: "orcid"}, c.Individual)
		assert.Equal(t, "conwat@bas.ac.uk", c.Email)
		assert.Equal(t, "https://orcid.org/0000-0001-0000-0001", c.OnlineResource.Href)
		assert.Equal(t, "British Antarctic Survey", c.Organisation.Name)
		assert.True(t, c.HasRole(RoleAuthor))
	})

	t.Run("without orcid", func(t *testing.T) {
		ind, ok := cat.Individual("fennell_felix")
		require.True(t, ok)

		c := AuthorContact(ind, org)
		assert.Equal(t, &Individual{Name: "Fennell, Felix"}, c.Individual)
		assert.Equal(t, "https://www.bas.ac.uk", c.OnlineResource.Href)
	})
}

func TestPublisherOrgSlug(t *testing.T) {
	s := testSettings(t)
	open := catalogue.Licence{Slug: "OGL_UK_3_0", Open: true}
	closed := catalogue.Licence{Slug: "X_ALL_RIGHTS_RESERVED_1"}

	tests := []struct {
		name        string
		rt          ResourceType
		licence     catalogue.Licence
		publisher   string
		distributor string
	}{
		{"open dataset", Dataset, open, "nerc_eds_pdc", "nerc_eds_pdc"},
		{"closed dataset", Dataset, closed, "bas_magic", "bas_magic"},
		{"open product", Product, open, "bas_magic", "bas_magic"},
		{"closed product", Product, closed, "bas_magic", "bas_magic"},
		{"collection", Collection, open, "bas_magic", "bas_magic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PublisherOrgSlug(s, tt.rt, tt.licence)
			require.NoError(t, err)
			assert.Equal(t, tt.publisher, got)
			assert.Equal(t, tt.distributor, distributorSlug(s, tt.rt, tt.licence))
		})
	}
}

func TestPublisherUndetermined(t *testing.T) {
	_, err := PublisherOrgSlug(catalogue.Settings{}, Product, catalogue.Licence{})
	assert.ErrorIs(t, err, ErrPublisherUndetermined)

	s := testSettings(t)
	s.DefaultDistributor = "unknown"
	_, err = Publisher(catalogue.MustDefault(), s, Product, catalogue.Licence{})
	assert.ErrorIs(t, err, ErrPublisherUndetermined)
}

func TestDistributorAndPublisherContacts(t *testing.T) {
	cat := catalogue.MustDefault()
	s := testSettings(t)
	open, _ := cat.Licence("CC_BY_4_0")

	d, err := Distributor(cat, s, Dataset, open)
	require.NoError(t, err)
	assert.Equal(t, "NERC EDS UK Polar Data Centre", d.Organisation.Name)
	assert.Equal(t, []string{RoleDistributor}, d.Role)

	p, err := Publisher(cat, s, Product, open)
	require.NoError(t, err)
	assert.Equal(t, "Mapping and Geographic Information Centre, British Antarctic Survey", p.Organisation.Name)
	assert.Equal(t, []string{RolePublisher}, p.Role)
}
