package record

import "github.com/dlovans/isorecord/pkg/catalogue"

const (
	AssociationLargerWorkCitation = "largerWorkCitation"
	InitiativeCollection          = "collection"
)

// NewAggregation relates a record to another catalogue item.
func NewAggregation(identifier, association, initiative string, s catalogue.Settings) Aggregation {
	return Aggregation{
		AssociationType: association,
		InitiativeType:  initiative,
		Identifier: Identifier{
			Identifier: identifier,
			Href:       s.ItemsBaseURL + identifier,
			Namespace:  NamespaceSelf,
		},
	}
}

// CollectionAggregation records that an item is part of a collection (child to parent).
func CollectionAggregation(c catalogue.Collection, s catalogue.Settings) Aggregation {
	return NewAggregation(c.Identifier, AssociationLargerWorkCitation, InitiativeCollection, s)
}
