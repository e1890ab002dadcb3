package record

import (
	"fmt"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// BoundingExtentID identifies the primary extent of a record.
const BoundingExtentID = "bounding"

// NewExtent builds an identified extent. temporal may be nil.
func NewExtent(identifier string, geographic GeographicExtent, temporal *TemporalExtent) Extent {
	e := Extent{Identifier: identifier, Geographic: geographic}
	if temporal != nil {
		t := *temporal
		e.Temporal = &t
	}
	return e
}

// NewTemporalExtent builds a period from a start date and an optional end date.
func NewTemporalExtent(start ImpreciseDate, end *ImpreciseDate) (*TemporalExtent, error) {
	t := &TemporalExtent{Period: Period{Start: start.ISO}}
	if end != nil {
		if end.Time.Before(start.Time) {
			return nil, fmt.Errorf("%w: period ends (%s) before it starts (%s)", ErrInvalidDate, end.ISO, start.ISO)
		}
		t.Period.End = end.ISO
	}
	return t, nil
}

// ProjectionInfo returns the ISO reference system of a projection.
func ProjectionInfo(p catalogue.Projection) ReferenceSystemInfo {
	return ReferenceSystemInfo{
		Authority: p.Authority,
		Code:      p.Code,
		Version:   p.Version,
	}
}
