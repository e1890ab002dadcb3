package record

import (
	"encoding/json"
	"fmt"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// PhysicalDimensions is the printed size of a map product.
type PhysicalDimensions struct {
	WidthMM  int `json:"physical_size_width_mm"`
	HeightMM int `json:"physical_size_height_mm"`
}

// DimensionsFor returns the dimensions of a catalogue paper size.
func DimensionsFor(p catalogue.PhysicalSize) PhysicalDimensions {
	return PhysicalDimensions{WidthMM: p.WidthMM, HeightMM: p.HeightMM}
}

// SupplementalInfo encodes dimensions as the record's supplemental information text.
// Nil dimensions give an empty string, which leaves the element out.
func SupplementalInfo(d *PhysicalDimensions) string {
	if d == nil {
		return ""
	}
	raw, _ := json.Marshal(d) // two ints, cannot fail
	return string(raw)
}

// ParseSupplementalInfo reverses SupplementalInfo. Empty text gives nil dimensions.
func ParseSupplementalInfo(text string) (*PhysicalDimensions, error) {
	if text == "" {
		return nil, nil
	}
	var d PhysicalDimensions
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return nil, fmt.Errorf("unmarshal supplemental information: %w", err)
	}
	return &d, nil
}
