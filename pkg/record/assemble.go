package record

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

const (
	defaultLanguage     = "eng"
	defaultCharacterSet = "utf8"
	dateStampLayout     = "2006-01-02"
)

// NewFileIdentifier returns a fresh random file identifier.
func NewFileIdentifier() string {
	return uuid.NewString()
}

// NewSkeleton returns the record every assembly starts from: fixed language and character
// set, the metadata point of contact, a date stamp of now and the domain consistency profile.
// Resource level content is empty.
func NewSkeleton(now time.Time, cat *catalogue.Catalogue, s catalogue.Settings) (Object, error) {
	contact, err := OrgSlugPointOfContact(cat, s.MetadataContact, RolePointOfContact)
	if err != nil {
		return nil, fmt.Errorf("metadata contact: %w", err)
	}
	profile, ok := cat.DomainConsistency(s.DomainConsistency)
	if !ok {
		return nil, fmt.Errorf("%w: domain consistency %q", ErrMissingReference, s.DomainConsistency)
	}

	rec := Record{
		Schema: s.SchemaURL,
		Metadata: Metadata{
			Language:     defaultLanguage,
			CharacterSet: defaultCharacterSet,
			Contacts:     []Contact{contact},
			DateStamp:    now.UTC().Format(dateStampLayout),
		},
		Identification: Identification{
			Language:     defaultLanguage,
			CharacterSet: defaultCharacterSet,
			DomainConsistency: []DomainConsistency{{
				Specification: profile.Specification,
				Explanation:   profile.Explanation,
				Result:        profile.Result,
			}},
		},
	}
	return ToObject(rec)
}

// Assembler merges section fragments over a fixed skeleton. It holds no other state and
// is safe for concurrent use.
type Assembler struct {
	skeleton Object
}

// NewAssembler builds the skeleton once for repeated assembly.
func NewAssembler(now time.Time, cat *catalogue.Catalogue, s catalogue.Settings) (*Assembler, error) {
	skeleton, err := NewSkeleton(now, cat, s)
	if err != nil {
		return nil, err
	}
	return &Assembler{skeleton: skeleton}, nil
}

// Skeleton returns a copy of the assembler's starting record.
func (a *Assembler) Skeleton() Object {
	return Clone(a.skeleton)
}

// Assemble deep-merges fragments over the skeleton in the order given. Later fragments win
// where they overlap. Neither the skeleton nor the fragments are modified.
func (a *Assembler) Assemble(fragments ...Fragment) Object {
	out := Clone(a.skeleton)
	for _, f := range fragments {
		out = DeepMerge(out, f.Value)
	}
	return out
}

// AssembleRecord is Assemble followed by Decode.
func (a *Assembler) AssembleRecord(fragments ...Fragment) (Record, error) {
	return Decode(a.Assemble(fragments...))
}

// VisibleFragments drops fragments whose section does not apply to rt.
// Fragments are returned unchanged when rt is not a known resource type.
func VisibleFragments(rt ResourceType, fragments []Fragment) []Fragment {
	if _, ok := hiddenSections[rt]; !ok {
		return fragments
	}
	out := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if ShowSection(f.Section, rt) {
			out = append(out, f)
		}
	}
	return out
}

// Decode converts an assembled record into typed ISO structs.
func Decode(o Object) (Record, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Marshal serialises an assembled record as indented JSON. Object keys are sorted, so equal
// records give identical text.
func Marshal(o Object) ([]byte, error) {
	raw, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return raw, nil
}
