// Package validation checks records against the embedded ISO 19115-2 profile schema.
//
// Every violation is reported, never only the first. Results use the error shape of
// the Ajv JSON Schema validator (instancePath, schemaPath, keyword, params, message),
// which is what users see.
package validation

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema.json
var recordSchema []byte

// RecordSchema returns a copy of the embedded record schema.
func RecordSchema() []byte {
	return bytes.Clone(recordSchema)
}

// ErrUnparsableInput is returned when record text is not JSON at all, as opposed to
// JSON that fails the schema. Its text is shown to users as is.
var ErrUnparsableInput = errors.New("Cannot parse input as JSON.")

// ImpreciseDateFormat is the schema format for dates known to year, month or day,
// optionally with a UTC time of day.
const ImpreciseDateFormat = "imprecise-date"

var impreciseDatePattern = regexp.MustCompile(`^\d{4}(?:-\d{2}(?:-\d{2}(?:T\d{2}(?::\d{2}(?::\d{2})?)?\+00:00)?)?)?$`)

// schemaLocation is the base URL compiled schemas are registered under. It is never fetched.
const schemaLocation = "https://isorecord.invalid/schemas/"

var fallbackPrinter = message.NewPrinter(language.English)

// ValidationError is a single schema violation.
type ValidationError struct {
	InstancePath string         `json:"instancePath"`
	SchemaPath   string         `json:"schemaPath"`
	Keyword      string         `json:"keyword"`
	Params       map[string]any `json:"params"`
	Message      string         `json:"message"`
}

func (e ValidationError) String() string {
	if e.InstancePath == "" {
		return e.Message
	}
	return e.InstancePath + " " + e.Message
}

// Validator validates records against one compiled schema. It is safe for concurrent use.
type Validator struct {
	schema  *jsonschema.Schema
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for per-validation debug output.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithMetrics records validation outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// New returns a validator for schemaJSON, reusing an earlier compilation of the same document.
func New(schemaJSON []byte, opts ...Option) (*Validator, error) {
	sch, err := Compile(schemaJSON)
	if err != nil {
		return nil, err
	}
	v := &Validator{schema: sch, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

var defaultValidator = sync.OnceValues(func() (*Validator, error) {
	return New(recordSchema)
})

// Default returns the validator for the embedded record schema, compiled on first use.
func Default() (*Validator, error) {
	return defaultValidator()
}

// compiled caches schemas by the SHA-256 of their source document.
var compiled sync.Map

// Compile compiles a draft-07 schema with format assertions on and the imprecise-date
// format registered. Identical documents are compiled once per process.
func Compile(schemaJSON []byte) (*jsonschema.Schema, error) {
	sum := sha256.Sum256(schemaJSON)
	key := hex.EncodeToString(sum[:])
	if sch, ok := compiled.Load(key); ok {
		return sch.(*jsonschema.Schema), nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft7)
	c.AssertFormat()
	c.RegisterFormat(&jsonschema.Format{
		Name:     ImpreciseDateFormat,
		Validate: validateImpreciseDate,
	})

	loc := schemaLocation + key + ".json"
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	sch, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	actual, _ := compiled.LoadOrStore(key, sch)
	return actual.(*jsonschema.Schema), nil
}

func validateImpreciseDate(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if !impreciseDatePattern.MatchString(s) {
		return fmt.Errorf("%q is not a year, year-month or year-month-day date", s)
	}
	return nil
}

// ValidateRecordText parses text as JSON and validates it.
// Malformed JSON gives ErrUnparsableInput; a valid record gives an empty list.
func (v *Validator) ValidateRecordText(text string) ([]ValidationError, error) {
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		v.metrics.observe(resultUnparsable, 0, nil)
		return nil, ErrUnparsableInput
	}
	return v.validate(inst), nil
}

// ValidateRecord validates any JSON serialisable record, e.g. an assembled record.Object
// or a typed record.Record.
func (v *Validator) ValidateRecord(rec any) ([]ValidationError, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return v.validate(inst), nil
}

func (v *Validator) validate(inst any) []ValidationError {
	start := time.Now()
	errs := []ValidationError{}

	err := v.schema.Validate(inst)
	var verr *jsonschema.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		collect(verr, &errs)
		slices.SortStableFunc(errs, func(a, b ValidationError) int {
			return cmp.Or(
				cmp.Compare(a.InstancePath, b.InstancePath),
				cmp.Compare(a.SchemaPath, b.SchemaPath),
			)
		})
	default:
		errs = append(errs, ValidationError{Params: map[string]any{}, Message: err.Error()})
	}

	elapsed := time.Since(start)
	result := resultValid
	if len(errs) > 0 {
		result = resultInvalid
	}
	v.metrics.observe(result, elapsed, errs)
	v.logger.Debug("record validated", "result", result, "errors", len(errs), "duration", elapsed)
	return errs
}

// collect flattens a validation error tree into leaf violations. anyOf and oneOf are
// reported as a single violation rather than one per failed branch.
func collect(e *jsonschema.ValidationError, out *[]ValidationError) {
	switch e.ErrorKind.(type) {
	case *kind.AnyOf, *kind.OneOf:
		*out = append(*out, convert(e)...)
		return
	}
	if len(e.Causes) == 0 {
		*out = append(*out, convert(e)...)
		return
	}
	for _, cause := range e.Causes {
		collect(cause, out)
	}
}

// convert maps a leaf error to Ajv shaped violations. A required error with several
// missing properties becomes one violation per property.
func convert(e *jsonschema.ValidationError) []ValidationError {
	kwPath := e.ErrorKind.KeywordPath()
	base := ValidationError{
		InstancePath: instancePath(e.InstanceLocation),
		SchemaPath:   schemaPath(e.SchemaURL, kwPath),
		Params:       map[string]any{},
	}
	if len(kwPath) > 0 {
		base.Keyword = kwPath[len(kwPath)-1]
	}

	with := func(message string, params map[string]any) ValidationError {
		ve := base
		ve.Message = message
		ve.Params = params
		return ve
	}

	switch k := e.ErrorKind.(type) {
	case *kind.Required:
		out := make([]ValidationError, 0, len(k.Missing))
		for _, p := range k.Missing {
			out = append(out, with(
				fmt.Sprintf("must have required property '%s'", p),
				map[string]any{"missingProperty": p},
			))
		}
		return out
	case *kind.AdditionalProperties:
		out := make([]ValidationError, 0, len(k.Properties))
		for _, p := range k.Properties {
			out = append(out, with(
				"must NOT have additional properties",
				map[string]any{"additionalProperty": p},
			))
		}
		return out
	case *kind.Type:
		want := strings.Join(k.Want, ",")
		return []ValidationError{with("must be "+want, map[string]any{"type": want})}
	case *kind.Enum:
		return []ValidationError{with("must be equal to one of the allowed values", map[string]any{"allowedValues": k.Want})}
	case *kind.Const:
		return []ValidationError{with("must be equal to constant", map[string]any{"allowedValue": k.Want})}
	case *kind.Format:
		return []ValidationError{with(fmt.Sprintf("must match format %q", k.Want), map[string]any{"format": k.Want})}
	case *kind.Pattern:
		return []ValidationError{with(fmt.Sprintf("must match pattern %q", k.Want), map[string]any{"pattern": k.Want})}
	case *kind.MinItems:
		return []ValidationError{with(fmt.Sprintf("must NOT have fewer than %d items", k.Want), map[string]any{"limit": k.Want})}
	case *kind.MaxItems:
		return []ValidationError{with(fmt.Sprintf("must NOT have more than %d items", k.Want), map[string]any{"limit": k.Want})}
	case *kind.MinLength:
		return []ValidationError{with(fmt.Sprintf("must NOT have fewer than %d characters", k.Want), map[string]any{"limit": k.Want})}
	case *kind.MaxLength:
		return []ValidationError{with(fmt.Sprintf("must NOT have more than %d characters", k.Want), map[string]any{"limit": k.Want})}
	case *kind.Minimum:
		limit, _ := k.Want.Float64()
		return []ValidationError{with(fmt.Sprintf("must be >= %v", limit), map[string]any{"comparison": ">=", "limit": limit})}
	case *kind.Maximum:
		limit, _ := k.Want.Float64()
		return []ValidationError{with(fmt.Sprintf("must be <= %v", limit), map[string]any{"comparison": "<=", "limit": limit})}
	case *kind.AnyOf:
		return []ValidationError{with("must match a schema in anyOf", map[string]any{})}
	case *kind.OneOf:
		return []ValidationError{with("must match exactly one schema in oneOf", map[string]any{})}
	case *kind.FalseSchema:
		return []ValidationError{with("boolean schema is false", map[string]any{})}
	default:
		return []ValidationError{with(e.ErrorKind.LocalizedString(fallbackPrinter), map[string]any{})}
	}
}

// instancePath renders a location as a JSON pointer, "" for the document root.
func instancePath(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		t = strings.ReplaceAll(t, "~", "~0")
		escaped[i] = strings.ReplaceAll(t, "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}

// schemaPath renders the keyword location relative to the schema document, e.g.
// "#/definitions/hierarchy_level/enum".
func schemaPath(schemaURL string, keywordPath []string) string {
	_, fragment, _ := strings.Cut(schemaURL, "#")
	p := "#" + fragment
	for _, kw := range keywordPath {
		p += "/" + kw
	}
	return p
}

// ValidateRecordText validates text with the default validator.
func ValidateRecordText(text string) ([]ValidationError, error) {
	v, err := Default()
	if err != nil {
		return nil, err
	}
	return v.ValidateRecordText(text)
}

// ValidateRecord validates rec with the default validator.
func ValidateRecord(rec any) ([]ValidationError, error) {
	v, err := Default()
	if err != nil {
		return nil, err
	}
	return v.ValidateRecord(rec)
}
