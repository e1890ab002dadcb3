//go:build js && wasm

// Package main provides WASM bindings for record assembly, validation and citation.
// This allows the browser editor to check records as they are edited.
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"
	"time"

	"github.com/dlovans/isorecord/pkg/catalogue"
	"github.com/dlovans/isorecord/pkg/record"
	"github.com/dlovans/isorecord/pkg/validation"
)

func main() {
	js.Global().Set("IsoRecordValidate", js.FuncOf(validate))
	js.Global().Set("IsoRecordAssemble", js.FuncOf(assemble))
	js.Global().Set("IsoRecordCite", js.FuncOf(cite))
	js.Global().Set("IsoRecordTemplates", js.FuncOf(templates))
	js.Global().Set("IsoRecordShowSection", js.FuncOf(showSection))

	// Keep the Go runtime alive
	select {}
}

// validate is the JS-callable wrapper for validation.ValidateRecordText()
// Usage: IsoRecordValidate(jsonString) -> { result: ValidationError[], error?: string }
func validate(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return makeError("IsoRecordValidate requires 1 argument: jsonText")
	}

	errs, err := validation.ValidateRecordText(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	return makeJSONResult(errs)
}

// assemble merges fragments over a new skeleton.
// Usage: IsoRecordAssemble(fragmentsJson, resourceType?) -> { result: object, error?: string }
// fragmentsJson is an array of {section, value} objects. When resourceType is given,
// fragments for hidden sections are dropped.
func assemble(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return makeError("IsoRecordAssemble requires 1 argument: fragmentsJson")
	}

	var raw []struct {
		Section string        `json:"section"`
		Value   record.Object `json:"value"`
	}
	if err := json.Unmarshal([]byte(args[0].String()), &raw); err != nil {
		return makeError("Cannot parse fragments as JSON.")
	}
	fragments := make([]record.Fragment, 0, len(raw))
	for _, f := range raw {
		fragments = append(fragments, record.RawFragment(f.Section, f.Value))
	}
	if len(args) > 1 && args[1].Type() == js.TypeString {
		fragments = record.VisibleFragments(record.ResourceType(args[1].String()), fragments)
	}

	cat, s, err := reference()
	if err != nil {
		return makeError(err.Error())
	}
	a, err := record.NewAssembler(time.Now(), cat, s)
	if err != nil {
		return makeError(err.Error())
	}
	return makeJSONResult(a.Assemble(fragments...))
}

// cite renders a citation for an assembled record.
// Usage: IsoRecordCite(recordJson, templateLabel) -> { result: string, error?: string }
func cite(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return makeError("IsoRecordCite requires 2 arguments: recordJson, templateLabel")
	}

	var o record.Object
	if err := json.Unmarshal([]byte(args[0].String()), &o); err != nil {
		return makeError(validation.ErrUnparsableInput.Error())
	}
	rec, err := record.Decode(o)
	if err != nil {
		return makeError(err.Error())
	}
	tmpl, ok := record.ParseCitationTemplate(args[1].String())
	if !ok {
		return makeError("Unknown citation template.")
	}

	cat, s, err := reference()
	if err != nil {
		return makeError(err.Error())
	}
	citation, err := record.Cite(rec, tmpl, cat, s)
	if err != nil {
		return makeError(err.Error())
	}
	return map[string]any{
		"result": citation,
	}
}

// templates lists the citation templates for a resource.
// Usage: IsoRecordTemplates(resourceType, licenceOpen) -> { result: string[] }
func templates(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return makeError("IsoRecordTemplates requires 2 arguments: resourceType, licenceOpen")
	}

	available := record.FilterTemplates(record.ResourceType(args[0].String()), args[1].Truthy())
	labels := make([]any, len(available))
	for i, t := range available {
		labels[i] = string(t)
	}
	return map[string]any{
		"result": labels,
	}
}

// showSection reports whether an editor section applies to a resource type.
// Usage: IsoRecordShowSection(section, resourceType) -> boolean
func showSection(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return false
	}
	return record.ShowSection(args[0].String(), record.ResourceType(args[1].String()))
}

// reference returns the embedded catalogue and its settings.
func reference() (*catalogue.Catalogue, catalogue.Settings, error) {
	cat, err := catalogue.Default()
	if err != nil {
		return nil, catalogue.Settings{}, err
	}
	s, err := cat.Settings()
	if err != nil {
		return nil, catalogue.Settings{}, fmt.Errorf("catalogue settings: %w", err)
	}
	return cat, s, nil
}

// makeError creates a JS-friendly error response
func makeError(msg string) map[string]any {
	return map[string]any{
		"error": msg,
	}
}

// makeJSONResult creates a JS-friendly success response. Values pass through JSON so
// that js.ValueOf only sees maps, slices and scalars it can convert.
func makeJSONResult(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return makeError(err.Error())
	}
	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return makeError(err.Error())
	}
	return map[string]any{
		"result": result,
	}
}
