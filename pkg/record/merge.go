package record

// DeepMerge combines override into base and returns a new object.
//
// For each key in override: when both sides hold objects the two are merged
// recursively, otherwise the override value replaces the base value. Arrays and
// scalars are replaced whole. Keys only present in base are kept. Neither argument
// is modified and the result shares no objects or arrays with either. Typed maps and
// slices are treated as their generic JSON equivalents.
func DeepMerge(base, override Object) Object {
	out := Clone(base)
	if out == nil {
		out = Object{}
	}

	for key, value := range override {
		value = cloneValue(value)
		baseObj, baseIsObj := out[key].(map[string]any)
		overObj, overIsObj := value.(map[string]any)
		if baseIsObj && overIsObj {
			out[key] = DeepMerge(baseObj, overObj)
			continue
		}
		out[key] = value
	}
	return out
}
