package loader

// Merge returns a new map holding base overlaid with over. Nested maps
// merge key by key; any other value in over replaces the one in base.
// Neither argument is modified.
func Merge(base, over map[string]any) map[string]any {
	out := Clone(base)
	if out == nil {
		out = make(map[string]any, len(over))
	}
	for key, v := range over {
		overMap, ok := v.(map[string]any)
		if baseMap, isMap := out[key].(map[string]any); ok && isMap {
			out[key] = Merge(baseMap, overMap)
			continue
		}
		out[key] = cloneValue(v)
	}
	return out
}

// Clone deep copies a settings map. Slices and nested maps are copied;
// other values are shared.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Clone(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	}
	return v
}
