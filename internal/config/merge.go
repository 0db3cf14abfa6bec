package config

// Merge deep-merges overrides into a copy of base, left to right.
//
// A mapping value in an override is merged key by key into the mapping at
// the same key (replacing any non-mapping value there); every other value
// replaces the accumulated value wholesale. Overrides that are not
// map[string]any are ignored. Neither base nor the overrides are modified,
// and no mapping in the result is shared with an input.
func Merge(base map[string]any, overrides ...any) any {
	result := cloneMap(base)
	for _, o := range overrides {
		src, ok := o.(map[string]any)
		if !ok {
			continue
		}
		mergeInto(result, src)
	}
	return result
}

type mergePair struct {
	dst map[string]any
	src map[string]any
}

func mergeInto(dst, src map[string]any) {
	work := []mergePair{{dst: dst, src: src}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		for k, v := range p.src {
			child, isMap := v.(map[string]any)
			if !isMap {
				p.dst[k] = cloneValue(v)
				continue
			}
			existing, ok := p.dst[k].(map[string]any)
			if !ok {
				existing = make(map[string]any, len(child))
				p.dst[k] = existing
			}
			work = append(work, mergePair{dst: existing, src: child})
		}
	}
}

// cloneMap copies m and every mapping nested below it.
func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	if m == nil {
		return out
	}
	mergeInto(out, m)
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			if m, ok := e.(map[string]any); ok {
				out[i] = cloneMap(m)
				continue
			}
			out[i] = e
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
