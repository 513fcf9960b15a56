package compose

import "sort"

// Projection is a field whitelist. A nil or empty value keeps the field as
// is; a non-empty value whitelists the fields of an embedded document or of
// each document in an embedded list.
type Projection map[string]Projection

// Apply returns a document with exactly the keys of p. Keys missing from
// doc are present with a nil value.
func (p Projection) Apply(doc Document) Document {
	out := make(Document, len(p))
	for key, sub := range p {
		out[key] = projectValue(doc[key], sub)
	}
	return out
}

func projectValue(v any, sub Projection) any {
	if len(sub) == 0 {
		return v
	}
	switch x := v.(type) {
	case Document:
		return sub.Apply(x)
	case map[string]any:
		return sub.Apply(x)
	case []Document:
		out := make([]Document, len(x))
		for i := range x {
			out[i] = sub.Apply(x[i])
		}
		return out
	case []map[string]any:
		out := make([]Document, len(x))
		for i := range x {
			out[i] = sub.Apply(x[i])
		}
		return out
	}
	return nil
}

func (p Projection) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields builds a flat projection.
func Fields(names ...string) Projection {
	p := make(Projection, len(names))
	for _, n := range names {
		p[n] = nil
	}
	return p
}

// With returns a copy of p with field whitelisted by sub.
func (p Projection) With(field string, sub Projection) Projection {
	out := make(Projection, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[field] = sub
	return out
}
