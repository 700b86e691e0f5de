package ingest

// Record is one loosely-typed mapping out of the upstream payload. The
// accessors absorb missing keys and wrong types so formatters can read
// optional fields without type-switching at every call site.
type Record map[string]any

func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

// Str returns the string under key, or "" when absent or not a string.
func (r Record) Str(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return s
}

// StrPtr returns a pointer to the string under key, or nil when absent,
// empty or not a string.
func (r Record) StrPtr(key string) *string {
	s := r.Str(key)
	if s == "" {
		return nil
	}
	return &s
}

// Bool returns the bool under key, false when absent or not a bool.
func (r Record) Bool(key string) bool {
	if r == nil {
		return false
	}
	b, _ := r[key].(bool)
	return b
}

// Map returns the nested record under key, or nil.
func (r Record) Map(key string) Record {
	if r == nil {
		return nil
	}
	m, _ := AsRecord(r[key])
	return m
}

// List returns the records of the list under key, dropping entries that are
// not mappings. A missing key or a non-list value yields nil.
func (r Record) List(key string) []Record {
	if r == nil {
		return nil
	}
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	items := make([]Record, 0, len(raw))
	for _, v := range raw {
		if m, ok := AsRecord(v); ok {
			items = append(items, m)
		}
	}
	return items
}

// Has reports whether key is present, regardless of its type.
func (r Record) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r[key]
	return ok
}
