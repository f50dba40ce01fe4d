package relay

// Defaults is the explicit policy for generations that carry no text.
// It is the only place where an empty upstream answer is replaced.
type Defaults struct {
	EmptyText string
	EmptyCode string
}

// TextOr returns text when the upstream produced some, otherwise the
// fallback for field.
func (d Defaults) TextOr(field Field, text string, ok bool) string {
	if ok && text != "" {
		return text
	}
	if field == FieldCode {
		if d.EmptyCode != "" {
			return d.EmptyCode
		}
		return DefaultEmptyCode
	}
	if d.EmptyText != "" {
		return d.EmptyText
	}
	return DefaultEmptyText
}
