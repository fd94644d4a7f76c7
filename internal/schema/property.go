package schema

// Kind is the content-service type of a database property.
type Kind string

const (
	KindTitle       Kind = "title"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindPeople      Kind = "people"
	KindDate        Kind = "date"
	KindNumber      Kind = "number"
	KindRichText    Kind = "rich_text"
	KindRelation    Kind = "relation"
)

// RelationSelf marks a relation property that points back at its own database.
const RelationSelf = "self"

// Option is one member of a select or multi-select option set.
type Option struct {
	Label string
	Color string
}

// Property is a named, typed column of a database schema.
type Property struct {
	Name    string
	Kind    Kind
	Options []Option

	// NumberFormat applies to KindNumber only.
	NumberFormat string
	// RelationTarget applies to KindRelation only. RelationSelf or a database ID.
	RelationTarget string
}

// HasOptions reports whether the property carries a closed option set.
func (p Property) HasOptions() bool {
	return p.Kind == KindSelect || p.Kind == KindMultiSelect
}

// HasOption reports whether label is a member of the property's option set.
func (p Property) HasOption(label string) bool {
	for _, o := range p.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}

// Labels returns the option labels in declaration order.
func (p Property) Labels() []string {
	labels := make([]string, len(p.Options))
	for i, o := range p.Options {
		labels[i] = o.Label
	}
	return labels
}

func opts(pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{Label: pairs[i], Color: pairs[i+1]})
	}
	return out
}
