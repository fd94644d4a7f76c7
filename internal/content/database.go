package content

import "github.com/soulscript/notionkit/internal/schema"

// DatabaseProperties builds the property declarations of a database creation
// request. Relations that target the database itself cannot be declared until
// the database has an ID; their names are returned as deferred and are added
// afterwards with SelfRelations.
func DatabaseProperties(db schema.Database) (props map[string]PropertySchema, deferred []string) {
	props = make(map[string]PropertySchema, len(db.Properties))
	for _, p := range db.Properties {
		if p.Kind == schema.KindRelation && p.RelationTarget == schema.RelationSelf {
			deferred = append(deferred, p.Name)
			continue
		}
		props[p.Name] = propertySchema(p, p.RelationTarget)
	}
	return props, deferred
}

// SelfRelations declares the deferred self relations of db against its
// created ID.
func SelfRelations(db schema.Database, databaseID string, names []string) map[string]PropertySchema {
	props := make(map[string]PropertySchema, len(names))
	for _, name := range names {
		if p, ok := db.Property(name); ok {
			props[name] = propertySchema(p, databaseID)
		}
	}
	return props
}

func propertySchema(p schema.Property, relationTarget string) PropertySchema {
	switch p.Kind {
	case schema.KindTitle:
		return PropertySchema{Title: &Empty{}}
	case schema.KindRichText:
		return PropertySchema{RichText: &Empty{}}
	case schema.KindPeople:
		return PropertySchema{People: &Empty{}}
	case schema.KindDate:
		return PropertySchema{Date: &Empty{}}
	case schema.KindSelect:
		return PropertySchema{Select: &OptionsSchema{Options: options(p.Options)}}
	case schema.KindMultiSelect:
		return PropertySchema{MultiSelect: &OptionsSchema{Options: options(p.Options)}}
	case schema.KindNumber:
		format := p.NumberFormat
		if format == "" {
			format = "number"
		}
		return PropertySchema{Number: &NumberSchema{Format: format}}
	case schema.KindRelation:
		return PropertySchema{Relation: &RelationSchema{
			DatabaseID:     relationTarget,
			Type:           "single_property",
			SingleProperty: &Empty{},
		}}
	}
	return PropertySchema{}
}

func options(in []schema.Option) []SelectValue {
	out := make([]SelectValue, len(in))
	for i, o := range in {
		out[i] = SelectValue{Name: o.Label, Color: o.Color}
	}
	return out
}
