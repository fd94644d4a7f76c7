package content

import (
	"fmt"
	"time"

	"github.com/soulscript/notionkit/internal/records"
	"github.com/soulscript/notionkit/internal/schema"
)

const dateLayout = "2006-01-02"

// SchemaMismatchError reports a record field with no matching property in the
// target schema. It signals drift between the catalog and a record type.
type SchemaMismatchError struct {
	Database schema.Key
	Field    string
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch in %s database: field %q %s", e.Database, e.Field, e.Reason)
}

// Record builds the property payload of a record for the given schema.
// Option values are checked against the schema's option sets, so an invalid
// record fails here, before anything is sent.
func Record(r records.Record, db schema.Database) (Payload, error) {
	if r == nil {
		return Payload{}, &schema.ValidationError{Reason: "record is nil"}
	}
	if r.Title() == "" {
		return Payload{}, &schema.ValidationError{Field: db.TitleProperty(), Reason: "title is required"}
	}

	props := make(map[string]PropertyValue)
	for _, f := range r.Fields() {
		p, ok := db.Property(f.Property)
		if !ok {
			return Payload{}, &SchemaMismatchError{Database: db.Key, Field: f.Property, Reason: "has no property"}
		}
		if p.Kind != f.Kind {
			return Payload{}, &SchemaMismatchError{
				Database: db.Key,
				Field:    f.Property,
				Reason:   fmt.Sprintf("is %s but the property is %s", f.Kind, p.Kind),
			}
		}

		switch f.Kind {
		case schema.KindTitle:
			props[p.Name] = PropertyValue{Title: richText(f.Text)}
		case schema.KindRichText:
			props[p.Name] = PropertyValue{RichText: richText(f.Text)}
		case schema.KindSelect:
			if err := db.ValidateOption(p.Name, f.Text); err != nil {
				return Payload{}, err
			}
			props[p.Name] = PropertyValue{Select: &SelectValue{Name: f.Text}}
		case schema.KindMultiSelect:
			if err := db.ValidateOption(p.Name, f.Options...); err != nil {
				return Payload{}, err
			}
			values := make([]SelectValue, len(f.Options))
			for i, o := range f.Options {
				values[i] = SelectValue{Name: o}
			}
			props[p.Name] = PropertyValue{MultiSelect: values}
		case schema.KindDate:
			props[p.Name] = PropertyValue{Date: &DateValue{Start: formatDate(f.Date)}}
		case schema.KindNumber:
			n := f.Number
			props[p.Name] = PropertyValue{Number: &n}
		default:
			return Payload{}, &SchemaMismatchError{Database: db.Key, Field: f.Property, Reason: fmt.Sprintf("has unsupported kind %s", f.Kind)}
		}
	}

	return Payload{Properties: props}, nil
}

// ParseRecord reads a record of the schema's kind back from property values
// returned by the service. Properties the schema does not declare, and empty
// values, are skipped.
func ParseRecord(db schema.Database, props map[string]PropertyValue) (records.Record, error) {
	kind, ok := records.KindFor(db.Key)
	if !ok {
		return nil, fmt.Errorf("no record kind for database %s", db.Key)
	}

	var fields []records.Field
	for _, p := range db.Properties {
		v, ok := props[p.Name]
		if !ok {
			continue
		}
		f := records.Field{Property: p.Name, Kind: p.Kind}
		switch p.Kind {
		case schema.KindTitle:
			f.Text = joinText(v.Title)
		case schema.KindRichText:
			f.Text = joinText(v.RichText)
		case schema.KindSelect:
			if v.Select == nil {
				continue
			}
			f.Text = v.Select.Name
		case schema.KindMultiSelect:
			if len(v.MultiSelect) == 0 {
				continue
			}
			for _, o := range v.MultiSelect {
				f.Options = append(f.Options, o.Name)
			}
		case schema.KindDate:
			if v.Date == nil || v.Date.Start == "" {
				continue
			}
			t, err := parseDate(v.Date.Start)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", p.Name, err)
			}
			f.Date = t
		case schema.KindNumber:
			if v.Number == nil {
				continue
			}
			f.Number = *v.Number
		default:
			continue
		}
		if (f.Kind == schema.KindTitle || f.Kind == schema.KindRichText) && f.Text == "" {
			continue
		}
		fields = append(fields, f)
	}

	return records.FromFields(kind, fields)
}

// formatDate sends midnight in the value's own location as a calendar date,
// anything else as a UTC timestamp.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.UTC().Format(time.RFC3339)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t.UTC(), nil
}
