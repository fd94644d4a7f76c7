// Package records defines the structured entries written into the provisioned
// databases: issues, tasks and feature requests.
package records

import (
	"fmt"
	"time"

	"github.com/soulscript/notionkit/internal/schema"
)

// Kind tags a record variant.
type Kind string

const (
	KindIssue   Kind = "issue"
	KindTask    Kind = "task"
	KindFeature Kind = "feature"
)

// Record is implemented by Issue, Task and Feature.
type Record interface {
	Kind() Kind
	Title() string
	// Schema returns the database definition the record is written to.
	Schema() schema.Database
	// Fields returns the populated fields only; unset optionals are absent.
	Fields() []Field
}

// Field is one populated value of a record, addressed by property name.
// Exactly one of the value members is meaningful, selected by Kind.
type Field struct {
	Property string
	Kind     schema.Kind
	Text     string
	Options  []string
	Number   float64
	Date     time.Time
}

func title(prop, v string) Field  { return Field{Property: prop, Kind: schema.KindTitle, Text: v} }
func choice(prop, v string) Field { return Field{Property: prop, Kind: schema.KindSelect, Text: v} }

func appendText(fs []Field, prop, v string) []Field {
	if v == "" {
		return fs
	}
	return append(fs, Field{Property: prop, Kind: schema.KindRichText, Text: v})
}

func appendDate(fs []Field, prop string, v *time.Time) []Field {
	if v == nil || v.IsZero() {
		return fs
	}
	return append(fs, Field{Property: prop, Kind: schema.KindDate, Date: *v})
}

func appendChoice(fs []Field, prop, v string) []Field {
	if v == "" {
		return fs
	}
	return append(fs, choice(prop, v))
}

// Validate checks a record against its schema: the title must be present and
// every option-valued field must be a member of the declared option set.
func Validate(r Record) error {
	if r == nil {
		return &schema.ValidationError{Reason: "record is nil"}
	}
	db := r.Schema()
	if r.Title() == "" {
		return &schema.ValidationError{Field: db.TitleProperty(), Reason: "title is required"}
	}
	for _, f := range r.Fields() {
		switch f.Kind {
		case schema.KindSelect:
			if err := db.ValidateOption(f.Property, f.Text); err != nil {
				return fmt.Errorf("%s %q: %w", r.Kind(), r.Title(), err)
			}
		case schema.KindMultiSelect:
			if err := db.ValidateOption(f.Property, f.Options...); err != nil {
				return fmt.Errorf("%s %q: %w", r.Kind(), r.Title(), err)
			}
		case schema.KindNumber:
			if f.Number < 0 {
				return &schema.ValidationError{Field: f.Property, Reason: "must not be negative"}
			}
		}
	}
	return nil
}
