package records

import (
	"time"

	"github.com/soulscript/notionkit/internal/schema"
)

// Issue is an entry of the issues and bugs database.
type Issue struct {
	Name        string
	Status      string
	Priority    string
	Type        string
	Labels      []string
	Description string
	DueDate     *time.Time
	CreatedDate *time.Time
}

func (Issue) Kind() Kind              { return KindIssue }
func (i Issue) Title() string         { return i.Name }
func (Issue) Schema() schema.Database { return schema.Issues() }

// Fields implements Record.
func (i Issue) Fields() []Field {
	fs := []Field{
		title("Title", i.Name),
		choice("Status", i.Status),
		choice("Priority", i.Priority),
		choice("Type", i.Type),
	}
	fs = appendDate(fs, "Created Date", i.CreatedDate)
	fs = appendDate(fs, "Due Date", i.DueDate)
	if len(i.Labels) > 0 {
		fs = append(fs, Field{Property: "Labels", Kind: schema.KindMultiSelect, Options: i.Labels})
	}
	return appendText(fs, "Description", i.Description)
}
