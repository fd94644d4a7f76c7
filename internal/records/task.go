package records

import (
	"time"

	"github.com/soulscript/notionkit/internal/schema"
)

// Task is an entry of the development tasks database.
type Task struct {
	Name               string
	Status             string
	Priority           string
	Sprint             string
	StoryPoints        *int
	DueDate            *time.Time
	Description        string
	AcceptanceCriteria string
}

func (Task) Kind() Kind              { return KindTask }
func (t Task) Title() string         { return t.Name }
func (Task) Schema() schema.Database { return schema.Tasks() }

// Fields implements Record.
func (t Task) Fields() []Field {
	fs := []Field{
		title("Task Name", t.Name),
		choice("Status", t.Status),
		choice("Priority", t.Priority),
		choice("Sprint", t.Sprint),
	}
	if t.StoryPoints != nil {
		fs = append(fs, Field{Property: "Story Points", Kind: schema.KindNumber, Number: float64(*t.StoryPoints)})
	}
	fs = appendDate(fs, "Due Date", t.DueDate)
	fs = appendText(fs, "Description", t.Description)
	return appendText(fs, "Acceptance Criteria", t.AcceptanceCriteria)
}
