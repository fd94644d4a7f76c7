package records

import (
	"fmt"

	"github.com/soulscript/notionkit/internal/schema"
)

// KindFor returns the record kind stored in the database with the given key.
func KindFor(key schema.Key) (Kind, bool) {
	switch key {
	case schema.KeyIssues:
		return KindIssue, true
	case schema.KeyTasks:
		return KindTask, true
	case schema.KeyFeatures:
		return KindFeature, true
	}
	return "", false
}

// FromFields rebuilds a record of the given kind from property values read
// back from the content service. Fields the variant does not declare are
// ignored.
func FromFields(kind Kind, fields []Field) (Record, error) {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Property] = f
	}
	text := func(name string) string { return byName[name].Text }
	date := func(name string) *Field {
		f, ok := byName[name]
		if !ok || f.Kind != schema.KindDate || f.Date.IsZero() {
			return nil
		}
		return &f
	}

	switch kind {
	case KindIssue:
		i := Issue{
			Name:        text("Title"),
			Status:      text("Status"),
			Priority:    text("Priority"),
			Type:        text("Type"),
			Labels:      byName["Labels"].Options,
			Description: text("Description"),
		}
		if f := date("Due Date"); f != nil {
			i.DueDate = &f.Date
		}
		if f := date("Created Date"); f != nil {
			i.CreatedDate = &f.Date
		}
		return i, nil
	case KindTask:
		t := Task{
			Name:               text("Task Name"),
			Status:             text("Status"),
			Priority:           text("Priority"),
			Sprint:             text("Sprint"),
			Description:        text("Description"),
			AcceptanceCriteria: text("Acceptance Criteria"),
		}
		if f, ok := byName["Story Points"]; ok && f.Kind == schema.KindNumber {
			points := int(f.Number)
			t.StoryPoints = &points
		}
		if f := date("Due Date"); f != nil {
			t.DueDate = &f.Date
		}
		return t, nil
	case KindFeature:
		return Feature{
			Name:                  text("Feature Name"),
			Status:                text("Status"),
			Priority:              text("Priority"),
			TargetRelease:         text("Target Release"),
			UserImpact:            text("User Impact"),
			TechnicalComplexity:   text("Technical Complexity"),
			Description:           text("Description"),
			UserStories:           text("User Stories"),
			TechnicalRequirements: text("Technical Requirements"),
		}, nil
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}
