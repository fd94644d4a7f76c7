package records

import "github.com/soulscript/notionkit/internal/schema"

// Feature is an entry of the feature requests database.
type Feature struct {
	Name                  string
	Status                string
	Priority              string
	TargetRelease         string
	UserImpact            string
	TechnicalComplexity   string
	Description           string
	UserStories           string
	TechnicalRequirements string
}

func (Feature) Kind() Kind              { return KindFeature }
func (f Feature) Title() string         { return f.Name }
func (Feature) Schema() schema.Database { return schema.Features() }

// Fields implements Record.
func (f Feature) Fields() []Field {
	fs := []Field{
		title("Feature Name", f.Name),
		choice("Status", f.Status),
		choice("Priority", f.Priority),
	}
	fs = appendChoice(fs, "Target Release", f.TargetRelease)
	fs = append(fs,
		choice("User Impact", f.UserImpact),
		choice("Technical Complexity", f.TechnicalComplexity),
	)
	fs = appendText(fs, "Description", f.Description)
	fs = appendText(fs, "User Stories", f.UserStories)
	return appendText(fs, "Technical Requirements", f.TechnicalRequirements)
}
