package provisioning

import (
	"time"

	"github.com/soulscript/notionkit/internal/records"
)

// DefaultSamples returns the sample records seeded into a new workspace:
// one issue, one task and one feature request. Dates are relative to now.
func DefaultSamples(now time.Time) []records.Record {
	due := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, 7)
	points := 8

	return []records.Record{
		records.Issue{
			Name:        "Voice input not working on Safari",
			Status:      "Open",
			Priority:    "High",
			Type:        "Bug",
			Labels:      []string{"frontend", "ui/ux"},
			Description: "Users report that voice input is not working in Safari. This affects the core journaling experience.",
			DueDate:     &due,
		},
		records.Task{
			Name:        "Implement theme clustering for analytics",
			Status:      "To Do",
			Priority:    "Medium",
			Sprint:      "Current",
			StoryPoints: &points,
			Description: "Use AI to cluster journal entries by theme and show the insights on the dashboard.",
			AcceptanceCriteria: "- AI analyzes journal entries for common themes\n" +
				"- Dashboard displays theme clusters\n" +
				"- Users can filter by theme\n" +
				"- Export includes the theme analysis",
		},
		records.Feature{
			Name:                "Mobile App Development",
			Status:              "Proposed",
			Priority:            "High",
			UserImpact:          "High",
			TechnicalComplexity: "High",
			Description:         "Native iOS and Android apps for a better experience on mobile.",
			UserStories: "As a mobile user, I want to journal on my phone so that I can capture thoughts anywhere.\n" +
				"As a user, I want offline support so that I can journal without a connection.",
			TechnicalRequirements: "- React Native or Flutter implementation\n" +
				"- Offline data sync\n" +
				"- Push notifications for daily prompts\n" +
				"- Biometric authentication\n" +
				"- App store deployment",
		},
	}
}
