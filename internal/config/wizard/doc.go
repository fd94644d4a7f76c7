// Package wizard provides the interactive setup wizard for notionkit.
//
// It uses charmbracelet/huh forms to collect the parent page, the token
// file location, the handle store backend and the concurrency. RunWizard
// returns a Result; BuildConfig converts it to a config.Config and
// WriteConfig writes notionkit.yaml. AskParent is the single-question form
// the setup command shows when no parent page was given on a terminal.
package wizard
