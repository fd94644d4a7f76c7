package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/records"
	"github.com/soulscript/notionkit/internal/schema"
)

// Query output formats.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// QueryOptions holds the flags of the query command.
type QueryOptions struct {
	ConfigPath string
	Database   string
	// DatabaseID bypasses the handle store lookup.
	DatabaseID string
	ParentID   string
	Title      string
	Output     string
}

var (
	queryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	queryDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// queryRow is one decoded database entry.
type queryRow struct {
	ID     string
	URL    string
	Record records.Record
}

// Query lists the entries of one of the workspace databases, decoded into
// issues, tasks or features.
func Query(ctx context.Context, opts QueryOptions) error {
	db, ok := schema.ByKey(schema.Key(strings.ToLower(opts.Database)))
	if !ok {
		return fmt.Errorf("unknown database %q (want %s, %s or %s)", opts.Database, schema.KeyIssues, schema.KeyTasks, schema.KeyFeatures)
	}
	if opts.Output == "" {
		opts.Output = OutputTable
	}
	if opts.Output != OutputTable && opts.Output != OutputYAML {
		return fmt.Errorf("unknown output format %q (want %s or %s)", opts.Output, OutputTable, OutputYAML)
	}

	cfg, client, err := connect(opts.ConfigPath)
	if err != nil {
		return err
	}

	databaseID := opts.DatabaseID
	if databaseID == "" {
		parent := opts.ParentID
		if parent == "" {
			parent = cfg.ParentPageID
		}
		if parent == "" {
			return fmt.Errorf("no parent page: pass --parent or --database-id")
		}
		if parent, err = notion.NormalizeID(parent); err != nil {
			return fmt.Errorf("invalid parent page: %w", err)
		}

		store, err := newHandleStore(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to open handle store: %w", err)
		}
		ws, err := store.Load(ctx, parent)
		if err != nil {
			return fmt.Errorf("failed to load workspace handle: %w", err)
		}
		databaseID = ws.ID(db.Key)
		if databaseID == "" {
			return fmt.Errorf("no %s database recorded for parent page %s (run 'notionkit setup' first)", db.Key, parent)
		}
	}

	var filter any
	if opts.Title != "" {
		filter = notion.TitleEquals(db.TitleProperty(), opts.Title)
	}
	sorts := []any{map[string]any{"timestamp": "created_time", "direction": "ascending"}}

	raw, err := client.QueryDatabase(ctx, databaseID, filter, sorts)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", db.Name, err)
	}

	rows := make([]queryRow, 0, len(raw))
	for _, r := range raw {
		if r.Archived {
			continue
		}
		rec, err := content.ParseRecord(db, r.Properties)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping entry %s: %v\n", r.ID, err)
			continue
		}
		rows = append(rows, queryRow{ID: r.ID, URL: r.URL, Record: rec})
	}

	if opts.Output == OutputYAML {
		out, err := renderQueryYAML(rows)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	fmt.Print(renderQueryTable(db, rows))
	return nil
}

// renderQueryTable lists title, status and priority of each entry.
func renderQueryTable(db schema.Database, rows []queryRow) string {
	var b strings.Builder

	b.WriteString(queryHeaderStyle.Render(fmt.Sprintf("%s (%d)", db.Name, len(rows))))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(queryDimStyle.Render("  no entries"))
		b.WriteString("\n")
		return b.String()
	}

	width := len(db.TitleProperty())
	for _, r := range rows {
		width = max(width, len(r.Record.Title()))
	}

	b.WriteString(queryDimStyle.Render(fmt.Sprintf("  %-*s  %-14s  %-10s  %s", width, strings.ToUpper(db.TitleProperty()), "STATUS", "PRIORITY", "ID")))
	b.WriteString("\n")
	for _, r := range rows {
		fields := fieldMap(r.Record)
		b.WriteString(fmt.Sprintf("  %-*s  %-14s  %-10s  %s\n", width, r.Record.Title(), fields["Status"].Text, fields["Priority"].Text, r.ID))
	}
	return b.String()
}

// renderQueryYAML writes every decoded field of each entry.
func renderQueryYAML(rows []queryRow) (string, error) {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		entry := map[string]any{
			"id":   r.ID,
			"kind": string(r.Record.Kind()),
		}
		if r.URL != "" {
			entry["url"] = r.URL
		}
		props := make(map[string]any)
		for _, f := range r.Record.Fields() {
			props[f.Property] = fieldValue(f)
		}
		entry["properties"] = props
		out = append(out, entry)
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entries: %w", err)
	}
	return string(data), nil
}

func fieldMap(r records.Record) map[string]records.Field {
	m := make(map[string]records.Field)
	for _, f := range r.Fields() {
		m[f.Property] = f
	}
	return m
}

func fieldValue(f records.Field) any {
	switch f.Kind {
	case schema.KindMultiSelect:
		return f.Options
	case schema.KindNumber:
		return f.Number
	case schema.KindDate:
		return f.Date.Format(time.DateOnly)
	default:
		return f.Text
	}
}
