package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/schema"
)

const queryPageSize = 100

// CreateDatabase creates a database for db under the given parent page and
// returns its ID. Self relations are declared in a follow-up update once the
// ID is known; if that update fails the ID is returned together with the
// error, since the database already exists.
func (c *Client) CreateDatabase(ctx context.Context, parentPageID string, db schema.Database) (string, error) {
	if parentPageID == "" {
		return "", &schema.ValidationError{Field: "parentPageId", Reason: "parent page ID is required"}
	}
	if db.TitleProperty() == "" {
		return "", &schema.ValidationError{Field: string(db.Key), Reason: "schema has no title property"}
	}

	props, deferred := content.DatabaseProperties(db)
	body := map[string]any{
		"parent":     parent{Type: "page_id", PageID: parentPageID},
		"title":      []content.RichText{{Type: "text", Text: &content.Text{Content: db.Name}}},
		"properties": props,
	}

	var created databaseObject
	if err := c.call(ctx, "create_database", http.MethodPost, "/databases", body, &created); err != nil {
		return "", err
	}

	if len(deferred) > 0 {
		patch := map[string]any{"properties": content.SelfRelations(db, created.ID, deferred)}
		if err := c.call(ctx, "update_database", http.MethodPatch, "/databases/"+url.PathEscape(created.ID), patch, nil); err != nil {
			return created.ID, fmt.Errorf("add self relations to %s: %w", db.Name, err)
		}
	}

	return created.ID, nil
}

// QueryDatabase returns every entry matching filter, in sorts order, following
// pagination. filter and sorts are passed through as the service expects
// them and may be nil.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter any, sorts []any) ([]RawRecord, error) {
	if databaseID == "" {
		return nil, &schema.ValidationError{Field: "databaseId", Reason: "database ID is required"}
	}

	var all []RawRecord
	var cursor string
	for page := 1; ; page++ {
		body := map[string]any{"page_size": queryPageSize}
		if filter != nil {
			body["filter"] = filter
		}
		if len(sorts) > 0 {
			body["sorts"] = sorts
		}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var resp listResponse
		if err := c.call(ctx, "query_database", http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", body, &resp); err != nil {
			return nil, fmt.Errorf("query page %d: %w", page, err)
		}
		for _, p := range resp.Results {
			all = append(all, p.raw())
		}

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}

	return all, nil
}

// TitleEquals builds a query filter matching entries whose title property
// equals title.
func TitleEquals(property, title string) map[string]any {
	return map[string]any{
		"property": property,
		"title":    map[string]any{"equals": title},
	}
}
