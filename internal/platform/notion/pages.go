package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/records"
	"github.com/soulscript/notionkit/internal/schema"
)

// MaxBlocksPerRequest is the service limit on children in one request.
const MaxBlocksPerRequest = 100

// CreatePage creates a page in a database from a prepared payload. Bodies
// longer than MaxBlocksPerRequest are sent in batches: the first with the
// creation, the rest appended to the new page.
func (c *Client) CreatePage(ctx context.Context, parentDatabaseID string, p content.Payload) (Page, error) {
	if parentDatabaseID == "" {
		return Page{}, &schema.ValidationError{Field: "parentDatabaseId", Reason: "parent database ID is required"}
	}

	first, rest := p.Children, []content.Block(nil)
	if len(first) > MaxBlocksPerRequest {
		first, rest = p.Children[:MaxBlocksPerRequest], p.Children[MaxBlocksPerRequest:]
	}

	body := map[string]any{
		"parent":     parent{Type: "database_id", DatabaseID: parentDatabaseID},
		"properties": p.Properties,
	}
	if len(first) > 0 {
		body["children"] = first
	}

	var created pageObject
	if err := c.call(ctx, "create_page", http.MethodPost, "/pages", body, &created); err != nil {
		return Page{}, err
	}

	page := Page{
		ID:               created.ID,
		Title:            payloadTitle(p),
		URL:              created.URL,
		CreatedAt:        created.CreatedTime,
		EditedAt:         created.LastEditedTime,
		ParentDatabaseID: parentDatabaseID,
	}

	for len(rest) > 0 {
		n := min(len(rest), MaxBlocksPerRequest)
		if err := c.AppendBlocks(ctx, page.ID, rest[:n]); err != nil {
			return page, fmt.Errorf("append body of %q: %w", page.Title, err)
		}
		rest = rest[n:]
	}

	return page, nil
}

// CreateRecord validates rec against its schema and creates it in the
// database. Invalid records fail before any request is made.
func (c *Client) CreateRecord(ctx context.Context, databaseID string, rec records.Record) (Page, error) {
	if rec == nil {
		return Page{}, &schema.ValidationError{Reason: "record is nil"}
	}
	if err := records.Validate(rec); err != nil {
		return Page{}, err
	}
	p, err := content.Record(rec, rec.Schema())
	if err != nil {
		return Page{}, err
	}
	return c.CreatePage(ctx, databaseID, p)
}

// AppendBlocks appends up to MaxBlocksPerRequest children to a block or page.
func (c *Client) AppendBlocks(ctx context.Context, blockID string, blocks []content.Block) error {
	if len(blocks) > MaxBlocksPerRequest {
		return &schema.ValidationError{Field: "children", Reason: fmt.Sprintf("at most %d blocks per request", MaxBlocksPerRequest)}
	}
	body := map[string]any{"children": blocks}
	return c.call(ctx, "append_blocks", http.MethodPatch, "/blocks/"+url.PathEscape(blockID)+"/children", body, nil)
}

// UpdatePage replaces the given properties of a page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]content.PropertyValue) error {
	if pageID == "" {
		return &schema.ValidationError{Field: "pageId", Reason: "page ID is required"}
	}
	body := map[string]any{"properties": properties}
	return c.call(ctx, "update_page", http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil)
}

// ArchivePage soft-deletes a page; the service keeps its history.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	if pageID == "" {
		return &schema.ValidationError{Field: "pageId", Reason: "page ID is required"}
	}
	body := map[string]any{"archived": true}
	return c.call(ctx, "archive_page", http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil)
}

func payloadTitle(p content.Payload) string {
	for _, v := range p.Properties {
		if len(v.Title) > 0 {
			var title string
			for _, seg := range v.Title {
				title += seg.String()
			}
			return title
		}
	}
	return ""
}
