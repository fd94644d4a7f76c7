package notion

import (
	"time"

	"github.com/soulscript/notionkit/internal/content"
)

// AccountInfo describes the integration the credential belongs to.
type AccountInfo struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	WorkspaceName string `json:"workspaceName,omitempty" yaml:"workspaceName,omitempty"`
}

// Page is a page or record created in a database.
type Page struct {
	ID               string    `json:"id" yaml:"id"`
	Title            string    `json:"title" yaml:"title"`
	URL              string    `json:"url" yaml:"url"`
	CreatedAt        time.Time `json:"createdAt" yaml:"createdAt"`
	EditedAt         time.Time `json:"editedAt" yaml:"editedAt"`
	ParentDatabaseID string    `json:"parentDatabaseId" yaml:"parentDatabaseId"`
	// Reused is set when an existing page was found instead of creating one.
	Reused bool `json:"reused,omitempty" yaml:"reused,omitempty"`
}

// RawRecord is a database entry as returned by a query.
type RawRecord struct {
	ID             string
	URL            string
	CreatedTime    time.Time
	LastEditedTime time.Time
	Archived       bool
	Properties     map[string]content.PropertyValue
}

type userObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Bot  *struct {
		WorkspaceName string `json:"workspace_name"`
	} `json:"bot,omitempty"`
}

type parent struct {
	Type       string `json:"type"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type pageObject struct {
	ID             string                           `json:"id"`
	URL            string                           `json:"url"`
	CreatedTime    time.Time                        `json:"created_time"`
	LastEditedTime time.Time                        `json:"last_edited_time"`
	Archived       bool                             `json:"archived"`
	Parent         parent                           `json:"parent"`
	Properties     map[string]content.PropertyValue `json:"properties"`
}

func (p pageObject) raw() RawRecord {
	return RawRecord{
		ID:             p.ID,
		URL:            p.URL,
		CreatedTime:    p.CreatedTime,
		LastEditedTime: p.LastEditedTime,
		Archived:       p.Archived,
		Properties:     p.Properties,
	}
}

type databaseObject struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type listResponse struct {
	Results    []pageObject `json:"results"`
	HasMore    bool         `json:"has_more"`
	NextCursor *string      `json:"next_cursor"`
}
