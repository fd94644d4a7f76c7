package testing

import (
	"context"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/schema"
)

// SeedDatabases creates the databases for keys under parentID, as an earlier
// run would have, and returns their IDs.
func (f *FakeNotion) SeedDatabases(tb TB, parentID string, keys ...schema.Key) map[schema.Key]string {
	tb.Helper()
	c := f.Client()
	ids := make(map[schema.Key]string, len(keys))
	for _, key := range keys {
		db, ok := schema.ByKey(key)
		if !ok {
			tb.Fatalf("unknown database key %q", key)
		}
		id, err := c.CreateDatabase(context.Background(), parentID, db)
		if err != nil {
			tb.Fatalf("seed database %s: %v", key, err)
		}
		ids[key] = id
	}
	return ids
}

// SeedPage creates a page titled title in a seeded database and returns its ID.
func (f *FakeNotion) SeedPage(tb TB, databaseID string, db schema.Database, title string) string {
	tb.Helper()
	page, err := f.Client().CreatePage(context.Background(), databaseID, content.Page(db.TitleProperty(), title, ""))
	if err != nil {
		tb.Fatalf("seed page %q: %v", title, err)
	}
	return page.ID
}
