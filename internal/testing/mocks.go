package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/records"
	"github.com/soulscript/notionkit/internal/schema"
)

// MockResourceClient is a mock implementation of the content service client
// used by the orchestrator.
type MockResourceClient struct {
	mock.Mock
}

// Identity returns the mocked account.
func (m *MockResourceClient) Identity(ctx context.Context) (notion.AccountInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(notion.AccountInfo), args.Error(1)
}

// CreateDatabase returns the mocked database ID.
func (m *MockResourceClient) CreateDatabase(ctx context.Context, parentPageID string, db schema.Database) (string, error) {
	args := m.Called(ctx, parentPageID, db)
	return args.String(0), args.Error(1)
}

// CreatePage returns the mocked page.
func (m *MockResourceClient) CreatePage(ctx context.Context, parentDatabaseID string, p content.Payload) (notion.Page, error) {
	args := m.Called(ctx, parentDatabaseID, p)
	return args.Get(0).(notion.Page), args.Error(1)
}

// CreateRecord returns the mocked record page.
func (m *MockResourceClient) CreateRecord(ctx context.Context, databaseID string, rec records.Record) (notion.Page, error) {
	args := m.Called(ctx, databaseID, rec)
	return args.Get(0).(notion.Page), args.Error(1)
}

// QueryDatabase returns the mocked entries.
func (m *MockResourceClient) QueryDatabase(ctx context.Context, databaseID string, filter any, sorts []any) ([]notion.RawRecord, error) {
	args := m.Called(ctx, databaseID, filter, sorts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notion.RawRecord), args.Error(1)
}

// MatchDatabase matches a schema.Database argument by key.
func MatchDatabase(key schema.Key) any {
	return mock.MatchedBy(func(db schema.Database) bool { return db.Key == key })
}
