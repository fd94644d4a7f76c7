package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/platform/notion"
)

// FakeToken is the credential the fake service accepts.
const FakeToken = "fake-integration-token"

// Fault makes matching requests fail with the given status.
type Fault struct {
	Method string
	// PathPrefix matches the request path, e.g. "/databases".
	PathPrefix string
	// Title, if set, matches only requests creating a database or page with
	// this title.
	Title   string
	Status  int
	Code    string
	Message string
	// Times limits how often the fault fires; zero means always.
	Times int
}

// Call is a request received by the fake service.
type Call struct {
	Method string
	Path   string
	Title  string
}

// FakeDatabase is a database stored by the fake service.
type FakeDatabase struct {
	ID         string
	ParentID   string
	Title      string
	Properties map[string]content.PropertySchema
}

// FakePage is a page stored by the fake service.
type FakePage struct {
	ID         string
	DatabaseID string
	Title      string
	Properties map[string]content.PropertyValue
	Children   []content.Block
	Archived   bool
	CreatedAt  time.Time
}

// FakeNotion is an in-memory stand-in for the content service API. It
// enforces the limits and validation the real service applies to the calls
// used here, and stores what was created so tests can inspect it.
type FakeNotion struct {
	Server  *httptest.Server
	Account notion.AccountInfo

	// OnRequest, if set, is called before each request is handled.
	OnRequest func(r *http.Request)

	mu        sync.Mutex
	databases map[string]*FakeDatabase
	pages     map[string]*FakePage
	order     []string
	faults    []*Fault
	calls     []Call
}

// TB is the part of testing.TB the fixtures need. Both *testing.T and
// GinkgoT() satisfy it.
type TB interface {
	Helper()
	Cleanup(func())
	Fatalf(format string, args ...any)
}

// NewFakeNotion starts a fake service that is closed when the test ends.
func NewFakeNotion(tb TB) *FakeNotion {
	tb.Helper()
	f := &FakeNotion{
		Account: notion.AccountInfo{
			ID:            uuid.NewString(),
			Name:          "notionkit-test",
			Type:          "bot",
			WorkspaceName: "Test Workspace",
		},
		databases: make(map[string]*FakeDatabase),
		pages:     make(map[string]*FakePage),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	tb.Cleanup(f.Server.Close)
	return f
}

// Client returns a client pointed at the fake service.
func (f *FakeNotion) Client(opts ...notion.Option) *notion.Client {
	return notion.NewClient(FakeToken, append([]notion.Option{notion.WithBaseURL(f.Server.URL)}, opts...)...)
}

// Fail registers a fault.
func (f *FakeNotion) Fail(fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fault.Status == 0 {
		fault.Status = http.StatusInternalServerError
	}
	f.faults = append(f.faults, &fault)
}

// FailDatabase makes creation of the database titled title fail.
func (f *FakeNotion) FailDatabase(title string, status int) {
	f.Fail(Fault{Method: http.MethodPost, PathPrefix: "/databases", Title: title, Status: status})
}

// FailPage makes creation of the page or record titled title fail.
func (f *FakeNotion) FailPage(title string, status int) {
	f.Fail(Fault{Method: http.MethodPost, PathPrefix: "/pages", Title: title, Status: status})
}

// Databases returns the stored databases in creation order.
func (f *FakeNotion) Databases() []FakeDatabase {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []FakeDatabase
	for _, id := range f.order {
		if db, ok := f.databases[id]; ok {
			out = append(out, *db)
		}
	}
	return out
}

// Pages returns the stored pages of a database, archived ones included,
// sorted by title.
func (f *FakeNotion) Pages(databaseID string) []FakePage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []FakePage
	for _, p := range f.pages {
		if p.DatabaseID == databaseID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// Page returns a stored page by ID.
func (f *FakeNotion) Page(id string) (FakePage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pages[id]
	if !ok {
		return FakePage{}, false
	}
	return *p, true
}

// Calls returns every request received so far.
func (f *FakeNotion) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount counts requests with the given method and path prefix.
func (f *FakeNotion) CallCount(method, pathPrefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && strings.HasPrefix(c.Path, pathPrefix) {
			n++
		}
	}
	return n
}

// RequestCount counts requests with the given method and exact path.
func (f *FakeNotion) RequestCount(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeNotion) serve(w http.ResponseWriter, r *http.Request) {
	if f.OnRequest != nil {
		f.OnRequest(r)
	}

	var body map[string]json.RawMessage
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "Error parsing JSON body.")
			return
		}
	}
	title := requestTitle(body)

	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Title: title})
	fault := f.matchFault(r.Method, r.URL.Path, title)
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+FakeToken {
		writeError(w, http.StatusUnauthorized, "unauthorized", "API token is invalid.")
		return
	}
	if r.Header.Get("Notion-Version") == "" {
		writeError(w, http.StatusBadRequest, "missing_version", "Notion-Version header failed validation.")
		return
	}
	if fault != nil {
		code, msg := fault.Code, fault.Message
		if code == "" {
			code = "internal_server_error"
		}
		if msg == "" {
			msg = http.StatusText(fault.Status)
		}
		writeError(w, fault.Status, code, msg)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/users/me":
		f.handleMe(w)
	case r.Method == http.MethodPost && r.URL.Path == "/databases":
		f.handleCreateDatabase(w, body)
	case r.Method == http.MethodPatch && len(parts) == 2 && parts[0] == "databases":
		f.handleUpdateDatabase(w, parts[1], body)
	case r.Method == http.MethodPost && len(parts) == 3 && parts[0] == "databases" && parts[2] == "query":
		f.handleQuery(w, parts[1], body)
	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		f.handleCreatePage(w, body)
	case r.Method == http.MethodPatch && len(parts) == 2 && parts[0] == "pages":
		f.handleUpdatePage(w, parts[1], body)
	case r.Method == http.MethodPatch && len(parts) == 3 && parts[0] == "blocks" && parts[2] == "children":
		f.handleAppend(w, parts[1], body)
	default:
		writeError(w, http.StatusNotFound, "invalid_request_url", "Invalid request URL.")
	}
}

// matchFault must be called with f.mu held.
func (f *FakeNotion) matchFault(method, path, title string) *Fault {
	for _, fl := range f.faults {
		if fl.Method != "" && fl.Method != method {
			continue
		}
		if !strings.HasPrefix(path, fl.PathPrefix) {
			continue
		}
		if fl.Title != "" && fl.Title != title {
			continue
		}
		if fl.Times < 0 {
			continue
		}
		if fl.Times > 0 {
			fl.Times--
			if fl.Times == 0 {
				fl.Times = -1
			}
		}
		matched := *fl
		return &matched
	}
	return nil
}

func (f *FakeNotion) handleMe(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "user",
		"id":     f.Account.ID,
		"name":   f.Account.Name,
		"type":   f.Account.Type,
		"bot":    map[string]any{"workspace_name": f.Account.WorkspaceName},
	})
}

type parentRef struct {
	Type       string `json:"type"`
	PageID     string `json:"page_id"`
	DatabaseID string `json:"database_id"`
}

func (f *FakeNotion) handleCreateDatabase(w http.ResponseWriter, body map[string]json.RawMessage) {
	var parent parentRef
	var title []content.RichText
	var props map[string]content.PropertySchema
	if err := decodeFields(body, map[string]any{"parent": &parent, "title": &title, "properties": &props}); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if parent.PageID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "body.parent.page_id should be defined.")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	titles := 0
	for name, p := range props {
		kind := schemaKind(p)
		if kind == "" {
			writeError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("Property %q has no type.", name))
			return
		}
		if kind == "title" {
			titles++
		}
		if p.Relation != nil {
			if _, ok := f.databases[p.Relation.DatabaseID]; !ok {
				writeError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("Relation %q targets an unknown database.", name))
				return
			}
		}
	}
	if titles != 1 {
		writeError(w, http.StatusBadRequest, "validation_error", "Database must have exactly one title property.")
		return
	}

	db := &FakeDatabase{
		ID:         uuid.NewString(),
		ParentID:   parent.PageID,
		Title:      plainText(title),
		Properties: props,
	}
	f.databases[db.ID] = db
	f.order = append(f.order, db.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"object": "database",
		"id":     db.ID,
		"url":    "https://www.notion.so/" + strings.ReplaceAll(db.ID, "-", ""),
	})
}

func (f *FakeNotion) handleUpdateDatabase(w http.ResponseWriter, id string, body map[string]json.RawMessage) {
	var props map[string]content.PropertySchema
	if err := decodeFields(body, map[string]any{"properties": &props}); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	db, ok := f.databases[id]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find database.")
		return
	}
	for name, p := range props {
		if p.Relation != nil {
			if _, ok := f.databases[p.Relation.DatabaseID]; !ok {
				writeError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("Relation %q targets an unknown database.", name))
				return
			}
		}
		db.Properties[name] = p
	}
	writeJSON(w, http.StatusOK, map[string]any{"object": "database", "id": db.ID})
}

func (f *FakeNotion) handleCreatePage(w http.ResponseWriter, body map[string]json.RawMessage) {
	var parent parentRef
	var props map[string]content.PropertyValue
	var children []content.Block
	if err := decodeFields(body, map[string]any{"parent": &parent, "properties": &props, "children": &children}); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if len(children) > notion.MaxBlocksPerRequest {
		writeError(w, http.StatusBadRequest, "validation_error", "body.children.length should be ≤ 100.")
		return
	}
	if msg := checkBlocks(children); msg != "" {
		writeError(w, http.StatusBadRequest, "validation_error", msg)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	db, ok := f.databases[parent.DatabaseID]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find database.")
		return
	}
	if msg := checkProperties(db, props); msg != "" {
		writeError(w, http.StatusBadRequest, "validation_error", msg)
		return
	}

	page := &FakePage{
		ID:         uuid.NewString(),
		DatabaseID: db.ID,
		Title:      pageTitle(db, props),
		Properties: props,
		Children:   children,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	f.pages[page.ID] = page
	writeJSON(w, http.StatusOK, f.pageJSON(page))
}

func (f *FakeNotion) handleUpdatePage(w http.ResponseWriter, id string, body map[string]json.RawMessage) {
	var archived *bool
	var props map[string]content.PropertyValue
	if err := decodeFields(body, map[string]any{"archived": &archived, "properties": &props}); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	page, ok := f.pages[id]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find page.")
		return
	}
	if len(props) > 0 {
		db := f.databases[page.DatabaseID]
		if msg := checkProperties(db, props); msg != "" {
			writeError(w, http.StatusBadRequest, "validation_error", msg)
			return
		}
		for k, v := range props {
			page.Properties[k] = v
		}
		page.Title = pageTitle(db, page.Properties)
	}
	if archived != nil {
		page.Archived = *archived
	}
	writeJSON(w, http.StatusOK, f.pageJSON(page))
}

func (f *FakeNotion) handleAppend(w http.ResponseWriter, id string, body map[string]json.RawMessage) {
	var children []content.Block
	if err := decodeFields(body, map[string]any{"children": &children}); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if len(children) > notion.MaxBlocksPerRequest {
		writeError(w, http.StatusBadRequest, "validation_error", "body.children.length should be ≤ 100.")
		return
	}
	if msg := checkBlocks(children); msg != "" {
		writeError(w, http.StatusBadRequest, "validation_error", msg)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	page, ok := f.pages[id]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find block.")
		return
	}
	page.Children = append(page.Children, children...)
	writeJSON(w, http.StatusOK, map[string]any{"object": "list", "results": []any{}})
}

func (f *FakeNotion) handleQuery(w http.ResponseWriter, id string, body map[string]json.RawMessage) {
	var filter struct {
		Property string `json:"property"`
		Title    *struct {
			Equals string `json:"equals"`
		} `json:"title"`
	}
	var cursor string
	pageSize := 100
	if err := decodeFields(body, map[string]any{"filter": &filter, "start_cursor": &cursor, "page_size": &pageSize}); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if pageSize < 1 || pageSize > 100 {
		writeError(w, http.StatusBadRequest, "validation_error", "body.page_size should be ≤ 100.")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.databases[id]; !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find database.")
		return
	}

	var matches []*FakePage
	for _, p := range f.pages {
		if p.DatabaseID != id || p.Archived {
			continue
		}
		if filter.Title != nil && p.Title != filter.Title.Equals {
			continue
		}
		matches = append(matches, p)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 || n > len(matches) {
			writeError(w, http.StatusBadRequest, "validation_error", "start_cursor is invalid.")
			return
		}
		start = n
	}
	end := min(start+pageSize, len(matches))

	results := make([]any, 0, end-start)
	for _, p := range matches[start:end] {
		results = append(results, f.pageJSON(p))
	}
	resp := map[string]any{"object": "list", "results": results, "has_more": end < len(matches), "next_cursor": nil}
	if end < len(matches) {
		resp["next_cursor"] = strconv.Itoa(end)
	}
	writeJSON(w, http.StatusOK, resp)
}

// pageJSON renders a page the way the service returns it: property values
// carry their type and plain text. Must be called with f.mu held.
func (f *FakeNotion) pageJSON(p *FakePage) map[string]any {
	db := f.databases[p.DatabaseID]
	props := make(map[string]content.PropertyValue, len(p.Properties))
	for name, v := range p.Properties {
		if db != nil {
			v.Type = schemaKind(db.Properties[name])
		}
		v.Title = withPlainText(v.Title)
		v.RichText = withPlainText(v.RichText)
		props[name] = v
	}
	return map[string]any{
		"object":           "page",
		"id":               p.ID,
		"url":              "https://www.notion.so/" + strings.ReplaceAll(p.ID, "-", ""),
		"created_time":     p.CreatedAt.Format(time.RFC3339),
		"last_edited_time": p.CreatedAt.Format(time.RFC3339),
		"archived":         p.Archived,
		"parent":           map[string]any{"type": "database_id", "database_id": p.DatabaseID},
		"properties":       props,
	}
}

func checkProperties(db *FakeDatabase, props map[string]content.PropertyValue) string {
	for name, v := range props {
		s, ok := db.Properties[name]
		if !ok {
			return fmt.Sprintf("%s is not a property that exists.", name)
		}
		for _, seg := range append(append([]content.RichText(nil), v.Title...), v.RichText...) {
			if utf16Len(seg.String()) > content.MaxTextLength {
				return fmt.Sprintf("body.properties.%s text.content.length should be ≤ 2000.", name)
			}
		}
		if v.Select != nil && s.Select != nil && !hasOption(s.Select, v.Select.Name) {
			return fmt.Sprintf("Invalid select option %q for %s.", v.Select.Name, name)
		}
		for _, o := range v.MultiSelect {
			if s.MultiSelect != nil && !hasOption(s.MultiSelect, o.Name) {
				return fmt.Sprintf("Invalid multi_select option %q for %s.", o.Name, name)
			}
		}
	}
	return ""
}

func checkBlocks(blocks []content.Block) string {
	for i, b := range blocks {
		if b.Type == "" {
			return fmt.Sprintf("body.children[%d].type should be defined.", i)
		}
		for _, seg := range blockSegments(b) {
			if utf16Len(seg.String()) > content.MaxTextLength {
				return fmt.Sprintf("body.children[%d].%s.rich_text[0].text.content.length should be ≤ 2000.", i, b.Type)
			}
		}
	}
	return ""
}

func blockSegments(b content.Block) []content.RichText {
	for _, tb := range []*content.TextBlock{b.Paragraph, b.Heading1, b.Heading2, b.Heading3, b.BulletedListItem} {
		if tb != nil {
			return tb.RichText
		}
	}
	if b.Code != nil {
		return b.Code.RichText
	}
	return nil
}

func hasOption(s *content.OptionsSchema, name string) bool {
	for _, o := range s.Options {
		if o.Name == name {
			return true
		}
	}
	return false
}

func schemaKind(p content.PropertySchema) string {
	switch {
	case p.Title != nil:
		return "title"
	case p.RichText != nil:
		return "rich_text"
	case p.People != nil:
		return "people"
	case p.Date != nil:
		return "date"
	case p.Select != nil:
		return "select"
	case p.MultiSelect != nil:
		return "multi_select"
	case p.Number != nil:
		return "number"
	case p.Relation != nil:
		return "relation"
	}
	return ""
}

func pageTitle(db *FakeDatabase, props map[string]content.PropertyValue) string {
	for name, s := range db.Properties {
		if s.Title != nil {
			return plainText(props[name].Title)
		}
	}
	return ""
}

func withPlainText(segs []content.RichText) []content.RichText {
	if segs == nil {
		return nil
	}
	out := make([]content.RichText, len(segs))
	for i, s := range segs {
		s.PlainText = s.String()
		out[i] = s
	}
	return out
}

func plainText(segs []content.RichText) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.String())
	}
	return b.String()
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// requestTitle extracts the title of a database or page creation body.
func requestTitle(body map[string]json.RawMessage) string {
	if raw, ok := body["title"]; ok {
		var segs []content.RichText
		if json.Unmarshal(raw, &segs) == nil {
			return plainText(segs)
		}
	}
	if raw, ok := body["properties"]; ok {
		var props map[string]content.PropertyValue
		if json.Unmarshal(raw, &props) == nil {
			for _, v := range props {
				if len(v.Title) > 0 {
					return plainText(v.Title)
				}
			}
		}
	}
	return ""
}

func decodeFields(body map[string]json.RawMessage, into map[string]any) error {
	for key, dst := range into {
		raw, ok := body[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("body.%s is invalid: %v", key, err)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"object":  "error",
		"status":  status,
		"code":    code,
		"message": message,
	})
}
