package provisioning

import (
	"embed"
	"fmt"
)

//go:embed pages/*.md
var pageFS embed.FS

// Document is a documentation page created in the features database.
type Document struct {
	Title string
	Prose string
}

var documentFiles = []struct {
	title string
	file  string
}{
	{"SoulScript Project Overview", "pages/overview.md"},
	{"API Documentation", "pages/api.md"},
	{"Development Guide", "pages/devguide.md"},
}

// DefaultDocuments returns the documentation pages of a new workspace, in
// creation order.
func DefaultDocuments() []Document {
	docs := make([]Document, 0, len(documentFiles))
	for _, f := range documentFiles {
		data, err := pageFS.ReadFile(f.file)
		if err != nil {
			panic(fmt.Sprintf("embedded page %s: %v", f.file, err))
		}
		docs = append(docs, Document{Title: f.title, Prose: string(data)})
	}
	return docs
}
