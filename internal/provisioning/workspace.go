package provisioning

import "github.com/soulscript/notionkit/internal/schema"

// Workspace identifies the three provisioned databases. A partially filled
// Workspace describes an interrupted run.
type Workspace struct {
	IssuesDatabaseID   string `json:"issuesDatabaseId" yaml:"issuesDatabaseId"`
	TasksDatabaseID    string `json:"tasksDatabaseId" yaml:"tasksDatabaseId"`
	FeaturesDatabaseID string `json:"featuresDatabaseId" yaml:"featuresDatabaseId"`
}

// ID returns the database ID for key, or "" if it is not set.
func (w Workspace) ID(key schema.Key) string {
	switch key {
	case schema.KeyIssues:
		return w.IssuesDatabaseID
	case schema.KeyTasks:
		return w.TasksDatabaseID
	case schema.KeyFeatures:
		return w.FeaturesDatabaseID
	}
	return ""
}

// Set records the database ID for key.
func (w *Workspace) Set(key schema.Key, id string) {
	switch key {
	case schema.KeyIssues:
		w.IssuesDatabaseID = id
	case schema.KeyTasks:
		w.TasksDatabaseID = id
	case schema.KeyFeatures:
		w.FeaturesDatabaseID = id
	}
}

// Created lists the keys with an ID, in catalog order.
func (w Workspace) Created() []schema.Key {
	var keys []schema.Key
	for _, db := range schema.All() {
		if w.ID(db.Key) != "" {
			keys = append(keys, db.Key)
		}
	}
	return keys
}

// Missing lists the keys without an ID, in catalog order.
func (w Workspace) Missing() []schema.Key {
	var keys []schema.Key
	for _, db := range schema.All() {
		if w.ID(db.Key) == "" {
			keys = append(keys, db.Key)
		}
	}
	return keys
}

// Complete reports whether all three databases are known.
func (w Workspace) Complete() bool { return len(w.Missing()) == 0 }

// IsZero reports whether no database is known.
func (w Workspace) IsZero() bool { return w == Workspace{} }
