package schema

import (
	"fmt"
	"strings"
)

// Key identifies one of the provisioned databases.
type Key string

const (
	KeyIssues   Key = "issues"
	KeyTasks    Key = "tasks"
	KeyFeatures Key = "features"
)

// Database is the declarative definition of a record database.
type Database struct {
	Key        Key
	Name       string
	Properties []Property
}

// Property returns the property with the given name.
func (d Database) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// TitleProperty returns the name of the schema's title property.
func (d Database) TitleProperty() string {
	for _, p := range d.Properties {
		if p.Kind == KindTitle {
			return p.Name
		}
	}
	return ""
}

// ValidateOption checks that every value is a member of the named property's
// option set.
func (d Database) ValidateOption(name string, values ...string) error {
	p, ok := d.Property(name)
	if !ok {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("no property %q in %s schema", name, d.Key)}
	}
	if !p.HasOptions() {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("property %q is %s, not an option set", name, p.Kind)}
	}
	for _, v := range values {
		if !p.HasOption(v) {
			return &ValidationError{
				Field:  name,
				Reason: fmt.Sprintf("%q is not one of [%s]", v, strings.Join(p.Labels(), ", ")),
			}
		}
	}
	return nil
}

// Issues returns the schema of the issues and bugs database.
func Issues() Database {
	return Database{
		Key:  KeyIssues,
		Name: "Issues & Bugs",
		Properties: []Property{
			{Name: "Title", Kind: KindTitle},
			{Name: "Status", Kind: KindSelect, Options: opts(
				"Open", "red", "In Progress", "yellow", "Resolved", "green", "Closed", "gray")},
			{Name: "Priority", Kind: KindSelect, Options: opts(
				"Low", "blue", "Medium", "yellow", "High", "orange", "Critical", "red")},
			{Name: "Type", Kind: KindSelect, Options: opts(
				"Bug", "red", "Feature", "green", "Enhancement", "blue", "Documentation", "purple")},
			{Name: "Assignee", Kind: KindPeople},
			{Name: "Reporter", Kind: KindPeople},
			{Name: "Created Date", Kind: KindDate},
			{Name: "Due Date", Kind: KindDate},
			{Name: "Labels", Kind: KindMultiSelect, Options: opts(
				"frontend", "blue", "backend", "green", "ui/ux", "purple", "security", "red", "performance", "orange")},
			{Name: "Description", Kind: KindRichText},
		},
	}
}

// Tasks returns the schema of the development tasks database.
func Tasks() Database {
	return Database{
		Key:  KeyTasks,
		Name: "Development Tasks",
		Properties: []Property{
			{Name: "Task Name", Kind: KindTitle},
			{Name: "Status", Kind: KindSelect, Options: opts(
				"To Do", "gray", "In Progress", "yellow", "Review", "blue", "Done", "green")},
			{Name: "Priority", Kind: KindSelect, Options: opts(
				"Low", "blue", "Medium", "yellow", "High", "red")},
			{Name: "Sprint", Kind: KindSelect, Options: opts(
				"Current", "green", "Next", "yellow", "Backlog", "gray")},
			{Name: "Assignee", Kind: KindPeople},
			{Name: "Story Points", Kind: KindNumber, NumberFormat: "number"},
			{Name: "Due Date", Kind: KindDate},
			{Name: "Dependencies", Kind: KindRelation, RelationTarget: RelationSelf},
			{Name: "Description", Kind: KindRichText},
			{Name: "Acceptance Criteria", Kind: KindRichText},
		},
	}
}

// Features returns the schema of the feature requests database.
func Features() Database {
	return Database{
		Key:  KeyFeatures,
		Name: "Feature Requests",
		Properties: []Property{
			{Name: "Feature Name", Kind: KindTitle},
			{Name: "Status", Kind: KindSelect, Options: opts(
				"Proposed", "gray", "Approved", "blue", "In Development", "yellow", "Released", "green")},
			{Name: "Priority", Kind: KindSelect, Options: opts(
				"Low", "blue", "Medium", "yellow", "High", "orange", "Critical", "red")},
			{Name: "Requested By", Kind: KindPeople},
			{Name: "Target Release", Kind: KindSelect, Options: opts(
				"v1.0", "blue", "v1.1", "green", "v1.2", "yellow", "v2.0", "purple")},
			{Name: "User Impact", Kind: KindSelect, Options: opts(
				"Low", "blue", "Medium", "yellow", "High", "red")},
			{Name: "Technical Complexity", Kind: KindSelect, Options: opts(
				"Low", "green", "Medium", "yellow", "High", "red")},
			{Name: "Description", Kind: KindRichText},
			{Name: "User Stories", Kind: KindRichText},
			{Name: "Technical Requirements", Kind: KindRichText},
		},
	}
}

// All returns the three schemas in provisioning order.
func All() []Database {
	return []Database{Issues(), Tasks(), Features()}
}

// ByKey returns the schema registered under key.
func ByKey(key Key) (Database, bool) {
	for _, db := range All() {
		if db.Key == key {
			return db, true
		}
	}
	return Database{}, false
}
