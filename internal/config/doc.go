// Package config loads the runtime configuration for notionkit.
//
// Settings come from three layers, later ones winning: built-in defaults,
// a notionkit.yaml file found in the working directory or a parent, and
// environment variables. The integration token is only ever resolved at
// runtime from NOTION_TOKEN or a token file; it has no yaml representation.
package config
