// Package schema defines the record-database schemas provisioned into the
// content service.
//
// The catalog is pure data: Issues, Tasks and Features are built at call time
// from literals and never mutated. It is also the single source of truth for
// option membership, so record validation and payload building both consult
// it instead of carrying their own enum tables.
package schema
