// Package schemas embeds the JSON Schemas shipped with the binary.
package schemas

import _ "embed"

// Catalog is the JSON Schema for roadmap catalog files.
//
//go:embed catalog.schema.json
var Catalog string
