// Package schemasassets provides embedded JSON schemas for standalone binary behavior.
//
// Schemas are embedded at compile time so graph validation works correctly
// in installed binaries and library consumers without requiring schema
// files to be present on disk.
package schemasassets

import _ "embed"

// ProcessGraphSchema is the embedded process-graph JSON schema.
//
//go:embed process-graph.schema.json
var ProcessGraphSchema []byte
