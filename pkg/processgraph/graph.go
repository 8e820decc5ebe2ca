// Package processgraph parses and validates client-submitted process
// graphs.
//
// A submission is a JSON document with an optional client-assigned id and a
// process_graph block of named nodes. The package validates the raw
// document against an embedded JSON schema before decoding, so unknown
// structural problems surface as validation errors rather than silent
// zero values.
package processgraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// UnnamedJobID is recorded when a submission carries no id field. At most
// one unnamed job is tracked at a time; a later unnamed submission
// replaces the earlier record.
const UnnamedJobID = "unnamed"

// DefaultOutputFormat is assumed when no save_result node specifies one.
const DefaultOutputFormat = "nc"

// Node is a single process-graph node.
type Node struct {
	ProcessID string          `json:"process_id"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Result    bool            `json:"result,omitempty"`
}

// Graph is a parsed process-graph submission.
type Graph struct {
	ID    string          `json:"id,omitempty"`
	Nodes map[string]Node `json:"process_graph"`

	raw json.RawMessage
}

// Parse validates and decodes a raw submission.
//
// Returns an error if the document is not valid JSON, fails schema
// validation, or has an empty process_graph block.
func Parse(data []byte) (*Graph, error) {
	if len(data) == 0 {
		return nil, errors.New("process graph is empty")
	}

	if err := ValidateRaw(data); err != nil {
		return nil, err
	}

	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse process graph: %w", err)
	}
	if len(g.Nodes) == 0 {
		return nil, errors.New("process_graph has no nodes")
	}

	g.raw = append(json.RawMessage(nil), data...)
	return &g, nil
}

// JobID returns the client-assigned id, or UnnamedJobID when absent.
func (g *Graph) JobID() string {
	id := strings.TrimSpace(g.ID)
	if id == "" {
		return UnnamedJobID
	}
	return id
}

// Raw returns the original submission bytes.
func (g *Graph) Raw() json.RawMessage {
	return g.raw
}

// OutputFormat returns the format argument of the graph's save_result
// node, lowercased, or DefaultOutputFormat when no node specifies one.
func (g *Graph) OutputFormat() string {
	for _, node := range g.Nodes {
		if node.ProcessID != "save_result" || len(node.Arguments) == 0 {
			continue
		}
		var args struct {
			Format string `json:"format"`
		}
		if err := json.Unmarshal(node.Arguments, &args); err != nil {
			continue
		}
		if f := strings.TrimSpace(args.Format); f != "" {
			return strings.ToLower(f)
		}
	}
	return DefaultOutputFormat
}
