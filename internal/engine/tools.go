package engine

import (
	"context"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc executes a tool call against its collaborator.
type ToolFunc func(ctx context.Context, args map[string]any) (string, error)

// ToolKind categorizes tools for the compaction engine and the progress
// tracker. Write results trigger compaction; read and reference results are
// retained verbatim across a compaction boundary.
type ToolKind string

const (
	KindWrite     ToolKind = "write"
	KindRead      ToolKind = "read"
	KindReference ToolKind = "reference"
	KindExecute   ToolKind = "execute"
	KindMeta      ToolKind = "meta"
)

// Tool binds a name and JSON schema to a handler. Tools are registered once
// at startup; the dispatcher never resolves names dynamically beyond this
// table.
type Tool struct {
	Name        string
	Description string
	SchemaJSON  string
	Kind        ToolKind
	Fn          ToolFunc
}

// ValidateArgs validates the provided arguments against the tool's JSON
// schema.
func (t Tool) ValidateArgs(args map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(t.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errorMsgs []string
		for _, verr := range result.Errors() {
			errorMsgs = append(errorMsgs, verr.String())
		}
		return &ToolValidationError{ToolName: t.Name, Errors: errorMsgs}
	}

	return nil
}

// ToolRegistry maps tool names to their handlers.
type ToolRegistry map[string]Tool

// ToolSchema is the shape the provider expects for function calling.
type ToolSchema struct {
	Name        string
	Description string
	JSONSchema  string
	Kind        ToolKind
}

// Schemas returns provider-facing schemas for every registered tool.
func (r ToolRegistry) Schemas() []ToolSchema {
	s := make([]ToolSchema, 0, len(r))
	for _, t := range r {
		s = append(s, ToolSchema{
			Name:        t.Name,
			Description: t.Description,
			JSONSchema:  t.SchemaJSON,
			Kind:        t.Kind,
		})
	}
	return s
}

// KindOf returns the kind of a registered tool, or KindMeta for unknown
// names.
func (r ToolRegistry) KindOf(name string) ToolKind {
	if t, ok := r[name]; ok {
		return t.Kind
	}
	return KindMeta
}

// Names returns the registered tool names, for error messages.
func (r ToolRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
