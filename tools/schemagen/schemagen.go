// Package main generates the JSON Schema documents embedded by the lint package.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// Schema is the subset of JSON Schema draft-07 the lint checks rely on.
// Field order fixes the key order of the generated documents.
type Schema struct {
	SchemaURI   string             `json:"$schema,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Additional  *bool              `json:"additionalProperties,omitempty"`
}

const draft7 = "http://json-schema.org/draft-07/schema#"

var outputDir string

func main() {
	flag.StringVar(&outputDir, "o", "internal/lint/schemas", "Output directory for schemas")
	flag.Parse()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	schemas := []struct {
		name   string
		schema *Schema
	}{
		{"metrics-record", metricsRecordSchema()},
		{"error-envelope", errorEnvelopeSchema()},
	}

	for _, s := range schemas {
		if err := writeSchema(s.name, s.schema); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing schema for %s: %v\n", s.name, err)
			os.Exit(1)
		}

		fmt.Printf("Generated schema for %s\n", s.name)
	}

	fmt.Println("All schemas generated successfully")
}

// metricsRecordSchema describes one row of the newline-delimited metrics log.
// Rows are open maps rather than a fixed struct, so the schema pins down only
// the bookkeeping keys restoration depends on.
func metricsRecordSchema() *Schema {
	return &Schema{
		SchemaURI:   draft7,
		Title:       "Metrics log record",
		Description: "One reported row of the newline-delimited metrics log. Arbitrary keys are allowed; the well-known bookkeeping keys must keep their shapes for restoration to use them.",
		Type:        "object",
		Properties: map[string]*Schema{
			"checkpoint_dir_name": {
				Description: "Correlates the row with a persisted checkpoint directory.",
				Type:        "string",
				Pattern:     "^checkpoint_[0-9]+$",
			},
			"training_iteration": {
				Description: "1-based iteration counter of the reporting loop.",
				Type:        "number",
				Minimum:     floatPtr(0),
			},
			"config": {
				Description: "Run configuration, flattened under the config/ prefix on restore.",
				Type:        "object",
			},
		},
		Additional: boolPtr(true),
	}
}

// errorEnvelopeSchema describes the error.json file a failed trial leaves at
// its root. Required fields mirror the non-omitempty fields of the envelope
// struct the restorer decodes into.
func errorEnvelopeSchema() *Schema {
	return &Schema{
		SchemaURI:   draft7,
		Title:       "Trial error envelope",
		Description: "Terminal failure record a failed trial leaves at its root as error.json.",
		Type:        "object",
		Required:    []string{"kind", "message"},
		Properties: map[string]*Schema{
			"kind": {
				Description: "Failure class, such as the raising exception type.",
				Type:        "string",
			},
			"message": {
				Description: "Human-readable failure summary.",
				Type:        "string",
			},
			"trace": {
				Description: "Optional multi-line stack trace.",
				Type:        "string",
			},
		},
		Additional: boolPtr(false),
	}
}

func writeSchema(name string, schema *Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	data = append(data, '\n')
	path := filepath.Join(outputDir, name+".json")

	return os.WriteFile(path, data, 0o644)
}

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }
