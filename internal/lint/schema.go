package lint

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/error-envelope.json
var errorEnvelopeSchemaJSON []byte

//go:embed schemas/metrics-record.json
var metricsRecordSchemaJSON []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	recordSchema   *gojsonschema.Schema
	envelopeSchema *gojsonschema.Schema
)

// compiledSchemas returns the embedded schemas, compiling them once.
func compiledSchemas() (record, envelope *gojsonschema.Schema, err error) {
	schemaOnce.Do(func() {
		recordSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(metricsRecordSchemaJSON))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile metrics record schema: %w", schemaErr)

			return
		}

		envelopeSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(errorEnvelopeSchemaJSON))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile error envelope schema: %w", schemaErr)
		}
	})

	return recordSchema, envelopeSchema, schemaErr
}
