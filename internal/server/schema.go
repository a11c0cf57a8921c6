// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/ingest.json
var ingestSchemaJSON []byte

const ingestSchemaURL = "ingest.json"

// compileIngestSchema compiles the embedded schema for signal batches.
func compileIngestSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(ingestSchemaURL, bytes.NewReader(ingestSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(ingestSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateBatch checks a raw request body against the schema.
func validateBatch(schema *jsonschema.Schema, body []byte) error {
	var instance any
	if err := json.Unmarshal(body, &instance); err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return schema.Validate(instance)
}
