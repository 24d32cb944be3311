package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const descriptorSchemaURL = "orgadmin://schemas/sfdx-project.json"

//go:embed descriptor.schema.json
var descriptorSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func descriptorValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(descriptorSchemaURL, bytes.NewReader(descriptorSchema)); err != nil {
			compileErr = fmt.Errorf("register descriptor schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(descriptorSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile descriptor schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateDescriptor checks raw descriptor bytes against the embedded JSON Schema.
func ValidateDescriptor(payload []byte) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return fmt.Errorf("project descriptor is empty")
	}

	schema, err := descriptorValidator()
	if err != nil {
		return err
	}

	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return fmt.Errorf("decode project descriptor: %w", err)
	}

	if err := schema.Validate(document); err != nil {
		return fmt.Errorf("project descriptor validation: %w", err)
	}
	return nil
}
