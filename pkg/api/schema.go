package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/command.schema.json
var commandSchemaJSON string

const commandSchemaURL = "sandbox://schema/command.schema.json"

// CommandSchema проверяет входящие кадры до распаковки в ClientCommand
type CommandSchema struct {
	schema *jsonschema.Schema
}

// NewCommandSchema компилирует встроенную схему команд
func NewCommandSchema() (*CommandSchema, error) {
	s, err := jsonschema.CompileString(commandSchemaURL, commandSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile command schema: %w", err)
	}
	return &CommandSchema{schema: s}, nil
}

// Decode валидирует сырой кадр по схеме и распаковывает его
func (c *CommandSchema) Decode(raw []byte) (ClientCommand, error) {
	var cmd ClientCommand

	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return cmd, fmt.Errorf("invalid json: %w", err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return cmd, fmt.Errorf("schema validation failed: %w", err)
	}

	if err := json.Unmarshal(raw, &cmd); err != nil {
		return cmd, fmt.Errorf("invalid command format: %w", err)
	}
	return cmd, nil
}
