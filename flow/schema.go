package flow

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

// descriptionSchema is the draft-07 JSON schema for flow descriptions.
// It covers shape only; referential integrity is checked by Validate.
const descriptionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "inputs": {"type": "object"},
          "config": {"type": "object"}
        }
      }
    },
    "connections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "output", "to", "input"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "output": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1},
          "input": {"type": "string", "minLength": 1},
          "mandatory": {"type": "boolean"}
        }
      }
    },
    "resources": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "config": {"type": "object"}
        }
      }
    },
    "docks": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {
          "type": "array",
          "items": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(descriptionSchema)

// validateDescriptionSchema checks raw description JSON against the
// draft-07 schema.
func validateDescriptionSchema(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.WrapInvalid(err, "Description", "validateDescriptionSchema", "schema evaluation")
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrInvalidGraph, strings.Join(details, "; ")),
			"Description", "validateDescriptionSchema", "schema validation")
	}

	return nil
}
