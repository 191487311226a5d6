// Package schema validates function-spec documents before they reach the
// synthesizer, so CLI users get schema errors instead of synthesis errors.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const functionSpecSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "source"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "source": {"type": "string", "minLength": 1},
    "doc": {"type": "string"},
    "humanName": {"type": "string"},
    "description": {"type": "string"},
    "baseImage": {"type": "string"},
    "params": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "type"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"enum": ["int", "float", "str", "bool"]}
        }
      }
    },
    "returns": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "scalar": {"enum": ["int", "float", "str", "bool"]},
        "tuple": {
          "type": "object",
          "required": ["fields"],
          "additionalProperties": false,
          "properties": {
            "name": {"type": "string"},
            "fields": {
              "type": "array",
              "minItems": 1,
              "items": {
                "type": "object",
                "required": ["name", "type"],
                "additionalProperties": false,
                "properties": {
                  "name": {"type": "string", "minLength": 1},
                  "type": {"enum": ["int", "float", "str", "bool"]}
                }
              }
            }
          }
        }
      }
    },
    "dependencies": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "version": {"type": "string"},
          "minVersion": {"type": "string"},
          "maxVersion": {"type": "string"}
        }
      }
    }
  }
}`

var compiledFunctionSpec = jsonschema.MustCompileString("functionspec.schema.json", functionSpecSchema)

// ValidateFunctionSpec checks a YAML function-spec document against the
// embedded schema.
func ValidateFunctionSpec(doc []byte) error {
	var decoded any
	if err := yaml.Unmarshal(doc, &decoded); err != nil {
		return fmt.Errorf("decode function spec: %w", err)
	}

	// Round-trip through JSON so the instance is JSON-typed for the
	// schema compiler.
	raw, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Errorf("convert function spec: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("convert function spec: %w", err)
	}

	if err := compiledFunctionSpec.Validate(instance); err != nil {
		return fmt.Errorf("function spec invalid: %w", err)
	}
	return nil
}
