package api

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// packRequestSchema is the wire contract shared by /api/pack and
// /api/validate. The numeric bounds mirror the preconditions the calculator
// assumes: positive dimensions and weight, non-negative integer quantity.
const packRequestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["containerType", "items"],
  "properties": {
    "containerType": {"type": "string", "minLength": 1},
    "items": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["itemId", "quantity", "widthCm", "heightCm", "depthCm", "weightKg"],
        "properties": {
          "itemId": {"type": "integer"},
          "name": {"type": "string"},
          "quantity": {"type": "integer", "minimum": 0},
          "widthCm": {"type": "number", "exclusiveMinimum": 0},
          "heightCm": {"type": "number", "exclusiveMinimum": 0},
          "depthCm": {"type": "number", "exclusiveMinimum": 0},
          "weightKg": {"type": "number", "exclusiveMinimum": 0}
        }
      }
    }
  }
}`

var compiledPackRequestSchema = jsonschema.MustCompileString("pack_request.schema.json", packRequestSchema)

// validatePackRequest checks a raw JSON payload against the pack request
// schema before it is decoded into typed input.
func validatePackRequest(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("unable to parse JSON payload")
	}
	if err := compiledPackRequestSchema.Validate(doc); err != nil {
		return fmt.Errorf("payload does not match the pack request schema: %v", err)
	}
	return nil
}
