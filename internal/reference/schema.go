// internal/reference/schema.go
package reference

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const weightVectorSchema = `{
  "type": "object",
  "required": ["PU", "PPU", "PBM", "PK", "LBI", "LBE", "PM"],
  "additionalProperties": false,
  "patternProperties": {
    "^(PU|PPU|PBM|PK|LBI|LBE|PM)$": {"type": "number", "minimum": 0, "maximum": 1}
  }
}`

// DocumentSchema is the JSON Schema every file-based reference document must satisfy.
var DocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["majors", "institutions"],
  "properties": {
    "version": {"type": "string"},
    "defaultWeights": ` + weightVectorSchema + `,
    "majors": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "weights"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "weights": ` + weightVectorSchema + `,
          "alternatives": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "institutions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "tier", "min", "max"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "tier": {"type": "integer", "minimum": 1, "maximum": 4},
          "min": {"type": "number"},
          "max": {"type": "number"},
          "label": {"type": "string"}
        }
      }
    }
  }
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(DocumentSchema)

// validateRaw checks a decoded JSON/YAML tree against DocumentSchema.
func validateRaw(raw interface{}) error {
	result, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
