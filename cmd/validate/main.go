// Command validate lints a world configuration file. It checks the
// YAML structure against a JSON schema first, then runs the full
// referential validation the API performs at startup, so authors get
// both shape errors and dangling-reference errors in one pass.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/tilequest/pkg/world"
)

const worldSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["start", "currency", "maps"],
  "properties": {
    "start": {
      "type": "object",
      "required": ["map", "x", "y"],
      "properties": {
        "map": {"type": "string", "minLength": 1},
        "x": {"type": "integer", "minimum": 0},
        "y": {"type": "integer", "minimum": 0}
      }
    },
    "currency": {"type": "string", "minLength": 1},
    "end_of_map_text": {"type": "string"},
    "max_slots": {"type": "integer", "minimum": 1},
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1}
        }
      }
    },
    "inventory": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["item", "qty"],
        "properties": {
          "item": {"type": "string", "minLength": 1},
          "qty": {"type": "integer", "minimum": 1}
        }
      }
    },
    "gates": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["map", "x", "y"],
        "properties": {
          "map": {"type": "string", "minLength": 1},
          "x": {"type": "integer", "minimum": 0},
          "y": {"type": "integer", "minimum": 0}
        }
      }
    },
    "maps": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["tiles"],
        "properties": {
          "tiles": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          },
          "legend": {
            "type": "object",
            "additionalProperties": {"type": "string", "minLength": 1}
          },
          "neighbors": {
            "type": "object",
            "propertyNames": {"enum": ["north", "south", "east", "west"]},
            "additionalProperties": {"type": "string", "minLength": 1}
          }
        }
      }
    },
    "npcs": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["name", "system_prompt"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "intro": {"type": "string"},
          "system_prompt": {"type": "string", "minLength": 1},
          "tools": {
            "type": "array",
            "items": {"enum": ["open_door", "sell_item"]}
          },
          "history": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["role", "text"],
              "properties": {
                "role": {"enum": ["user", "model"]},
                "text": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    }
  }
}`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	if err := validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("World file is valid!")
}

func validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".yaml") && !strings.HasSuffix(baseName, ".yml") {
		return fmt.Errorf("world file must have .yaml extension: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	// Structural pass: shape, required fields, enums.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("file %s contains invalid YAML: %w", filename, err)
	}

	// The schema validator expects json.Unmarshal value types, so
	// round-trip the YAML document through JSON.
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert %s to JSON: %w", filename, err)
	}
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return fmt.Errorf("failed to convert %s to JSON: %w", filename, err)
	}

	schema, err := jsonschema.CompileString("world.schema.json", worldSchema)
	if err != nil {
		return fmt.Errorf("failed to compile world schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("file %s failed schema validation:\n%v", filename, err)
	}

	// Referential pass: same checks the API runs at startup.
	if _, err := world.Parse(data); err != nil {
		return fmt.Errorf("file %s failed world validation: %w", filename, err)
	}

	return nil
}
