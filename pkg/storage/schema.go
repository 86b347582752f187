package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidConfig is returned when a configuration fails schema validation.
var ErrInvalidConfig = errors.New("invalid launcher configuration")

const configSchemaJSON = `{
  "type": "object",
  "properties": {
    "engines": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["binary"],
        "properties": {
          "binary": {"type": "string", "minLength": 1},
          "config": {"type": "object", "additionalProperties": {"type": "string"}}
        }
      }
    },
    "defaults": {
      "type": "object",
      "properties": {
        "fail_if_no_tests": {"type": "boolean"},
        "disable_banner": {"type": "boolean"},
        "disable_ansi_colors": {"type": "boolean"},
        "details": {"enum": ["none", "summary", "flat", "tree", "verbose"]},
        "log_level": {"enum": ["debug", "info", "warn", "error"]}
      }
    }
  }
}`

var configSchemaLoader = gojsonschema.NewStringLoader(configSchemaJSON)

// Validate checks cfg against the configuration schema.
func Validate(cfg *LauncherConfig) error {
	result, err := gojsonschema.Validate(configSchemaLoader, gojsonschema.NewGoLoader(cfg))
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
