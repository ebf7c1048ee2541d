package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema renders the JSON Schema of the configuration file, keyed by
// the YAML field names. Editors can use it for completion.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Splinter Configuration"
	schema.Description = "Settings for splinter.yaml or splinter.toml."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
