package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema generates the JSON schema of the config file.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "price-convert-config"
	schema.Description = "Configuration schema for price-convert"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
