package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaFor reflects the JSON schema of the argument struct T.
func SchemaFor[T any]() (json.RawMessage, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		Anonymous:                  true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	s := r.Reflect(&v)
	// Providers reject the draft marker in function parameters.
	s.Version = ""

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("tool: marshal schema: %w", err)
	}
	return data, nil
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// compileSchema compiles a parameter schema for argument validation.
// An empty schema yields nil, meaning any arguments are accepted.
func compileSchema(name string, schema json.RawMessage) (*validator.Schema, error) {
	if len(bytes.TrimSpace(schema)) == 0 {
		return nil, nil
	}
	doc, err := validator.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, &ErrInvalidSchema{Name: name, Err: err}
	}

	url := "tool://" + name + ".json"
	c := validator.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, &ErrInvalidSchema{Name: name, Err: err}
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, &ErrInvalidSchema{Name: name, Err: err}
	}
	return compiled, nil
}

// validateArguments checks raw call arguments against a compiled schema.
// Empty arguments are treated as an empty object.
func validateArguments(schema *validator.Schema, arguments string) error {
	if schema == nil {
		return nil
	}
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	inst, err := validator.UnmarshalJSON(strings.NewReader(arguments))
	if err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return schema.Validate(inst)
}
