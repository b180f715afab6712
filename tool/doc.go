// Package tool provides the tools the gateway's engine can call.
//
// This package includes:
//   - Registry and Handler types for tool management
//   - Schema generation from argument structs and argument validation
//   - Built-in tools: calculator, get_weather, web_search
//
// # Basic Usage
//
// Define tool arguments as a struct with json and jsonschema tags, then
// register a typed function:
//
//	type WeatherArgs struct {
//	    City string `json:"city" jsonschema:"required,description=City name"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Get current weather",
//	        func(ctx context.Context, args WeatherArgs) (string, error) {
//	            return lookup(ctx, args.City)
//	        }),
//	)
//
// # Struct Tags
//
// Schemas are reflected with github.com/invopop/jsonschema. Only fields
// tagged jsonschema:"required" are required; description, enum, default,
// minimum and maximum are passed through.
//
// # Validation
//
// Registry.Execute validates call arguments against the tool schema before
// running the handler. Validation failures and handler errors become error
// results so the model can correct itself.
package tool
