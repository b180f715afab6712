// Package client selects and configures one model provider for the gateway.
//
// A Client is built from a [Config] naming the provider (anthropic, openai,
// google or vertex), the model and the credentials. The provider SDK client
// is created on first use. Opening a stream is retried on transient errors
// according to the retry configuration; once the first event arrives the
// stream is handed to the caller unchanged.
//
//	c := client.New(client.Config{
//		Provider: a2gate.ProviderOpenAI,
//		APIKeys:  client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	}, client.WithDefaultTemperature(0.7))
//
//	events, err := c.ChatStream(ctx, messages)
package client
