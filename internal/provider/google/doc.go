// Package google implements ai.ChatProvider on Google GenAI. [New] targets
// the Gemini API with an API key; [NewVertex] targets Vertex AI with
// Application Default Credentials.
package google
