// Package models contains the data types shared by the floatchat session,
// backend client and rendering layer.
package models

import "fmt"

// Backend defaults
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	ChatPath       = "/chat"
	HealthPath     = "/"
)

// Fixed assistant texts
const (
	// PendingContent marks an assistant bubble whose reply has not arrived yet.
	PendingContent = "Thinking..."

	// NoResponseText replaces a missing or empty "output" field.
	NoResponseText = "No response text from backend."
)

// ExamplePrompts are offered on the landing screen.
var ExamplePrompts = []string{
	"List all profiles and their locations",
	"What are the 5 warmest temperature readings?",
	"Show me salinity profiles near the equator",
	"Map the location of the deepest measurement",
}

// ConnectionErrorContent builds the assistant text shown when a chat request fails.
func ConnectionErrorContent(chatURL string, cause error) string {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return fmt.Sprintf("Error: Could not connect to the backend at %s. %s", chatURL, detail)
}
