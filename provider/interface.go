// Package provider defines the abstraction over the supported LLM providers.
//
// fitchat talks to xAI, OpenAI, Azure OpenAI, Google Gemini, Anthropic and a
// local Ollama server through a common Adapter interface. Each provider family
// has a different request shape, authentication scheme and SDK; the provider
// layer hides those differences so the chat client stays provider-agnostic.
//
// # Architecture
//
//   - registry.go holds the static Descriptor table (one entry per provider id)
//   - factory.go turns a Config into a Connection: resolved endpoint, model,
//     deployment and the Adapter for the provider's family
//   - openai.go implements the OpenAI-compatible family (xAI, OpenAI, Ollama)
//     and, with the deployment name as model, Azure OpenAI
//   - gemini.go and anthropic.go implement the two alternate-SDK families
//   - prompt.go holds the system preamble shared by every adapter
//
// # Why Transports?
//
// The SDK clients are created through the Transports constructors so tests can
// substitute stubs, and so a build that leaves out an SDK reports
// ErrMissingDependency at construction time instead of failing on first use.
//
// # Usage
//
//	conn, err := provider.NewFactory(nil).Connect(ctx, provider.Config{
//	    Provider: provider.OpenAI,
//	    APIKey:   "sk-...",
//	})
//	if err != nil {
//	    // handle configuration error
//	}
//	reply, err := conn.Adapter.Send(ctx, provider.Request{Message: "Hello"})
package provider

import (
	"context"
	"strings"

	"fitchat/model"
)

// ProviderID identifies a supported provider.
type ProviderID string

const (
	XAI       ProviderID = "xai"
	OpenAI    ProviderID = "openai"
	Azure     ProviderID = "azure"
	Gemini    ProviderID = "gemini"
	Anthropic ProviderID = "anthropic"
	Ollama    ProviderID = "ollama"
)

// Family groups providers that share a request/response shape.
type Family string

const (
	FamilyOpenAI    Family = "openai-compatible"
	FamilyAzure     Family = "azure"
	FamilyGemini    Family = "gemini"
	FamilyAnthropic Family = "anthropic"
)

// Provider-specific option keys recognized in Config.Options.
const (
	OptionAzureEndpoint   = "azure_endpoint"
	OptionAzureDeployment = "azure_deployment"
	OptionAzureAPIVersion = "azure_api_version"
	OptionLocalEndpoint   = "local_endpoint"
)

// Config holds the construction parameters for a client.
type Config struct {
	Provider ProviderID
	APIKey   string // Not needed for Ollama
	Model    string // Empty selects the provider's default model
	Options  map[string]string
}

// Option returns the trimmed value of a provider-specific option.
func (c Config) Option(key string) string {
	if c.Options == nil {
		return ""
	}
	return strings.TrimSpace(c.Options[key])
}

// Request is everything an adapter needs to build one provider call.
type Request struct {
	Message string
	Context string       // Optional user data appended to the system preamble
	History []model.Turn // Already windowed by the caller
}

// Adapter sends a Request through one provider family's transport and
// extracts the assistant's reply text.
type Adapter interface {
	Family() Family
	Send(ctx context.Context, req Request) (string, error)
}
