package provider

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Descriptor holds the fixed attributes of a supported provider.
type Descriptor struct {
	ID                     ProviderID
	DisplayName            string
	BaseURL                string   // Empty when set by the user (Azure)
	Models                 []string // Empty when discovered at runtime (Azure, Ollama)
	DefaultModel           string
	SupportsStreaming      bool
	RequiresDeployment     bool
	IsLocal                bool
	RequiresAPIKey         bool
	UsesAlternateTransport bool
	Family                 Family
	Note                   string
}

// registry is never mutated after package initialization; every accessor
// hands out copies.
var registry = map[ProviderID]Descriptor{
	XAI: {
		ID:                XAI,
		DisplayName:       "xAI (Grok)",
		BaseURL:           "https://api.x.ai/v1",
		Models:            []string{"grok-3", "grok-vision-beta", "grok-2-vision-1212"},
		DefaultModel:      "grok-3",
		SupportsStreaming: true,
		RequiresAPIKey:    true,
		Family:            FamilyOpenAI,
	},
	OpenAI: {
		ID:                OpenAI,
		DisplayName:       "OpenAI (ChatGPT)",
		BaseURL:           "https://api.openai.com/v1",
		Models:            []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"},
		DefaultModel:      "gpt-4o",
		SupportsStreaming: true,
		RequiresAPIKey:    true,
		Family:            FamilyOpenAI,
	},
	Azure: {
		ID:                 Azure,
		DisplayName:        "Azure OpenAI",
		SupportsStreaming:  true,
		RequiresDeployment: true,
		RequiresAPIKey:     true,
		Family:             FamilyAzure,
		Note:               "Endpoint and deployment name are set by the user",
	},
	Gemini: {
		ID:                     Gemini,
		DisplayName:            "Google Gemini",
		BaseURL:                "https://generativelanguage.googleapis.com/v1beta",
		Models:                 []string{"gemini-1.5-flash", "gemini-1.5-flash-8b", "gemini-1.5-pro"},
		DefaultModel:           "gemini-1.5-flash",
		SupportsStreaming:      true,
		RequiresAPIKey:         true,
		UsesAlternateTransport: true,
		Family:                 FamilyGemini,
		Note:                   "Uses the Google Gen AI SDK",
	},
	Anthropic: {
		ID:          Anthropic,
		DisplayName: "Anthropic (Claude)",
		BaseURL:     "https://api.anthropic.com/v1",
		Models: []string{
			"claude-opus-4-5-20251101",
			"claude-sonnet-4-5-20250929",
			"claude-3-5-sonnet-20241022",
			"claude-3-5-haiku-20241022",
		},
		DefaultModel:           "claude-sonnet-4-5-20250929",
		SupportsStreaming:      true,
		RequiresAPIKey:         true,
		UsesAlternateTransport: true,
		Family:                 FamilyAnthropic,
		Note:                   "Uses the Anthropic SDK",
	},
	Ollama: {
		ID:                Ollama,
		DisplayName:       "Ollama (Local)",
		BaseURL:           DefaultLocalEndpoint + "/v1",
		DefaultModel:      "llama2",
		SupportsStreaming: true,
		IsLocal:           true,
		Family:            FamilyOpenAI,
		Note:              "Requires Ollama to be installed and running locally",
	},
}

// DefaultLocalEndpoint is the address of a locally running Ollama server.
const DefaultLocalEndpoint = "http://localhost:11434"

// Describe returns the descriptor for a provider id.
func Describe(id ProviderID) (Descriptor, error) {
	d, ok := registry[id]
	if !ok {
		return Descriptor{}, unknownProviderError(id)
	}
	return d.clone(), nil
}

// ListProviders returns every supported provider keyed by id.
// The returned map and its descriptors are copies; changing them has no
// effect on the registry.
func ListProviders() map[ProviderID]Descriptor {
	out := make(map[ProviderID]Descriptor, len(registry))
	for id, d := range registry {
		out[id] = d.clone()
	}
	return out
}

// IDs returns the supported provider ids in a stable order.
func IDs() []ProviderID {
	ids := make([]ProviderID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (d Descriptor) clone() Descriptor {
	d.Models = slices.Clone(d.Models)
	return d
}

// unknownProviderError builds ErrUnknownProvider with the supported ids and,
// when one is close enough, a suggestion.
func unknownProviderError(id ProviderID) error {
	ids := IDs()
	names := make([]string, len(ids))
	for i, known := range ids {
		names[i] = string(known)
	}

	msg := fmt.Sprintf("%q (choose from: %s)", id, strings.Join(names, ", "))
	if id != "" {
		if matches := fuzzy.Find(strings.ToLower(string(id)), names); len(matches) > 0 {
			msg += fmt.Sprintf("; did you mean %q?", matches[0].Str)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownProvider, msg)
}
