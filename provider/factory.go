package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"
)

// ollamaPlaceholderKey is sent to Ollama's OpenAI-compatible endpoint, which
// ignores the key but the SDK requires one.
const ollamaPlaceholderKey = "ollama"

// Transports holds the SDK client constructors for each provider family.
// A nil constructor means the SDK is unavailable; connecting to a provider of
// that family fails with ErrMissingDependency.
type Transports struct {
	OpenAI    func(opts ...option.RequestOption) ChatCompletionsAPI
	Anthropic func(opts ...aoption.RequestOption) MessagesAPI
	Gemini    func(ctx context.Context, cc *genai.ClientConfig) (GenerateContentAPI, error)
}

// DefaultTransports returns constructors backed by the official SDKs.
func DefaultTransports() Transports {
	return Transports{
		OpenAI: func(opts ...option.RequestOption) ChatCompletionsAPI {
			client := openai.NewClient(opts...)
			return &client.Chat.Completions
		},
		Anthropic: func(opts ...aoption.RequestOption) MessagesAPI {
			client := anthropic.NewClient(opts...)
			return &client.Messages
		},
		Gemini: func(ctx context.Context, cc *genai.ClientConfig) (GenerateContentAPI, error) {
			client, err := genai.NewClient(ctx, cc)
			if err != nil {
				return nil, err
			}
			return client.Models, nil
		},
	}
}

// Connection is a ready-to-use provider binding produced by Factory.Connect.
type Connection struct {
	Descriptor Descriptor
	Model      string // Effective model id
	BaseURL    string // Resolved endpoint
	Deployment string // Azure only
	APIVersion string // Azure only
	Adapter    Adapter
}

// Factory creates Connections from client configuration.
type Factory struct {
	Transports Transports
	Sampling   Sampling
	Logger     *slog.Logger
}

// NewFactory returns a factory using the official SDK transports and default
// sampling. A nil logger selects slog.Default().
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		Transports: DefaultTransports(),
		Sampling:   DefaultSampling(),
		Logger:     logger,
	}
}

// Connect validates cfg and builds the transport and adapter for its provider.
//
// Configuration problems are reported before any network activity:
//   - ErrUnknownProvider for ids missing from the registry
//   - ErrMissingConfiguration for a missing API key or Azure endpoint/deployment
//   - ErrMissingDependency when the provider family has no transport
func (f *Factory) Connect(ctx context.Context, cfg Config) (*Connection, error) {
	desc, err := Describe(cfg.Provider)
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if desc.RequiresAPIKey && apiKey == "" {
		return nil, fmt.Errorf("%w: %s API key is required", ErrMissingConfiguration, desc.DisplayName)
	}

	conn := &Connection{
		Descriptor: desc,
		Model:      strings.TrimSpace(cfg.Model),
		BaseURL:    desc.BaseURL,
	}
	if conn.Model == "" {
		conn.Model = desc.DefaultModel
	}

	switch desc.Family {
	case FamilyOpenAI:
		if desc.IsLocal {
			conn.BaseURL = LocalBaseURL(cfg.Option(OptionLocalEndpoint))
			apiKey = ollamaPlaceholderKey
		}
		conn.Adapter, err = newOpenAICompatible(f.Transports, conn.BaseURL, apiKey, conn.Model, f.Sampling)

	case FamilyAzure:
		var s azureSettings
		s, err = resolveAzure(cfg)
		if err != nil {
			return nil, err
		}
		conn.BaseURL = s.Endpoint
		conn.Deployment = s.Deployment
		conn.APIVersion = s.APIVersion
		conn.Adapter, err = newAzureAdapter(f.Transports, s, apiKey, f.Sampling)

	case FamilyGemini:
		conn.Adapter, err = newGemini(ctx, f.Transports, apiKey, conn.Model, f.Sampling)

	case FamilyAnthropic:
		conn.Adapter, err = newAnthropic(f.Transports, apiKey, conn.Model, f.Sampling)

	default:
		err = fmt.Errorf("%w: no adapter for provider family %q", ErrMissingDependency, desc.Family)
	}
	if err != nil {
		return nil, err
	}

	f.logger().Info("initialized provider",
		"provider", desc.DisplayName,
		"model", conn.Model,
		"deployment", conn.Deployment,
		"endpoint", conn.BaseURL,
	)

	return conn, nil
}

func (f *Factory) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// LocalBaseURL returns the OpenAI-compatible endpoint of a local Ollama
// server. An empty endpoint selects DefaultLocalEndpoint.
func LocalBaseURL(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultLocalEndpoint
	}
	return endpoint + "/v1"
}
