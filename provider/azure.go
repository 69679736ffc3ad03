package provider

import (
	"fmt"

	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

// DefaultAzureAPIVersion is used when Config does not set azure_api_version.
const DefaultAzureAPIVersion = "2024-02-15-preview"

// azureSettings are the resolved Azure OpenAI connection parameters.
type azureSettings struct {
	Endpoint   string
	APIVersion string
	Deployment string
}

// resolveAzure validates the Azure options. The deployment falls back to the
// configured model because Azure routes requests by deployment name.
func resolveAzure(cfg Config) (azureSettings, error) {
	s := azureSettings{
		Endpoint:   cfg.Option(OptionAzureEndpoint),
		APIVersion: cfg.Option(OptionAzureAPIVersion),
		Deployment: cfg.Option(OptionAzureDeployment),
	}

	if s.Endpoint == "" {
		return s, fmt.Errorf("%w: Azure endpoint is required for Azure OpenAI (option %q)", ErrMissingConfiguration, OptionAzureEndpoint)
	}
	if s.APIVersion == "" {
		s.APIVersion = DefaultAzureAPIVersion
	}
	if s.Deployment == "" {
		s.Deployment = cfg.Model
	}
	if s.Deployment == "" {
		return s, fmt.Errorf("%w: Azure deployment name is required (option %q or a model)", ErrMissingConfiguration, OptionAzureDeployment)
	}

	return s, nil
}

func newAzureAdapter(t Transports, s azureSettings, apiKey string, sampling Sampling) (*OpenAIAdapter, error) {
	if t.OpenAI == nil {
		return nil, fmt.Errorf("%w: no OpenAI-compatible transport registered for Azure", ErrMissingDependency)
	}

	completions := t.OpenAI(
		azure.WithEndpoint(s.Endpoint, s.APIVersion),
		azure.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	a := NewOpenAIAdapter(completions, s.Deployment, sampling)
	a.family = FamilyAzure
	return a, nil
}
