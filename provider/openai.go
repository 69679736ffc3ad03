package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"fitchat/model"
)

// ChatCompletionsAPI is the part of the OpenAI SDK used by OpenAIAdapter.
// *openai.ChatCompletionService satisfies it.
type ChatCompletionsAPI interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIAdapter implements Adapter for every provider that speaks the OpenAI
// chat completions protocol: xAI, OpenAI, Ollama's /v1 endpoint and Azure
// OpenAI. For Azure the model is the deployment name.
type OpenAIAdapter struct {
	completions ChatCompletionsAPI
	model       string
	family      Family
	sampling    Sampling
}

// NewOpenAIAdapter creates an adapter that sends requests for model through completions.
func NewOpenAIAdapter(completions ChatCompletionsAPI, model string, sampling Sampling) *OpenAIAdapter {
	return &OpenAIAdapter{
		completions: completions,
		model:       model,
		family:      FamilyOpenAI,
		sampling:    sampling,
	}
}

// Family implements Adapter.Family.
func (a *OpenAIAdapter) Family() Family {
	return a.family
}

// Model returns the model (or Azure deployment) named in every request.
func (a *OpenAIAdapter) Model() string {
	return a.model
}

// BuildParams converts a Request to chat completion parameters: a leading
// system message, the windowed history, then the new user message.
func (a *OpenAIAdapter) BuildParams(req Request) openai.ChatCompletionNewParams {
	history := window(req.History)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(SystemPreamble(req.Context)))
	messages = append(messages, ConvertToOpenAIMessages(history)...)
	messages = append(messages, openai.UserMessage(req.Message))

	return openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       openai.ChatModel(a.model),
		Temperature: openai.Float(a.sampling.Temperature),
		MaxTokens:   openai.Int(a.sampling.MaxTokens),
	}
}

// Send implements Adapter.Send.
func (a *OpenAIAdapter) Send(ctx context.Context, req Request) (string, error) {
	resp, err := a.completions.New(ctx, a.BuildParams(req))
	if err != nil {
		return "", err
	}
	return extractOpenAIReply(resp)
}

// extractOpenAIReply returns the first choice's message content.
func extractOpenAIReply(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ConvertToOpenAIMessages converts conversation turns to OpenAI message params.
func ConvertToOpenAIMessages(turns []model.Turn) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(turns))

	for i, t := range turns {
		switch t.Role {
		case model.RoleAssistant:
			result[i] = openai.AssistantMessage(t.Content)
		default:
			result[i] = openai.UserMessage(t.Content)
		}
	}

	return result
}

// openAICompatibleOptions returns the request options for a generic
// OpenAI-compatible endpoint.
func openAICompatibleOptions(baseURL, apiKey string) []option.RequestOption {
	return []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
}

func newOpenAICompatible(t Transports, baseURL, apiKey, model string, sampling Sampling) (*OpenAIAdapter, error) {
	if t.OpenAI == nil {
		return nil, fmt.Errorf("%w: no OpenAI-compatible transport registered", ErrMissingDependency)
	}
	return NewOpenAIAdapter(t.OpenAI(openAICompatibleOptions(baseURL, apiKey)...), model, sampling), nil
}
