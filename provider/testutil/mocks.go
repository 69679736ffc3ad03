package testutil

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"

	"fitchat/provider"
)

// MockChatCompletions stands in for the OpenAI chat completions service.
type MockChatCompletions struct {
	Reply string
	Err   error

	// Recorded calls
	Calls   []openai.ChatCompletionNewParams
	Options [][]option.RequestOption
}

// New implements provider.ChatCompletionsAPI.
func (m *MockChatCompletions) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.Calls = append(m.Calls, body)
	if m.Err != nil {
		return nil, m.Err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.Reply}},
		},
	}, nil
}

// LastCall returns the most recent request, or the zero value if none was made.
func (m *MockChatCompletions) LastCall() openai.ChatCompletionNewParams {
	if len(m.Calls) == 0 {
		return openai.ChatCompletionNewParams{}
	}
	return m.Calls[len(m.Calls)-1]
}

// MockMessages stands in for the Anthropic messages service.
type MockMessages struct {
	Reply string
	Err   error

	Calls []anthropic.MessageNewParams
}

// New implements provider.MessagesAPI.
func (m *MockMessages) New(ctx context.Context, body anthropic.MessageNewParams, opts ...aoption.RequestOption) (*anthropic.Message, error) {
	m.Calls = append(m.Calls, body)
	if m.Err != nil {
		return nil, m.Err
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: m.Reply},
		},
	}, nil
}

// LastCall returns the most recent request, or the zero value if none was made.
func (m *MockMessages) LastCall() anthropic.MessageNewParams {
	if len(m.Calls) == 0 {
		return anthropic.MessageNewParams{}
	}
	return m.Calls[len(m.Calls)-1]
}

// GeminiCall records one GenerateContent invocation.
type GeminiCall struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// MockModels stands in for the Gen AI models service.
type MockModels struct {
	Reply string
	Err   error

	Calls []GeminiCall
}

// GenerateContent implements provider.GenerateContentAPI.
func (m *MockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.Calls = append(m.Calls, GeminiCall{Model: model, Contents: contents, Config: config})
	if m.Err != nil {
		return nil, m.Err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(m.Reply, genai.RoleModel)},
		},
	}, nil
}

// LastCall returns the most recent request, or the zero value if none was made.
func (m *MockModels) LastCall() GeminiCall {
	if len(m.Calls) == 0 {
		return GeminiCall{}
	}
	return m.Calls[len(m.Calls)-1]
}

// MockTransports bundles one mock per provider family.
type MockTransports struct {
	Completions *MockChatCompletions
	Messages    *MockMessages
	Models      *MockModels

	// GeminiConfigs records the client configs passed to the Gemini constructor.
	GeminiConfigs []*genai.ClientConfig
}

// NewMockTransports creates mocks that all answer with reply.
func NewMockTransports(reply string) *MockTransports {
	return &MockTransports{
		Completions: &MockChatCompletions{Reply: reply},
		Messages:    &MockMessages{Reply: reply},
		Models:      &MockModels{Reply: reply},
	}
}

// SetErr makes every mock fail with err.
func (m *MockTransports) SetErr(err error) {
	m.Completions.Err = err
	m.Messages.Err = err
	m.Models.Err = err
}

// Transports returns provider.Transports wired to the mocks.
func (m *MockTransports) Transports() provider.Transports {
	return provider.Transports{
		OpenAI: func(opts ...option.RequestOption) provider.ChatCompletionsAPI {
			m.Completions.Options = append(m.Completions.Options, opts)
			return m.Completions
		},
		Anthropic: func(opts ...aoption.RequestOption) provider.MessagesAPI {
			return m.Messages
		},
		Gemini: func(ctx context.Context, cc *genai.ClientConfig) (provider.GenerateContentAPI, error) {
			m.GeminiConfigs = append(m.GeminiConfigs, cc)
			return m.Models, nil
		},
	}
}
