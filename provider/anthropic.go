package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"fitchat/model"
)

// MessagesAPI is the part of the Anthropic SDK used by AnthropicAdapter.
// *anthropic.MessageService satisfies it.
type MessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicAdapter implements Adapter using Anthropic's official SDK.
type AnthropicAdapter struct {
	messages MessagesAPI
	model    anthropic.Model
	sampling Sampling
}

// NewAnthropicAdapter creates an adapter for model.
func NewAnthropicAdapter(messages MessagesAPI, model string, sampling Sampling) *AnthropicAdapter {
	return &AnthropicAdapter{
		messages: messages,
		model:    anthropic.Model(model),
		sampling: sampling,
	}
}

// Family implements Adapter.Family.
func (a *AnthropicAdapter) Family() Family {
	return FamilyAnthropic
}

// BuildParams converts a Request to message parameters. Anthropic takes the
// system prompt as a separate top-level field, not in the messages array.
func (a *AnthropicAdapter) BuildParams(req Request) anthropic.MessageNewParams {
	history := window(req.History)

	messages := make([]anthropic.MessageParam, 0, len(history)+1)
	messages = append(messages, convertToAnthropicMessages(history)...)
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Message)))

	return anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   a.sampling.MaxTokens,
		Temperature: anthropic.Float(a.sampling.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: SystemPreamble(req.Context)},
		},
		Messages: messages,
	}
}

// Send implements Adapter.Send.
func (a *AnthropicAdapter) Send(ctx context.Context, req Request) (string, error) {
	msg, err := a.messages.New(ctx, a.BuildParams(req))
	if err != nil {
		return "", err
	}
	return extractAnthropicReply(msg)
}

// extractAnthropicReply returns the text of the first content block.
func extractAnthropicReply(msg *anthropic.Message) (string, error) {
	if msg == nil || len(msg.Content) == 0 {
		return "", errors.New("response contained no content blocks")
	}
	first := msg.Content[0]
	if first.Type != "" && first.Type != "text" {
		return "", fmt.Errorf("first content block is %q, not text", first.Type)
	}
	return first.Text, nil
}

// convertToAnthropicMessages converts conversation turns to Anthropic message params.
func convertToAnthropicMessages(turns []model.Turn) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(turns))

	for _, t := range turns {
		switch t.Role {
		case model.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}

	return result
}

func newAnthropic(t Transports, apiKey, model string, sampling Sampling) (*AnthropicAdapter, error) {
	if t.Anthropic == nil {
		return nil, fmt.Errorf("%w: Anthropic SDK transport is not available", ErrMissingDependency)
	}

	messages := t.Anthropic(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return NewAnthropicAdapter(messages, model, sampling), nil
}
