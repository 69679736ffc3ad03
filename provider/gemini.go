package provider

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"fitchat/model"
)

// GenerateContentAPI is the part of the Gen AI SDK used by GeminiAdapter.
// *genai.Models satisfies it.
type GenerateContentAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAdapter implements Adapter using Google's Gen AI SDK.
//
// Gemini has no system message in the contents list, so the user's data is
// folded into the prompt text of the new user message.
type GeminiAdapter struct {
	models GenerateContentAPI
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiAdapter creates an adapter for model. The generation config is
// built once and reused for every call.
func NewGeminiAdapter(models GenerateContentAPI, model string, sampling Sampling) *GeminiAdapter {
	return &GeminiAdapter{
		models: models,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(sampling.Temperature)),
			MaxOutputTokens: int32(sampling.MaxTokens),
		},
	}
}

// Family implements Adapter.Family.
func (a *GeminiAdapter) Family() Family {
	return FamilyGemini
}

// GenerationConfig returns the config sent with every request.
func (a *GeminiAdapter) GenerationConfig() *genai.GenerateContentConfig {
	return a.config
}

// BuildContents converts a Request to Gemini contents: the windowed history
// with assistant turns mapped to the "model" role, then the new prompt.
func (a *GeminiAdapter) BuildContents(req Request) []*genai.Content {
	history := window(req.History)

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Content, geminiRole(t.Role)))
	}
	contents = append(contents, genai.NewContentFromText(InlinePrompt(req.Message, req.Context), genai.RoleUser))

	return contents
}

// Send implements Adapter.Send.
func (a *GeminiAdapter) Send(ctx context.Context, req Request) (string, error) {
	resp, err := a.models.GenerateContent(ctx, a.model, a.BuildContents(req), a.config)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("response contained no candidates")
	}
	return resp.Text(), nil
}

func geminiRole(r model.Role) genai.Role {
	if r == model.RoleUser {
		return genai.RoleUser
	}
	return genai.RoleModel
}

func newGemini(ctx context.Context, t Transports, apiKey, model string, sampling Sampling) (*GeminiAdapter, error) {
	if t.Gemini == nil {
		return nil, fmt.Errorf("%w: Google Gen AI SDK transport is not available", ErrMissingDependency)
	}

	models, err := t.Gemini(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewGeminiAdapter(models, model, sampling), nil
}
