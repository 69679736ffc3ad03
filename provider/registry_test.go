package provider_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"fitchat/provider"
)

func TestListProviders(t *testing.T) {
	providers := provider.ListProviders()

	want := []provider.ProviderID{
		provider.XAI, provider.OpenAI, provider.Azure,
		provider.Gemini, provider.Anthropic, provider.Ollama,
	}
	if len(providers) != len(want) {
		t.Fatalf("len(ListProviders()) = %d, want %d", len(providers), len(want))
	}
	for _, id := range want {
		d, ok := providers[id]
		if !ok {
			t.Errorf("provider %q missing", id)
			continue
		}
		if d.ID != id {
			t.Errorf("descriptor for %q has ID %q", id, d.ID)
		}
		if d.DisplayName == "" {
			t.Errorf("provider %q has no display name", id)
		}
	}
}

func TestListProvidersReturnsCopies(t *testing.T) {
	first := provider.ListProviders()
	d := first[provider.OpenAI]
	d.Models[0] = "tampered"
	d.DefaultModel = "tampered"
	first[provider.OpenAI] = d
	delete(first, provider.XAI)

	second := provider.ListProviders()
	if second[provider.OpenAI].Models[0] == "tampered" {
		t.Error("mutating a returned descriptor changed the registry models")
	}
	if second[provider.OpenAI].DefaultModel != "gpt-4o" {
		t.Error("mutating a returned descriptor changed the registry default model")
	}
	if _, ok := second[provider.XAI]; !ok {
		t.Error("deleting from the returned map changed the registry")
	}
}

func TestDescriptorInvariants(t *testing.T) {
	for id, d := range provider.ListProviders() {
		if d.DefaultModel != "" && len(d.Models) > 0 && !slices.Contains(d.Models, d.DefaultModel) {
			t.Errorf("%s: default model %q not in model list", id, d.DefaultModel)
		}
		if d.RequiresDeployment != (id == provider.Azure) {
			t.Errorf("%s: RequiresDeployment = %v", id, d.RequiresDeployment)
		}
		if d.IsLocal != (id == provider.Ollama) {
			t.Errorf("%s: IsLocal = %v", id, d.IsLocal)
		}
		if d.RequiresAPIKey == d.IsLocal {
			t.Errorf("%s: RequiresAPIKey = %v with IsLocal = %v", id, d.RequiresAPIKey, d.IsLocal)
		}
		alt := id == provider.Gemini || id == provider.Anthropic
		if d.UsesAlternateTransport != alt {
			t.Errorf("%s: UsesAlternateTransport = %v", id, d.UsesAlternateTransport)
		}
	}
}

func TestDescribe(t *testing.T) {
	d, err := provider.Describe(provider.Gemini)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if d.DisplayName != "Google Gemini" {
		t.Errorf("DisplayName = %q", d.DisplayName)
	}
	if d.DefaultModel != "gemini-1.5-flash" {
		t.Errorf("DefaultModel = %q", d.DefaultModel)
	}
}

func TestDescribeUnknown(t *testing.T) {
	tests := []struct {
		id          provider.ProviderID
		wantSuggest string
	}{
		{"antropic", `did you mean "anthropic"`},
		{"gemni", `did you mean "gemini"`},
		{"zzz", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			_, err := provider.Describe(tt.id)
			if !errors.Is(err, provider.ErrUnknownProvider) {
				t.Fatalf("Describe() error = %v, want ErrUnknownProvider", err)
			}
			msg := err.Error()
			if !strings.Contains(msg, "choose from: anthropic, azure, gemini, ollama, openai, xai") {
				t.Errorf("error does not list providers: %q", msg)
			}
			if tt.wantSuggest == "" {
				if strings.Contains(msg, "did you mean") {
					t.Errorf("unexpected suggestion: %q", msg)
				}
			} else if !strings.Contains(msg, tt.wantSuggest) {
				t.Errorf("error %q does not contain %q", msg, tt.wantSuggest)
			}
		})
	}
}

func TestIDsSorted(t *testing.T) {
	ids := provider.IDs()
	if !slices.IsSorted(ids) {
		t.Errorf("IDs() = %v, not sorted", ids)
	}
}
