package testutil

import (
	"fmt"
	"time"

	"fitchat/model"
	"fitchat/provider"
)

// TestMessage and TestContext are the question and user data shared by the
// cross-provider tests.
const (
	TestMessage = "What was my resting heart rate?"
	TestContext = "HR: 52bpm"
	TestReply   = "Your resting heart rate was 52 bpm."
)

// Exchanges returns n alternating user/assistant turns pairs, numbered from 0.
func Exchanges(n int) []model.Turn {
	turns := make([]model.Turn, 0, 2*n)
	for i := 0; i < n; i++ {
		turns = append(turns,
			model.Turn{Role: model.RoleUser, Content: fmt.Sprintf("question %d", i), Timestamp: time.Now()},
			model.Turn{Role: model.RoleAssistant, Content: fmt.Sprintf("answer %d", i), Timestamp: time.Now()},
		)
	}
	return turns
}

// ConfigFor returns a valid Config for every provider id.
func ConfigFor(id provider.ProviderID) provider.Config {
	cfg := provider.Config{
		Provider: id,
		APIKey:   "test-key",
	}

	switch id {
	case provider.Azure:
		cfg.Options = map[string]string{
			provider.OptionAzureEndpoint:   "https://fitness.openai.azure.com",
			provider.OptionAzureDeployment: "fitness-gpt4o",
		}
	case provider.Ollama:
		cfg.APIKey = ""
	}

	return cfg
}
