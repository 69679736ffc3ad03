package provider

import "fitchat/model"

// SystemPrompt is the fixed instruction sent ahead of every conversation.
const SystemPrompt = "You are a helpful fitness assistant analyzing the user's activity and health data. " +
	"Provide insights, answer questions, and help users understand their fitness metrics."

// HistoryWindow is the number of most recent turns (5 exchanges) included in a request.
const HistoryWindow = 10

// Sampling holds the generation limits applied to every call.
type Sampling struct {
	Temperature float64
	MaxTokens   int64
}

// DefaultSampling returns temperature 0.7 and 2048 output tokens.
func DefaultSampling() Sampling {
	return Sampling{Temperature: 0.7, MaxTokens: 2048}
}

// SystemPreamble returns the system instruction with the user's data appended
// when context is non-empty.
func SystemPreamble(context string) string {
	if context == "" {
		return SystemPrompt
	}
	return SystemPrompt + "\n\n" + dataBlock(context)
}

// InlinePrompt folds the user's data into the user message for providers
// without a discrete system role.
func InlinePrompt(message, context string) string {
	if context == "" {
		return message
	}
	return dataBlock(context) + "\n\nUser question: " + message
}

func dataBlock(context string) string {
	return "Here is the user's data:\n" + context
}

// window trims turns to the last HistoryWindow entries.
func window(turns []model.Turn) []model.Turn {
	if len(turns) > HistoryWindow {
		return turns[len(turns)-HistoryWindow:]
	}
	return turns
}
