package ui

import (
	"fmt"
	"strings"

	"fitchat/model"
)

// FormatTurn renders one conversation turn: a timestamped header and the
// content. User turns get a green bar in the gutter; assistant turns are
// rendered as markdown.
func FormatTurn(t model.Turn, width int) string {
	timestamp := DimStyle.Render(t.Timestamp.Format("[15:04]"))

	if t.IsUser() {
		return formatUserMessage(timestamp, UserStyle.Render("You"), t.Content)
	}

	role := AssistantStyle.Render("Assistant")
	return fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, RenderMarkdown(t.Content, width))
}

// FormatTranscript renders every turn in order.
func FormatTranscript(turns []model.Turn, width int) string {
	if len(turns) == 0 {
		return DimStyle.Render("No messages yet. Start chatting!") + "\n"
	}

	var b strings.Builder
	for _, t := range turns {
		b.WriteString(FormatTurn(t, width))
	}
	return b.String()
}

// PlainTranscript renders turns without styling, for the clipboard.
func PlainTranscript(turns []model.Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		name := "Assistant"
		if t.IsUser() {
			name = "You"
		}
		fmt.Fprintf(&b, "%s: %s", name, t.Content)
	}
	return b.String()
}

func formatUserMessage(timestamp, role, content string) string {
	bar := "\x1b[32;1m" + codeBar + ansiReset

	var result strings.Builder
	fmt.Fprintf(&result, "%s %s %s\n", bar, timestamp, role)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&result, "%s %s\n", bar, line)
	}
	result.WriteString("\n")

	return result.String()
}
