package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var aboutFeatures = []string{
	"Ask questions about your fitness data",
	"xAI, OpenAI, Azure OpenAI, Gemini, Anthropic or a local Ollama server",
	"API keys stored in plain text or encrypted with an SSH key",
}

// RenderAbout renders the version box shown by `fitchat about`.
func RenderAbout(version, license string) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Foreground(successColor).Render("fitchat"))
	sb.WriteString("\n\n")

	for _, feature := range aboutFeatures {
		sb.WriteString(DimStyle.Render("• " + feature))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	labelStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)

	sb.WriteString(labelStyle.Render("Version: "))
	sb.WriteString(DimStyle.Render(version))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("License: "))
	sb.WriteString(DimStyle.Render(license))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return boxStyle.Render(sb.String()) + "\n"
}
