package ui

import (
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const (
	codeBar   = "┃"
	codeRule  = "━"
	minWidth  = 20
	ansiRed   = "\x1b[31m"
	ansiGray  = "\x1b[90m"
	ansiReset = "\x1b[0m"
)

// RenderMarkdown renders an assistant reply for a terminal of the given width.
func RenderMarkdown(content string, width int) string {
	if width < minWidth {
		width = minWidth
	}

	// Plain URLs stay plain so the terminal can make them clickable.
	content = preprocessLinks(content)
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, markdown.NewRenderer(width-4, 0))

	return postProcessMarkdown(string(rendered), width)
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = colorURLs(rendered)
	return frameCodeBlocks(rendered, width)
}

// preprocessLinks turns [text](url) into the bare url.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps the renderer's blue-background inline code for red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, ansiRed+"$1"+ansiReset)
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, ansiRed+"$1"+ansiReset)
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the renderer's ┃ gutter on code lines with a
// horizontal rule above and below the block.
func frameCodeBlocks(s string, width int) string {
	var result []string
	inCodeBlock := false

	closeBlock := func() {
		result = append(result, "", ansiGray+strings.Repeat(codeRule, width-4)+ansiReset, "")
		inCodeBlock = false
	}

	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				label := "[code]"
				left := (width - 4 - len(label)) / 2
				right := width - 4 - len(label) - left
				result = append(result, "",
					ansiGray+strings.Repeat(codeRule, left)+ansiReset+label+ansiGray+strings.Repeat(codeRule, right)+ansiReset,
					"")
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}

		if inCodeBlock {
			closeBlock()
		}
		result = append(result, line)
	}

	if inCodeBlock {
		closeBlock()
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}
