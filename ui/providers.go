package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"fitchat/ollama"
	"fitchat/provider"
)

const (
	idWidth      = 10
	nameWidth    = 20
	defaultWidth = 28
	modelsShown  = 3
)

// ProvidersTable lists the supported providers with their default model, a
// local/no-key marker and the first few catalog models.
func ProvidersTable(descs map[provider.ProviderID]provider.Descriptor, width int) string {
	var b strings.Builder

	header := pad("ID", idWidth) + pad("PROVIDER", nameWidth) + pad("DEFAULT MODEL", defaultWidth) + "MODELS"
	b.WriteString(TitleStyle.Render(header) + "\n")

	restWidth := width - idWidth - nameWidth - defaultWidth
	if restWidth < 10 {
		restWidth = 10
	}

	for _, id := range provider.IDs() {
		d, ok := descs[id]
		if !ok {
			continue
		}

		def := d.DefaultModel
		if def == "" {
			def = "(deployment)"
		}
		if d.IsLocal {
			def += " [local, no key]"
		}

		models := d.Models
		if len(models) > modelsShown {
			models = models[:modelsShown]
		}
		modelText := strings.Join(models, ", ")
		if len(d.Models) > modelsShown {
			modelText += ", ..."
		}
		if modelText == "" {
			modelText = DimStyle.Render(d.Note)
		} else {
			modelText = runewidth.Truncate(modelText, restWidth, "...")
		}

		b.WriteString(pad(string(id), idWidth) + pad(d.DisplayName, nameWidth) + pad(def, defaultWidth) + modelText + "\n")
	}

	return b.String()
}

// FormatProbe renders a discovery result as a status line followed by the
// model names.
func FormatProbe(r ollama.ProbeResult) string {
	var b strings.Builder

	status := SuccessStyle.Render("●")
	if !r.Reachable {
		status = ErrorStyle.Render("●")
	} else if len(r.Models) == 0 {
		status = WarningStyle.Render("●")
	}
	fmt.Fprintf(&b, "%s %s  %s\n", status, r.Endpoint, r.Message)

	for _, m := range r.Models {
		fmt.Fprintf(&b, "    %s\n", m)
	}

	return b.String()
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	s = runewidth.Truncate(s, width-1, "…")
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}
