// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/bmt/internal/project"
	"github.com/fatih/color"
)

// Printer renders the discovered-mod list to the configured destination.
type Printer struct {
	output     io.Writer
	useColors  bool
	jsonOutput bool
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// PrintMods writes the mod list. In JSON mode the whole list is one
// document; otherwise one line per mod with an inclusion marker.
func (p *Printer) PrintMods(mods []project.DiscoveredMod) error {
	if p.jsonOutput {
		data, err := json.MarshalIndent(mods, "", "  ")
		if err != nil {
			return fmt.Errorf("printer: encoding mods: %w", err)
		}
		fmt.Fprintf(p.output, "%s\n", data)
		return nil
	}

	nameColor := color.New(color.FgCyan, color.Bold)
	for _, m := range mods {
		marker := "[ ]"
		if m.Included {
			marker = "[x]"
		}
		name := m.Name
		if p.useColors {
			name = nameColor.Sprint(name)
		}
		fmt.Fprintf(p.output, "%s %s  %s\n", marker, name, m.ManifestPath)
	}
	return nil
}
