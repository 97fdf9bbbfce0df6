package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pbxdeck/pbxdeck/internal/cli/formatter"
	"github.com/pbxdeck/pbxdeck/internal/domain"
)

// deckHuhTheme returns a huh theme using the panel's Gruvbox palette.
func deckHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// newPaletteForm builds the "add node" kind picker. Start is not offered:
// every flow already has its single entry point.
func newPaletteForm(kind *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Node Kind").
				Options(
					huh.NewOption("Greeting", string(domain.KindGreeting)),
					huh.NewOption("Menu", string(domain.KindMenu)),
					huh.NewOption("Extension", string(domain.KindExtension)),
					huh.NewOption("Voicemail", string(domain.KindVoicemail)),
					huh.NewOption("Hangup", string(domain.KindHangup)),
				).
				Value(kind),
		),
	).WithTheme(deckHuhTheme()).WithShowHelp(false)
}

// nodeFields holds form-bound values for the property editor.
type nodeFields struct {
	kind      domain.NodeKind
	label     string
	audio     string
	extension string
	options   string // menu options as "digit=label" lines
}

func newNodeFields(n domain.Node) *nodeFields {
	f := &nodeFields{
		kind:      n.Kind,
		label:     n.Label,
		audio:     n.Audio,
		extension: n.Extension,
	}
	if n.Kind == domain.KindMenu {
		var lines []string
		for _, d := range menuKeypadOrder {
			if label, ok := n.Options[d]; ok {
				lines = append(lines, d+"="+label)
			}
		}
		f.options = strings.Join(lines, "\n")
	}
	return f
}

var menuKeypadOrder = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "*", "#"}

// patch converts the edited fields into a payload patch for the node's
// kind. Fields foreign to the kind stay nil so the graph's kind checking
// is never tripped by the form.
func (f *nodeFields) patch() domain.NodePatch {
	p := domain.NodePatch{Label: &f.label}
	switch f.kind {
	case domain.KindGreeting:
		p.Audio = &f.audio
	case domain.KindExtension:
		p.Extension = &f.extension
	case domain.KindMenu:
		p.Options = parseMenuOptions(f.options)
	}
	return p
}

// parseMenuOptions parses "digit=label" lines into an options map. Blank
// lines are skipped; a bare digit maps to an empty label.
func parseMenuOptions(text string) map[string]string {
	options := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		digit, label, _ := strings.Cut(line, "=")
		options[strings.TrimSpace(digit)] = strings.TrimSpace(label)
	}
	return options
}

// validateMenuOptions rejects lines whose key is not a DTMF digit.
func validateMenuOptions(text string) error {
	for digit := range parseMenuOptions(text) {
		if !domain.ValidDigits[digit] {
			return fmt.Errorf("%q is not a DTMF digit", digit)
		}
	}
	return nil
}

// newNodeForm builds the kind-specific property form.
func newNodeForm(kind domain.NodeKind, f *nodeFields) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Label").
			Value(&f.label),
	}

	switch kind {
	case domain.KindGreeting:
		fields = append(fields, huh.NewInput().
			Title("Audio File").
			Placeholder("welcome.wav").
			Value(&f.audio))
	case domain.KindExtension:
		fields = append(fields, huh.NewInput().
			Title("Extension").
			Placeholder("100").
			Value(&f.extension))
	case domain.KindMenu:
		fields = append(fields, huh.NewText().
			Title("Options (digit=label per line)").
			Placeholder("1=Sales\n2=Support\n0=Operator").
			Value(&f.options).
			Validate(validateMenuOptions))
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithTheme(deckHuhTheme()).WithShowHelp(false)
}
