package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/validate"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TenantStatusColor returns the style for a tenant status cell.
func TenantStatusColor(status domain.TenantStatus) lipgloss.Style {
	switch status {
	case domain.TenantActive:
		return StyleGreen
	case domain.TenantSuspended:
		return StyleYellow
	case domain.TenantInactive:
		return StyleDim
	default:
		return StyleDim
	}
}

// ExtensionStatusColor returns the style for an extension status cell.
func ExtensionStatusColor(status domain.ExtensionStatus) lipgloss.Style {
	if status == domain.ExtensionActive {
		return StyleGreen
	}
	return StyleDim
}

// DispositionColor returns the style for a CDR disposition cell.
func DispositionColor(d domain.Disposition) lipgloss.Style {
	switch d {
	case domain.DispositionAnswered:
		return StyleGreen
	case domain.DispositionNoAnswer:
		return StyleYellow
	case domain.DispositionBusy:
		return StyleBlue
	case domain.DispositionFailed:
		return StyleRed
	default:
		return StyleDim
	}
}

// SeverityIndicator returns a colored marker for a validation finding,
// such as "● ERROR".
func SeverityIndicator(s validate.Severity) string {
	switch s {
	case validate.SeverityError:
		return StyleRed.Render("● ERROR")
	case validate.SeverityWarning:
		return StyleYellow.Render("● WARN")
	default:
		return StyleDim.Render("● INFO")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
