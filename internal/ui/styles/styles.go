package styles

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess  = "✓"
	SymbolWarning  = "⚠"
	SymbolSortAsc  = "▲"
	SymbolSortDesc = "▼"
	SymbolSortIdle = "↕"
	SymbolPrev     = "‹"
	SymbolNext     = "›"
	SymbolEllipsis = "…"
	SymbolSearch   = "🔍"
)

var forceNoColor atomic.Bool

// SetNoColor disables colors for the rest of the process (--no-color).
func SetNoColor(v bool) {
	forceNoColor.Store(v)
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor.Load() || os.Getenv("NO_COLOR") != "" || os.Getenv("ERPTABLE_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("ERPTABLE_ACCESSIBLE") == "1" || os.Getenv("ERPTABLE_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold = lipgloss.NewStyle().Bold(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Cell display
	CodeStyle   = lipgloss.NewStyle().Foreground(ColorCode)
	BadgeStyle  = lipgloss.NewStyle().Foreground(ColorBadge).Bold(true)
	MoneyStyle  = lipgloss.NewStyle().Foreground(ColorMoney)
	DateStyle   = lipgloss.NewStyle().Foreground(ColorDate)
	ActionStyle = lipgloss.NewStyle().Foreground(ColorAction)

	// Table chrome
	HeaderStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	TitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	SortActiveStyle = lipgloss.NewStyle().Foreground(ColorSortActive)
	SortIdleStyle   = lipgloss.NewStyle().Foreground(ColorSortIdle)
	PageActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPageActive)
	MatchStyle      = lipgloss.NewStyle().Foreground(ColorMatch)

	// Interactive TUI
	SelectedStyle = lipgloss.NewStyle().
			Background(BgHighlight).
			Foreground(TextPrimary)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// render applies a style if colors are enabled
func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Render applies a style unless colors are disabled. Exported for cell
// renderers that build their own styles.
func Render(s lipgloss.Style, text string) string {
	return render(s, text)
}

// Code formats an ERP code
func Code(code string) string {
	return render(CodeStyle, code)
}

// Badge formats a short identifier such as a coligada or filial
func Badge(text string) string {
	return render(BadgeStyle, text)
}

// Money formats an already formatted currency amount
func Money(amount string) string {
	return render(MoneyStyle, amount)
}

// Date formats a date/timestamp
func Date(date string) string {
	return render(DateStyle, date)
}

// Action formats a row action marker
func Action(text string) string {
	return render(ActionStyle, text)
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", render(WarningStyle, symbol), msg)
}

// InfoMsg formats an info message
func InfoMsg(msg string) string {
	return render(InfoStyle, msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return render(MutedStyle, msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Section formatters - consistent output structure
// ═══════════════════════════════════════════════════════════════════════════

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", render(HelpKey, key), render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Cyan colors s with the info color
func Cyan(s string) string { return render(InfoStyle, s) }
