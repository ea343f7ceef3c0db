package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, dark mode optimized, semantic colors
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success, money
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings, search matches
	Error   = lipgloss.Color("#EF4444") // red-500 - errors
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info, codes
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Text colors
	TextPrimary = lipgloss.Color("#F9FAFB") // gray-50 - main text

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - selected items
	BgBorder    = lipgloss.Color("#374151") // gray-700 - borders
)

// Semantic color aliases for clarity
var (
	// Cell colors
	ColorCode   = Info    // ERP codes (CODATENDIMENTO, NUMEROMOV)
	ColorBadge  = Accent  // Coligada / filial badges
	ColorMoney  = Success // Currency values
	ColorDate   = Muted   // Dates and timestamps
	ColorAction = Accent  // Row action markers

	// Table chrome
	ColorHeader     = Info    // Column headers
	ColorSortActive = Accent  // Active sort arrow
	ColorSortIdle   = BgBorder
	ColorPageActive = Accent  // Current page button
	ColorMatch      = Warning // Cells containing the search term
)
