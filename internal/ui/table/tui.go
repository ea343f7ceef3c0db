package table

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/cases"

	"github.com/portal-erp/erptable/internal/datatable"
	"github.com/portal-erp/erptable/internal/ui/styles"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	defaultMaxColWidth = 30
	hiddenColWidth     = 3
	chromeLines        = 7 // title, search, header, separator, indicators, pager, help
)

// Column display state
type colState int

const (
	colStateDefault  colState = iota // capped at the max column width
	colStateExpanded                 // full width
	colStateHidden                   // minimal width (just "...")
)

// Table mode
type tableMode int

const (
	tableModeNormal tableMode = iota
	tableModeSearch
	tableModeDetail
)

// Exit mode: what to print after the TUI quits
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type recordsLoadedMsg struct {
	records []datatable.Record
	err     error
}

type tableModel struct {
	ctx  context.Context
	t    *datatable.Table
	load Loader
	opts DisplayOptions

	colStates   []colState
	cursor      int // selected row within the current page
	colCursor   int // selected column
	scrollX     int // horizontal scroll offset in cells
	scrollY     int // first visible row of the current page
	width       int
	height      int
	ready       bool
	mode        tableMode
	searchInput textinput.Model
	spinner     spinner.Model
	detail      viewport.Model
	exitMode    exitMode
	loadErr     error

	// Animation state for smooth horizontal scrolling
	animating   bool
	animTargetX int

	// Status message (flash notification, e.g. after yank)
	statusMsg   string
	statusLevel slog.Level
	statusUntil time.Time
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type tableKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ShiftLeft   key.Binding
	ShiftRight  key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	Sort        key.Binding
	ClearSort   key.Binding
	Detail      key.Binding
	Expand      key.Binding
	Hide        key.Binding
	Search      key.Binding
	Back        key.Binding
	Quit        key.Binding
	YankCell    key.Binding
	YankRow     key.Binding
	ExportJSON  key.Binding
	ExportRaw   key.Binding
	ExportPlain key.Binding
}

var tableKeys = tableKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next column")),
	ShiftLeft:   key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "scroll half left")),
	ShiftRight:  key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "scroll half right")),
	NextPage:    key.NewBinding(key.WithKeys("n", "pgdown", "ctrl+d"), key.WithHelp("n", "next page")),
	PrevPage:    key.NewBinding(key.WithKeys("p", "pgup", "ctrl+u"), key.WithHelp("p", "prev page")),
	FirstPage:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first page")),
	LastPage:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last page")),
	Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
	ClearSort:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "clear sort")),
	Detail:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Expand:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand/default")),
	Hide:        key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide/default")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	YankCell:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	ExportJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	ExportRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	ExportPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// RunTableTUI launches the interactive table viewer. It blocks until the
// user quits. When load is set, records arrive in the background while the
// table shows its loading state. If the user requests an export (J/R/P), the
// searched and sorted records are printed to stdout after the TUI exits.
func RunTableTUI(ctx context.Context, t *datatable.Table, load Loader, opts DisplayOptions) error {
	// Warnings go to the status line while the alternate screen is up
	handler := NewStatusLogHandler(slog.LevelWarn)
	prev := slog.Default()
	slog.SetDefault(slog.New(handler))
	defer slog.SetDefault(prev)

	m := newTableModel(ctx, t, load, opts)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	handler.SetProgram(p)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(tableModel)
	if !ok {
		return nil
	}
	if fm.loadErr != nil {
		return fm.loadErr
	}

	switch fm.exitMode {
	case exitJSON:
		return WriteJSON(os.Stdout, t, opts.Fields)
	case exitRaw:
		return WriteRaw(os.Stdout, t)
	case exitPlain:
		return WritePage(os.Stdout, t)
	}
	return nil
}

func newTableModel(ctx context.Context, t *datatable.Table, load Loader, opts DisplayOptions) tableModel {
	if opts.MaxColWidth <= 0 {
		opts.MaxColWidth = defaultMaxColWidth
	}
	if load != nil {
		t.SetLoading(true)
	} else {
		applyLoaded(t, opts)
	}

	ti := textinput.New()
	ti.Placeholder = t.Messages().SearchPlaceholder
	ti.CharLimit = 100
	ti.Width = 30
	ti.SetValue(t.SearchTerm())

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Accent)),
	)

	return tableModel{
		ctx:         ctx,
		t:           t,
		load:        load,
		opts:        opts,
		colStates:   make([]colState, len(t.Columns())),
		searchInput: ti,
		spinner:     sp,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) Init() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load, ctx := m.load, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		records, err := load(ctx)
		return recordsLoadedMsg{records: records, err: err}
	})
}

func (m tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureRowVisible()
		if m.mode == tableModeDetail {
			m.sizeDetail()
		}

	case recordsLoadedMsg:
		m.t.SetLoading(false)
		if msg.err != nil {
			m.loadErr = msg.err
			m.statusMsg = msg.err.Error()
			m.statusLevel = slog.LevelError
			m.statusUntil = time.Time{}
			return m, nil
		}
		m.t.SetRecords(msg.records)
		applyLoaded(m.t, m.opts)
		m.resetRows()
		return m, nil

	case spinner.TickMsg:
		if !m.t.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logRecordMsg:
		return m, m.setStatusLevel(msg.Summary, msg.Level)

	case animTickMsg:
		cmd := m.updateAnimation()
		return m, cmd

	case statusClearMsg:
		// Clear the flash message if it has expired
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}
		return m, nil

	case tea.KeyMsg:
		m.cancelAnimation()

		switch m.mode {
		case tableModeSearch:
			return m.updateSearch(msg)
		case tableModeDetail:
			return m.updateDetail(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m tableModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, tableKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, tableKeys.Back):
		if m.t.SearchTerm() != "" {
			m.t.Search("")
			m.searchInput.SetValue("")
			m.resetRows()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, tableKeys.Search):
		if !m.t.Searchable() {
			return m, m.setStatusLevel("search is disabled for this table", slog.LevelWarn)
		}
		m.mode = tableModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, tableKeys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureRowVisible()
		}

	case key.Matches(msg, tableKeys.Down):
		if m.cursor < m.pageRowCount()-1 {
			m.cursor++
			m.ensureRowVisible()
		}

	case key.Matches(msg, tableKeys.Left):
		widths := m.colWidths()
		start := colStartX(widths, m.colCursor)
		if start < m.scrollX {
			m.scrollX = max(start, m.scrollX-3, 0)
		} else if m.colCursor > 0 {
			m.colCursor--
			m.ensureColVisible()
		}

	case key.Matches(msg, tableKeys.Right):
		widths := m.colWidths()
		end := colStartX(widths, m.colCursor) + widthAt(widths, m.colCursor)
		if end > m.scrollX+m.viewportWidth() {
			m.scrollX = min(m.scrollX+3, m.maxScrollX())
		} else if m.colCursor < len(m.t.Columns())-1 {
			m.colCursor++
			m.ensureColVisible()
		}

	case key.Matches(msg, tableKeys.ShiftLeft):
		return m, m.startAnimation(m.scrollX - max(m.width/2, 1))

	case key.Matches(msg, tableKeys.ShiftRight):
		return m, m.startAnimation(m.scrollX + max(m.width/2, 1))

	case key.Matches(msg, tableKeys.NextPage):
		m.t.NextPage()
		m.resetRows()

	case key.Matches(msg, tableKeys.PrevPage):
		m.t.PrevPage()
		m.resetRows()

	case key.Matches(msg, tableKeys.FirstPage):
		m.t.FirstPage()
		m.resetRows()

	case key.Matches(msg, tableKeys.LastPage):
		m.t.LastPage()
		m.resetRows()

	case key.Matches(msg, tableKeys.Sort):
		cols := m.t.Columns()
		if m.colCursor >= len(cols) {
			return m, nil
		}
		col := cols[m.colCursor]
		if !m.t.ClickHeader(col.Key) {
			return m, m.setStatusLevel(fmt.Sprintf("%s is not sortable", headerName(col)), slog.LevelWarn)
		}
		m.resetRows()

	case key.Matches(msg, tableKeys.ClearSort):
		m.t.SetSort(nil)
		m.resetRows()

	case key.Matches(msg, tableKeys.Detail):
		if _, ok := m.selectedRecord(); ok {
			m.mode = tableModeDetail
			m.detail = viewport.New(0, 0)
			m.sizeDetail()
		}

	case key.Matches(msg, tableKeys.Expand):
		m.toggleColState(colStateExpanded)

	case key.Matches(msg, tableKeys.Hide):
		m.toggleColState(colStateHidden)

	case key.Matches(msg, tableKeys.YankCell):
		return m, m.yankCell()

	case key.Matches(msg, tableKeys.YankRow):
		return m, m.yankRow()

	case key.Matches(msg, tableKeys.ExportJSON):
		m.exitMode = exitJSON
		return m, tea.Quit

	case key.Matches(msg, tableKeys.ExportRaw):
		m.exitMode = exitRaw
		return m, tea.Quit

	case key.Matches(msg, tableKeys.ExportPlain):
		m.exitMode = exitPlain
		return m, tea.Quit
	}

	return m, nil
}

func (m *tableModel) toggleColState(state colState) {
	if m.colCursor >= len(m.colStates) {
		return
	}
	if m.colStates[m.colCursor] == state {
		m.colStates[m.colCursor] = colStateDefault
	} else {
		m.colStates[m.colCursor] = state
	}
	m.ensureColVisible()
}

// resetRows moves the cursor to the top of the (new) current page
func (m *tableModel) resetRows() {
	m.cursor = 0
	m.scrollY = 0
}

// ═══════════════════════════════════════════════════════════════════════════
// Search
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.t.Search("")
		m.resetRows()
		return m, nil
	case tea.KeyEnter:
		m.mode = tableModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filter as user types; a changed term always restarts at page 1
	if value := m.searchInput.Value(); value != m.t.SearchTerm() {
		m.t.Search(value)
		m.resetRows()
	}

	return m, cmd
}

// ═══════════════════════════════════════════════════════════════════════════
// Row detail
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, tableKeys.Back), key.Matches(msg, tableKeys.Detail), msg.String() == "q":
		m.mode = tableModeNormal
	case key.Matches(msg, tableKeys.Up):
		m.detail.ScrollUp(1)
	case key.Matches(msg, tableKeys.Down):
		m.detail.ScrollDown(1)
	case key.Matches(msg, tableKeys.PrevPage):
		m.detail.HalfViewUp()
	case key.Matches(msg, tableKeys.NextPage):
		m.detail.HalfViewDown()
	case key.Matches(msg, tableKeys.YankRow):
		return m, m.yankRow()
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// detailFields orders a record's keys: display field order first, then any
// remaining keys by name
func (m tableModel) detailFields(rec datatable.Record) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range m.opts.Fields {
		if _, ok := rec[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range rec {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// detailContent lists every field of the selected record, one per line
func (m tableModel) detailContent() string {
	rec, ok := m.selectedRecord()
	if !ok {
		return ""
	}

	keys := m.detailFields(rec)
	labelWidth := 0
	for _, k := range keys {
		labelWidth = max(labelWidth, lipgloss.Width(k))
	}

	// Columns with a renderer show their formatted value next to the raw one
	rendered := make(map[string]string)
	for _, col := range m.t.Columns() {
		if col.Render != nil && !strings.HasPrefix(col.Key, "_") {
			rendered[col.Key] = col.Cell(rec)
		}
	}

	var lines []string
	for _, k := range keys {
		raw, present := datatable.FormatValue(rec[k])
		if !present {
			raw = styles.MutedMsg("null")
		}
		line := styles.Render(styles.HeaderStyle, FitCell(k, labelWidth)) + "  " + raw
		if r, ok := rendered[k]; ok && plainText(r) != raw {
			line += "  " + styles.MutedMsg("→") + " " + r
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// sizeDetail fits the detail viewport to its content and the window, keeping
// the scroll offset within range
func (m *tableModel) sizeDetail() {
	content := m.detailContent()
	m.detail.Width = max(min(lipgloss.Width(content), m.width-4), 1) // border and padding
	m.detail.Height = max(min(lipgloss.Height(content), m.height-chromeLines), 1)
	m.detail.SetContent(content)
	m.detail.SetYOffset(m.detail.YOffset)
}

func (m tableModel) renderDetail() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Padding(0, 1)
	if m.width > 4 {
		box = box.MaxWidth(m.width)
	}
	return box.Render(m.detail.View())
}

// ═══════════════════════════════════════════════════════════════════════════
// Row / Column Helpers
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) pageRowCount() int {
	if m.t.Loading() {
		return 0
	}
	return len(m.t.Current())
}

func (m tableModel) selectedRecord() (datatable.Record, bool) {
	if m.t.Loading() {
		return nil, false
	}
	page := m.t.Current()
	if m.cursor < 0 || m.cursor >= len(page) {
		return nil, false
	}
	return page[m.cursor], true
}

func headerName(col datatable.Column) string {
	if col.Header != "" {
		return col.Header
	}
	return col.Key
}

func (m tableModel) headerLabels() []string {
	cols := m.t.Columns()
	labels := make([]string, len(cols))
	sortState := m.t.Sort()
	for i, col := range cols {
		labels[i] = HeaderLabel(col, sortState, true)
	}
	return labels
}

func (m tableModel) pageRows() []datatable.Row {
	body := m.t.Body()
	if body.Kind != datatable.BodyRows {
		return nil
	}
	return body.Rows
}

// colWidths applies the per-column display state to the measured widths
func (m tableModel) colWidths() []int {
	cols := m.t.Columns()
	headers := m.headerLabels()
	rows := m.pageRows()
	full := ColumnWidths(cols, headers, rows, 0)
	capped := ColumnWidths(cols, headers, rows, m.opts.MaxColWidth)

	widths := make([]int, len(cols))
	for i := range cols {
		switch m.stateAt(i) {
		case colStateExpanded:
			widths[i] = full[i]
		case colStateHidden:
			widths[i] = hiddenColWidth
		default:
			widths[i] = capped[i]
		}
	}
	return widths
}

func (m tableModel) stateAt(i int) colState {
	if i < 0 || i >= len(m.colStates) {
		return colStateDefault
	}
	return m.colStates[i]
}

func widthAt(widths []int, i int) int {
	if i < 0 || i >= len(widths) {
		return 0
	}
	return widths[i]
}

func colStartX(widths []int, colIdx int) int {
	x := 0
	for i := 0; i < colIdx && i < len(widths); i++ {
		x += widths[i] + 2 // +2 for column separator spacing
	}
	return x
}

func totalWidth(widths []int) int {
	return colStartX(widths, len(widths))
}

func (m tableModel) viewportWidth() int {
	return max(m.width-2, 1)
}

func (m tableModel) maxScrollX() int {
	return max(totalWidth(m.colWidths())-m.viewportWidth(), 0)
}

func (m tableModel) visibleRowCount() int {
	return max(m.height-chromeLines, 1)
}

// ═══════════════════════════════════════════════════════════════════════════
// Animation
// ═══════════════════════════════════════════════════════════════════════════

type animTickMsg time.Time

const animationFrameInterval = 16 * time.Millisecond
const animationFraction = 0.25
const animationSnapThreshold = 1

func animTick() tea.Cmd {
	return tea.Tick(animationFrameInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func (m *tableModel) startAnimation(targetX int) tea.Cmd {
	targetX = min(max(targetX, 0), m.maxScrollX())
	m.animTargetX = targetX

	if targetX == m.scrollX {
		m.animating = false
		return nil
	}
	// Accessible mode jumps straight to the target
	if styles.IsAccessible() {
		m.scrollX = targetX
		return nil
	}
	if !m.animating {
		m.animating = true
		return animTick()
	}
	return nil
}

func (m *tableModel) updateAnimation() tea.Cmd {
	if !m.animating {
		return nil
	}

	remaining := m.animTargetX - m.scrollX
	if abs(remaining) <= animationSnapThreshold {
		m.scrollX = m.animTargetX
		m.animating = false
		return nil
	}

	delta := int(float64(remaining) * animationFraction)
	if delta == 0 {
		if remaining > 0 {
			delta = 1
		} else {
			delta = -1
		}
	}
	m.scrollX += delta

	return animTick()
}

func (m *tableModel) cancelAnimation() {
	m.animating = false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

type statusClearMsg struct{}

const statusDuration = 3 * time.Second

// setStatusLevel sets a temporary status message that auto-clears.
func (m *tableModel) setStatusLevel(msg string, level slog.Level) tea.Cmd {
	m.statusMsg = msg
	m.statusLevel = level
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m *tableModel) setStatus(msg string) tea.Cmd {
	return m.setStatusLevel(msg, slog.LevelInfo)
}

func (m tableModel) statusVisible() bool {
	if m.statusMsg == "" {
		return false
	}
	// A zero deadline keeps the message until something replaces it
	return m.statusUntil.IsZero() || time.Now().Before(m.statusUntil)
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

// yankCell copies the selected cell's text to the system clipboard.
func (m *tableModel) yankCell() tea.Cmd {
	rec, ok := m.selectedRecord()
	cols := m.t.Columns()
	if !ok || m.colCursor >= len(cols) {
		return nil
	}
	val := plainText(cols[m.colCursor].Cell(rec))
	if err := clipboard.WriteAll(val); err != nil {
		return m.setStatusLevel(fmt.Sprintf("clipboard error: %s", err), slog.LevelError)
	}
	return m.setStatus(fmt.Sprintf("Copied: %s", ansi.Truncate(val, 40, styles.SymbolEllipsis)))
}

// yankRow copies the selected row (tab-separated cells) to the clipboard.
func (m *tableModel) yankRow() tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	cols := dataColumns(m.t.Columns())
	cells := make([]string, len(cols))
	for i, col := range cols {
		cells[i] = plainText(col.Cell(rec))
	}
	if err := clipboard.WriteAll(strings.Join(cells, "\t")); err != nil {
		return m.setStatusLevel(fmt.Sprintf("clipboard error: %s", err), slog.LevelError)
	}
	return m.setStatus(fmt.Sprintf("Copied row (%d columns)", len(cols)))
}

// ═══════════════════════════════════════════════════════════════════════════
// Viewport
// ═══════════════════════════════════════════════════════════════════════════

// applyViewport returns the visual columns [startX, startX+width) of a
// styled line, padded to width.
func applyViewport(s string, startX, width int) string {
	if width <= 0 {
		return ""
	}
	cut := ansi.Cut(s, max(startX, 0), max(startX, 0)+width)
	if w := ansi.StringWidth(cut); w < width {
		cut += strings.Repeat(" ", width-w)
	}
	return cut
}

func (m *tableModel) ensureRowVisible() {
	visible := m.visibleRowCount()
	if m.cursor < m.scrollY {
		m.scrollY = m.cursor
	} else if m.cursor >= m.scrollY+visible {
		m.scrollY = m.cursor - visible + 1
	}
}

func (m *tableModel) ensureColVisible() {
	widths := m.colWidths()
	start := colStartX(widths, m.colCursor)
	end := start + widthAt(widths, m.colCursor)
	viewport := m.viewportWidth()

	if start < m.scrollX {
		m.scrollX = start
	} else if end > m.scrollX+viewport {
		if end-start <= viewport {
			m.scrollX = end - viewport
		} else {
			m.scrollX = start
		}
	}
	m.scrollX = min(max(m.scrollX, 0), m.maxScrollX())
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) View() string {
	if !m.ready {
		return m.t.Messages().Loading
	}

	var sb strings.Builder

	// Title line
	title := m.opts.Title
	if title == "" {
		title = "erptable"
	}
	sb.WriteString(styles.Render(styles.TitleStyle, title))
	if !m.t.Loading() {
		info := fmt.Sprintf("  %d records", len(m.t.Records()))
		if s := m.t.Sort(); s != nil {
			info += fmt.Sprintf(", sorted by %s %s", s.Key, s.Direction)
		}
		sb.WriteString(styles.MutedMsg(info))
	}
	sb.WriteString("\n")

	// Search line
	switch {
	case !m.t.Searchable():
		sb.WriteString("\n")
	case m.mode == tableModeSearch:
		sb.WriteString(fmt.Sprintf("%s %s\n", styles.SymbolSearch, m.searchInput.View()))
	case m.t.SearchTerm() != "":
		sb.WriteString(fmt.Sprintf("%s %s\n", styles.SymbolSearch, styles.Render(styles.MatchStyle, m.t.SearchTerm())))
	default:
		sb.WriteString(styles.MutedMsg(fmt.Sprintf("%s %s", styles.SymbolSearch, m.t.Messages().SearchPlaceholder)))
		sb.WriteString("\n")
	}

	if m.mode == tableModeDetail {
		sb.WriteString(m.renderDetail())
	} else {
		sb.WriteString(m.renderTable())
	}
	sb.WriteString("\n")

	// Caption and pagination
	var footer []string
	if m.t.Searchable() && !m.t.Loading() {
		footer = append(footer, styles.MutedMsg(m.t.Caption()))
	}
	if !m.t.Loading() {
		if bar := PaginationBar(m.t); bar != "" {
			footer = append(footer, bar)
		}
	}
	sb.WriteString(strings.Join(footer, "   "))
	sb.WriteString("\n")

	// Help / status
	switch {
	case m.statusVisible():
		sb.WriteString(m.renderStatus())
	case m.mode == tableModeSearch:
		sb.WriteString(styles.MutedMsg("enter confirm  esc clear"))
	case m.mode == tableModeDetail:
		sb.WriteString(styles.MutedMsg("↑↓ scroll  n/p half page  Y copy row  esc close"))
	default:
		help := helpLine(
			tableKeys.Sort, tableKeys.NextPage, tableKeys.PrevPage, tableKeys.Search,
			tableKeys.Detail, tableKeys.Expand, tableKeys.Hide, tableKeys.YankCell,
			tableKeys.ExportJSON, tableKeys.ExportRaw, tableKeys.ExportPlain, tableKeys.Quit,
		)
		sb.WriteString(ansi.Truncate(help, max(m.width, 1), styles.SymbolEllipsis))
	}

	return sb.String()
}

// helpLine renders "key desc" pairs from the bindings' help text
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.Render(styles.HelpKey, h.Key)+" "+styles.Render(styles.HelpValue, h.Desc))
	}
	return strings.Join(parts, "  ")
}

func (m tableModel) renderStatus() string {
	switch {
	case m.statusLevel >= slog.LevelError:
		return styles.ErrorMsg(m.statusMsg)
	case m.statusLevel >= slog.LevelWarn:
		return styles.WarningMsg(m.statusMsg)
	}
	return styles.SuccessMsg(m.statusMsg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

func (m tableModel) renderTable() string {
	var sb strings.Builder

	cols := m.t.Columns()
	if len(cols) == 0 {
		return "No columns"
	}

	viewportWidth := m.viewportWidth()
	widths := m.colWidths()

	sb.WriteString(applyViewport(m.buildHeaderLine(widths), m.scrollX, viewportWidth))
	sb.WriteString("\n")
	sb.WriteString(applyViewport(m.buildSeparatorLine(widths), m.scrollX, viewportWidth))
	sb.WriteString("\n")

	body := m.t.Body()
	switch body.Kind {
	case datatable.BodyLoading:
		sb.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), body.Message))
		return sb.String()
	case datatable.BodyEmpty:
		sb.WriteString(styles.MutedMsg(body.Message))
		sb.WriteString("\n")
		return sb.String()
	}

	visible := m.visibleRowCount()
	end := min(m.scrollY+visible, len(body.Rows))
	for i := m.scrollY; i < end; i++ {
		line := m.buildRowLine(body.Rows[i], widths, i == m.cursor)
		sb.WriteString(applyViewport(line, m.scrollX, viewportWidth))
		sb.WriteString("\n")
	}

	// Scroll indicators
	var indicators []string
	if m.scrollX > 0 {
		indicators = append(indicators, "◀")
	}
	if m.scrollX+viewportWidth < totalWidth(widths) {
		indicators = append(indicators, "▶")
	}
	if m.scrollY > 0 {
		indicators = append(indicators, styles.SymbolSortAsc)
	}
	if end < len(body.Rows) {
		indicators = append(indicators, styles.SymbolSortDesc)
	}
	if len(indicators) > 0 {
		sb.WriteString(styles.MutedMsg(strings.Join(indicators, " ")))
	}

	return sb.String()
}

func (m tableModel) buildHeaderLine(widths []int) string {
	var sb strings.Builder
	selected := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent).Underline(true)

	for i, label := range m.headerLabels() {
		if m.stateAt(i) == colStateHidden {
			label = "..."
		}
		cell := FitCell(label, widths[i])
		if i == m.colCursor {
			sb.WriteString(styles.Render(selected, plainText(cell)))
		} else {
			sb.WriteString(styles.Render(styles.HeaderStyle, cell))
		}
		sb.WriteString("  ")
	}
	return sb.String()
}

func (m tableModel) buildSeparatorLine(widths []int) string {
	var sb strings.Builder
	normal := lipgloss.NewStyle().Foreground(styles.Muted)
	selected := lipgloss.NewStyle().Foreground(styles.Accent)

	for i, w := range widths {
		sep := strings.Repeat("─", w)
		if i == m.colCursor {
			sb.WriteString(styles.Render(selected, sep))
		} else {
			sb.WriteString(styles.Render(normal, sep))
		}
		sb.WriteString("  ")
	}
	return sb.String()
}

func (m tableModel) buildRowLine(row datatable.Row, widths []int, isSelectedRow bool) string {
	var sb strings.Builder

	selectedCell := lipgloss.NewStyle().Background(styles.Accent).Foreground(lipgloss.Color("#000000"))
	fold := cases.Fold()
	term := fold.String(m.t.SearchTerm())

	for i, cell := range row.Cells {
		if m.stateAt(i) == colStateHidden {
			cell = "..."
		}
		display := FitCell(cell, widths[i])
		plain := plainText(display)
		isSelectedCol := i == m.colCursor
		hasMatch := term != "" && strings.Contains(fold.String(plainText(cell)), term)

		switch {
		case isSelectedRow && isSelectedCol:
			sb.WriteString(styles.Render(selectedCell, plain))
		case isSelectedRow:
			sb.WriteString(styles.Render(styles.SelectedStyle, plain))
		case hasMatch:
			sb.WriteString(styles.Render(styles.MatchStyle, plain))
		default:
			sb.WriteString(display)
		}
		sb.WriteString("  ")
	}
	return sb.String()
}
