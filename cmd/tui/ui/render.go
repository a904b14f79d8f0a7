package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/VoxDroid/cmdpal/internal/commands"
	modelpkg "github.com/VoxDroid/cmdpal/internal/tui/model"
)

// entryItem adapts modelpkg.Entry for the list component
type entryItem struct{ e modelpkg.Entry }

func (c entryItem) Title() string {
	if c.e.Favorite {
		return "★ " + c.e.Record.Name
	}
	return c.e.Record.Name
}

func (c entryItem) Description() string { return c.e.Record.Group + " · " + c.e.Record.Command }
func (c entryItem) FilterValue() string { return c.e.Record.Name }

// simple word-wrap to produce lines no longer than width (approximate by rune count)
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	out := []string{}
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) > width {
				out = append(out, cur)
				cur = w
			} else {
				cur = cur + " " + w
			}
		}
		out = append(out, cur)
	}
	return out
}

// renderTableInline renders a label on the left and the value on the same line
// when possible. Values are wrapped to valueW and continuation lines are
// aligned under the value column.
func renderTableInline(label, value string, labelW, valueW int) string {
	if labelW < 0 {
		labelW = 0
	}
	if valueW < 0 {
		valueW = 0
	}
	padded := label
	if utf8.RuneCountInString(padded) < labelW {
		padded = padded + strings.Repeat(" ", labelW-utf8.RuneCountInString(padded))
	}
	lines := wrapText(value, valueW)
	var b strings.Builder
	for i, ln := range lines {
		if i == 0 {
			b.WriteString(padded + " " + ln + "\n")
		} else {
			b.WriteString(strings.Repeat(" ", labelW) + " " + ln + "\n")
		}
	}
	return b.String()
}

// formatEntryDetails renders the selected command as an invisible table.
func formatEntryDetails(e modelpkg.Entry, width int) string {
	contentW := width - 4
	if contentW < 10 {
		contentW = 10
	}
	type row struct{ label, value string }
	rows := []row{
		{"Name:", e.Record.Name},
		{"Group:", e.Record.Group},
		{"Type:", e.Record.Kind.String()},
		{"Command:", e.Record.Command},
	}
	if e.Record.Cwd != "" {
		rows = append(rows, row{"Cwd:", e.Record.Cwd})
	}
	if e.Record.Detail != "" {
		rows = append(rows, row{"Detail:", e.Record.Detail})
	}
	if e.Record.Kind != commands.PlainShell {
		rows = append(rows, row{"Runs:", e.Record.Kind.Wrap(e.Record.Command)})
	}
	source := e.Source.String()
	if e.Favorite {
		source += ", favorite"
	}
	rows = append(rows, row{"Source:", source})

	labelW := 0
	for _, r := range rows {
		if l := utf8.RuneCountInString(r.label); l > labelW {
			labelW = l
		}
	}
	valueW := contentW - labelW - 1
	if valueW < 10 {
		valueW = 10
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(renderTableInline(r.label, r.value, labelW, valueW))
	}
	return b.String()
}

func formatWarnings(ws []commands.Warning, width int) string {
	h := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	var b strings.Builder
	b.WriteString(h.Render("Warnings:") + "\n")
	for _, w := range ws {
		for _, ln := range wrapText(w.Error(), width-2) {
			b.WriteString("  " + ln + "\n")
		}
	}
	return b.String()
}

func formatOutput(name, output string, width int) string {
	h := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5a4"))
	sepLen := width
	if sepLen <= 0 || sepLen > 60 {
		sepLen = 60
	}
	var b strings.Builder
	b.WriteString(h.Render(name) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#0ea5a4")).Render(strings.Repeat("─", sepLen)) + "\n")
	b.WriteString(strings.TrimRight(output, "\n") + "\n")
	return b.String()
}

func (m *TuiModel) View() string {
	headH := 1
	footerH := 1
	bodyH := m.height - headH - footerH - 2
	if bodyH < 3 {
		bodyH = 3
	}

	// colors adjust for high-contrast theme
	var sideBorder, rightBorder, bottomBg, bottomFg string
	sideBorderStyle := lipgloss.NormalBorder()
	rightBorderStyle := lipgloss.NormalBorder()

	if m.themeHighContrast {
		bottomBg, bottomFg = "#000000", "#ffffff"
		if m.focusRight {
			sideBorder = "#444444"
			rightBorder = "#ffffff"
			rightBorderStyle = lipgloss.ThickBorder()
		} else {
			sideBorder = "#ffffff"
			sideBorderStyle = lipgloss.ThickBorder()
			rightBorder = "#444444"
		}
	} else {
		bottomBg, bottomFg = "#0b1226", "#cbd5e1"
		if m.focusRight {
			sideBorder = "#334155"  // dimmed slate
			rightBorder = "#c084fc" // active purple
			rightBorderStyle = lipgloss.ThickBorder()
		} else {
			sideBorder = "#7dd3fc" // active sky
			sideBorderStyle = lipgloss.ThickBorder()
			rightBorder = "#334155"
		}
	}

	title := fmt.Sprintf(" cmdpal — %d commands ", len(m.list.Items()))
	if q := m.uiModel.Query(); q != "" || m.filterMode {
		title = fmt.Sprintf(" cmdpal — %d matching %q ", len(m.list.Items()), q)
	}
	titleBox := m.renderTitleBox(title)

	sidebarStyle := lipgloss.NewStyle().BorderStyle(sideBorderStyle).BorderForeground(lipgloss.Color(sideBorder)).Padding(0).Width(m.list.Width()).Height(bodyH)
	sidebar := sidebarStyle.Render(m.list.View())

	// compute right pane width to align with outer layout (same logic used in WindowSizeMsg)
	rightW := m.width - m.list.Width() - 4
	if rightW < 12 {
		rightW = 12
	}
	rightStyle := lipgloss.NewStyle().BorderStyle(rightBorderStyle).BorderForeground(lipgloss.Color(rightBorder)).Padding(1).Width(rightW).Height(bodyH)
	right := rightStyle.Render(m.vp.View())

	var body string
	if m.width < 80 {
		body = lipgloss.JoinVertical(lipgloss.Left, sidebar, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)
	}

	status := fmt.Sprintf("Items: %d • Sessions: %d", len(m.list.Items()), len(m.uiModel.Sessions()))
	if m.filterMode {
		status += " • FILTER: " + m.uiModel.Query() + "▏"
	}
	if v, ok := m.watchErr.Load().(string); ok && v != "" {
		status += " • not watching: " + v
	}
	if m.status != "" {
		status += " • " + m.status
	}
	bottom := lipgloss.NewStyle().Background(lipgloss.Color(bottomBg)).Foreground(lipgloss.Color(bottomFg)).Padding(0, 1).Width(m.width).Render(" " + status + " ")

	footer := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#94a3b8")).Render(helpText + " • Tab switch pane")

	return lipgloss.JoinVertical(lipgloss.Left, titleBox, body, footer, bottom)
}

// renderTitleBox produces a consistent title bar (with border) matching the
// main page.
func (m *TuiModel) renderTitleBox(text string) string {
	var titleFg, titleBg, titleBorder string
	if m.themeHighContrast {
		titleFg, titleBg = "#000000", "#ffff00"
		titleBorder = "#ffff00"
	} else {
		titleFg, titleBg = "#ffffff", "#0f766e"
		titleBorder = "#0ea5a4"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(titleFg)).Background(lipgloss.Color(titleBg)).Padding(0, 1)
	title := titleStyle.Render(text)
	titleInner := lipgloss.Place(m.width-2, 1, lipgloss.Center, lipgloss.Center, title)
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(titleBorder)).Width(m.width).Render(titleInner)
}
