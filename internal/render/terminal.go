// Package render draws check results and history on a terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/truthcheck/internal/extract"
	"github.com/ppiankov/truthcheck/internal/model"
)

// Terminal renders into a writer, styled when the writer is a color terminal.
// It is safe for concurrent use.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer

	headerStyle  lipgloss.Style
	resultStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	promptStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
	claimStyle   lipgloss.Style
	linkStyle    lipgloss.Style
	progressText lipgloss.Style
}

// NewTerminal creates a terminal view writing to w
func NewTerminal(w io.Writer) *Terminal {
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		out: w,

		headerStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")),

		resultStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),

		errorStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),

		promptStyle: r.NewStyle().
			Foreground(lipgloss.Color("214")),

		mutedStyle: r.NewStyle().
			Foreground(lipgloss.Color("243")),

		claimStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),

		linkStyle: r.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true),

		progressText: r.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// Prompt asks the user for missing input
func (t *Terminal) Prompt(message string) {
	t.println(t.promptStyle.Render(message))
}

// ShowClaimProgress marks a claim check as in flight
func (t *Terminal) ShowClaimProgress(claim string) {
	t.println(t.progressText.Render("Checking..."))
}

// ShowClaimResult prints the verdict followed by its reference links
func (t *Terminal) ShowClaimResult(result *model.AggregatedResult) {
	var b strings.Builder
	b.WriteString(t.resultStyle.Render("Result: " + result.AnalysisText))
	b.WriteString("\n")
	b.WriteString(t.references(result.ReferencesMarkup))
	t.print(b.String())
}

// ShowClaimError prints a claim failure message
func (t *Terminal) ShowClaimError(message string) {
	t.println(t.errorStyle.Render(message))
}

// ShowImageProgress marks an image analysis as in flight
func (t *Terminal) ShowImageProgress(name string) {
	t.println(t.progressText.Render("Analyzing..."))
}

// ShowImageResult prints the image verdict and, when reported, its confidence
func (t *Terminal) ShowImageResult(result *model.ImageAnalysis) {
	var b strings.Builder
	b.WriteString(t.resultStyle.Render("Result: " + result.Result))
	b.WriteString("\n")
	if result.Confidence != nil {
		b.WriteString("Confidence: " + FormatConfidence(*result.Confidence) + "\n")
	}
	t.print(b.String())
}

// ShowImageError prints an image failure message as given
func (t *Terminal) ShowImageError(message string) {
	t.println(t.errorStyle.Render(message))
}

// ShowEmptyHistory prints the empty-history placeholder
func (t *Terminal) ShowEmptyHistory(message string) {
	t.println(t.mutedStyle.Render(message))
}

// ShowHistory prints every entry in the order given
func (t *Terminal) ShowHistory(entries []model.HistoryEntry) {
	var b strings.Builder
	b.WriteString(t.headerStyle.Render(fmt.Sprintf("History (%d)", len(entries))))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(t.claimStyle.Render(e.Claim))
		b.WriteString("\n")
		b.WriteString("Result: " + e.Analysis + "\n")
		b.WriteString(t.references(e.References))
		b.WriteString(t.mutedStyle.Render(e.Timestamp))
		b.WriteString("\n")
	}
	t.print(b.String())
}

// references lists the links of a references fragment, one per line
func (t *Terminal) references(markup string) string {
	refs, err := extract.Links(markup, "")
	if err != nil || len(refs) == 0 {
		text, _ := extract.Text(markup)
		if text == "" {
			return ""
		}
		return text + "\n"
	}

	var b strings.Builder
	b.WriteString(t.headerStyle.Render("Related Sources:"))
	b.WriteString("\n")
	for _, ref := range refs {
		b.WriteString("  " + ref.Label + "\n")
		b.WriteString("    " + t.linkStyle.Render(ref.URL) + "\n")
	}
	return b.String()
}

func (t *Terminal) println(s string) {
	t.print(s + "\n")
}

func (t *Terminal) print(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, s)
}

// FormatConfidence renders a 0-100 confidence as a percentage with at most one decimal
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(math.Round(c*10)/10, 'f', -1, 64) + "%"
}
