package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/audlab/audparity/internal/parity"
)

// Color palette for verdict rendering on stderr.
const (
	colorGreen  = "42"
	colorYellow = "220"
	colorRed    = "196"
	colorGray   = "245"
)

// Printer renders verdicts and diagnostics for humans. Styling is enabled
// only when the destination is a terminal.
type Printer struct {
	out    io.Writer
	pass   lipgloss.Style
	note   lipgloss.Style
	fail   lipgloss.Style
	dim    lipgloss.Style
	styled bool
}

// NewPrinter creates a Printer for w. Styling is switched on when w is a
// terminal-backed *os.File.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{
		out:  w,
		pass: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGreen)),
		note: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorYellow)),
		fail: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorRed)),
		dim:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
	if f, ok := w.(*os.File); ok {
		p.styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

// Diag prints one diagnostic line.
func (p *Printer) Diag(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Verdict renders the comparison outcome: status line, then mismatches,
// then notes.
func (p *Printer) Verdict(v parity.Verdict) {
	_, _ = fmt.Fprintf(p.out, "verdict: %s\n", p.status(v.Status))
	for _, m := range v.Mismatches {
		_, _ = fmt.Fprintf(p.out, "  mismatch %s\n", m)
	}
	for _, n := range v.Notes {
		_, _ = fmt.Fprintf(p.out, "  %s\n", p.render(p.dim, "note: "+n))
	}
}

func (p *Printer) status(s parity.Status) string {
	switch s {
	case parity.Pass:
		return p.render(p.pass, s.String())
	case parity.PassWithNote:
		return p.render(p.note, s.String())
	default:
		return p.render(p.fail, s.String())
	}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}
