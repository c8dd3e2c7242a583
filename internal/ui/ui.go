// Package ui provides stderr-based UI output for selang.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/selang/internal/output"
)

// Printer writes human-facing messages. Diagnostics go through the logger;
// Printer is for results the user asked for.
type Printer struct {
	w io.Writer

	bold    lipgloss.Style
	dim     lipgloss.Style
	green   lipgloss.Style
	yellow  lipgloss.Style
	red     lipgloss.Style
	cyan    lipgloss.Style
	magenta lipgloss.Style
}

// NewWriter returns a Printer on w. Colors are dropped when color is false
// or w is not a terminal.
func NewWriter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	style := func(c string) lipgloss.Style {
		s := r.NewStyle()
		if color {
			s = s.Foreground(lipgloss.Color(c))
		}
		return s
	}
	return &Printer{
		w:       w,
		bold:    r.NewStyle().Bold(true),
		dim:     r.NewStyle().Faint(color),
		green:   style("2").Bold(true),
		yellow:  style("3").Bold(true),
		red:     style("1").Bold(true),
		cyan:    style("6"),
		magenta: style("5").Bold(true),
	}
}

// Compiled reports a system written to disk.
func (p *Printer) Compiled(system string, orbits int, res output.Result) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.green.Render("✓ compiled"),
		p.bold.Render(system),
		p.dim.Render(fmt.Sprintf("(%d orbit(s), %s)", orbits, humanize.Bytes(uint64(res.Bytes)))))
	fmt.Fprintf(p.w, "  %s %s\n", p.cyan.Render("stars  "), res.StarPath)
	fmt.Fprintf(p.w, "  %s %s\n", p.cyan.Render("planets"), res.PlanetPath)
}

// Summary reports the outcome of compiling one input file.
func (p *Printer) Summary(path string, systems int) {
	fmt.Fprintf(p.w, "%s %s\n", p.magenta.Render(fmt.Sprintf("── %d system(s)", systems)), p.dim.Render(path))
}

// Watching reports that path is watched for changes.
func (p *Printer) Watching(path string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.cyan.Render("◆ watching"), path, p.dim.Render("(ctrl-c to stop)"))
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.red.Render("error: "), msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.yellow.Render("⚠"), msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.w, "%s\n", p.dim.Render(msg))
}
