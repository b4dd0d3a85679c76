package errz

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders structured errors for terminals:
//
//	stack underflow: add needs 2 stack value(s), found 1
//	  --> prog.pgm:2
//	   |
//	 2 | add
//	   |
//	   = note: at pc 2
type Formatter struct {
	// UseColor enables ANSI colors. Colors are also suppressed when
	// color.NoColor is set.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorHeader   = color.New(color.FgHiRed, color.Bold)
	colorPrefix   = color.New(color.FgHiBlack)
	colorLocation = color.New(color.FgCyan)
	colorGutter   = color.New(color.FgHiBlack)
	colorHint     = color.New(color.FgHiYellow)
	colorNote     = color.New(color.FgHiBlue)
)

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format renders a single error.
func (f *Formatter) Format(err *StructuredError) string {
	return f.format(err, "")
}

// FormatMultiple renders errors one after another, numbering them when there
// is more than one.
func (f *Formatter) FormatMultiple(errs []*StructuredError) string {
	if len(errs) == 1 {
		return f.Format(errs[0])
	}
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.format(err, fmt.Sprintf("%d/%d", i+1, len(errs))))
	}
	return b.String()
}

func (f *Formatter) format(err *StructuredError, prefix string) string {
	var b strings.Builder
	width := len(fmt.Sprint(err.Location.Line))
	pad := strings.Repeat(" ", width)

	b.WriteString(f.paint(colorHeader, err.Kind.String()))
	if prefix != "" {
		b.WriteString(f.paint(colorPrefix, "["+prefix+"]"))
	}
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	if !err.Location.IsZero() {
		b.WriteString(pad)
		b.WriteString(f.paint(colorLocation, "--> "+err.Location.String()))
		b.WriteString("\n")
	}
	if err.Location.Source != "" {
		gutter := f.paint(colorGutter, pad+" |")
		b.WriteString(gutter + "\n")
		b.WriteString(f.paint(colorGutter, fmt.Sprintf("%*d |", width, err.Location.Line)))
		b.WriteString(" ")
		b.WriteString(err.Location.Source)
		b.WriteString("\n")
		b.WriteString(gutter + "\n")
	}
	if err.Hint != "" {
		b.WriteString(f.paint(colorGutter, pad+" = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.PC > 0 {
		b.WriteString(f.paint(colorGutter, pad+" = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(fmt.Sprintf("at pc %d", err.PC))
		b.WriteString("\n")
	}
	return b.String()
}
