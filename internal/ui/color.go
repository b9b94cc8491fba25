// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui prints human-readable CLI output.
//
// Colors follow the --no-color flag and NO_COLOR, and fatih/color turns
// them off when stdout is not a terminal.
//
//   - Red: failures
//   - Yellow: warnings
//   - Green: success
//   - Cyan: info and counts
//   - Bold: headers and labels
//   - Dim: paths and secondary details
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors sets the global color switch. Call it once after flag
// parsing.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

// Printer writes decorated lines to W.
type Printer struct {
	W io.Writer
}

// Stdout returns a Printer on os.Stdout.
func Stdout() *Printer {
	return &Printer{W: os.Stdout}
}

// Successf prints "✓ <msg>" in green.
func (p *Printer) Successf(format string, args ...any) {
	_, _ = Green.Fprintf(p.W, "✓ "+format+"\n", args...)
}

// Warningf prints "⚠ <msg>" in yellow.
func (p *Printer) Warningf(format string, args ...any) {
	_, _ = Yellow.Fprintf(p.W, "⚠ "+format+"\n", args...)
}

// Errorf prints "✗ <msg>" in red.
func (p *Printer) Errorf(format string, args ...any) {
	_, _ = Red.Fprintf(p.W, "✗ "+format+"\n", args...)
}

// Infof prints "ℹ <msg>" in cyan.
func (p *Printer) Infof(format string, args ...any) {
	_, _ = Cyan.Fprintf(p.W, "ℹ "+format+"\n", args...)
}

// Header prints text in bold, underlined with '='.
func (p *Printer) Header(text string) {
	_, _ = Bold.Fprintln(p.W, text)
	fmt.Fprintln(p.W, strings.Repeat("=", len([]rune(text))))
}

// Field prints an aligned "label: value" line.
func (p *Printer) Field(label string, value any) {
	fmt.Fprintf(p.W, "  %s %v\n", Label(fmt.Sprintf("%-14s", label+":")), value)
}

// Table prints rows under a header line, aligned in columns.
func (p *Printer) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, Bold.Sprint(strings.Join(header, "\t")))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// Label returns text in bold.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns text dimmed.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText returns count in cyan.
func CountText(count int) string {
	return Cyan.Sprint(count)
}
