// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/taibuivan/trackbook/internal/core/plan"
	"github.com/taibuivan/trackbook/internal/core/report"
)

// Printer writes human output to the terminal.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter creates a [Printer]. Colors are dropped when NO_COLOR is set or
// the terminal is dumb.
func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	if _, ok := os.LookupEnv("NO_COLOR"); ok || os.Getenv("TERM") == "dumb" {
		useColors = false
	}
	return &Printer{out: out, err: err, useColors: useColors}
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning prints to the error stream.
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error prints a failure to the error stream.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Print prints a plain line.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints an underlined section title.
func (p *Printer) Header(title string) {
	underline := strings.Repeat("─", len([]rune(title)))
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", underline)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

// JSON writes value indented.
func (p *Printer) JSON(value any) error {
	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// Table renders rows under headers without borders.
func (p *Printer) Table(headers []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// # Badges

// Band colours a percentage the way the plans page does.
func (p *Printer) Band(percent int) string {
	text := fmt.Sprintf("%d%%", percent)
	if !p.useColors {
		return text
	}

	switch plan.ProgressBand(percent) {
	case plan.BandPrimary:
		return color.GreenString(text)
	case plan.BandAccent:
		return color.CyanString(text)
	default:
		return color.YellowString(text)
	}
}

// Status colours a day status.
func (p *Printer) Status(status plan.Status) string {
	label := status.Label()
	if !p.useColors {
		return label
	}

	switch status {
	case plan.StatusCompleted:
		return color.GreenString(label)
	case plan.StatusOverdue:
		return color.RedString(label)
	case plan.StatusInProgress:
		return color.CyanString(label)
	default:
		return color.New(color.Faint).Sprint(label)
	}
}

// Trend renders the compliance trend as an arrow.
func (p *Printer) Trend(trend report.Trend) string {
	switch trend {
	case report.TrendPositive:
		return p.paint(color.FgGreen, "↑ improving")
	case report.TrendNegative:
		return p.paint(color.FgRed, "↓ slipping")
	default:
		return p.paint(color.FgWhite, "→ steady")
	}
}

// Check marks a read assignment.
func (p *Printer) Check(read bool) string {
	if !read {
		return " "
	}
	return p.paint(color.FgGreen, "✓")
}

func (p *Printer) paint(attribute color.Attribute, text string) string {
	if !p.useColors {
		return text
	}
	return color.New(attribute).Sprint(text)
}
