// Package cli provides the command-line interface for the risk engine.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"risk-engine/internal/config"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	pretty       bool
	colorEnabled bool
}

// NewOutput creates an Output from the command flags and the configured
// default format.
func NewOutput(cmd *cobra.Command, cfg *config.Config) *Output {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}
	jsonMode := format == "json"
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		pretty:       cfg.Output.Pretty,
		colorEnabled: !jsonMode && isTerminal(),
	}
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	if o.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.colored(ColorGreen, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.colored(ColorRed, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.colored(ColorYellow, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.colored(ColorDim, format, args...)
}

// Header prints a bold section header with an underline.
func (o *Output) Header(title string) {
	o.colored(ColorBold, "%s", title)
	o.Println(strings.Repeat("-", len(title)))
}

// Row prints an aligned label/value pair.
func (o *Output) Row(label string, format string, args ...interface{}) {
	o.Printf("  %-32s %s\n", label+":", fmt.Sprintf(format, args...))
}

// Table prints a simple padded table.
func (o *Output) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&b, "%-*s  ", widths[i], h)
	}
	o.colored(ColorBold, "  %s", strings.TrimRight(b.String(), " "))

	b.Reset()
	for i := range headers {
		fmt.Fprintf(&b, "%s  ", strings.Repeat("-", widths[i]))
	}
	o.Printf("  %s\n", strings.TrimRight(b.String(), " "))

	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
		}
		o.Printf("  %s\n", strings.TrimRight(b.String(), " "))
	}
}

// colored prints a colored message.
func (o *Output) colored(color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s%s%s\n", color, msg, ColorReset)
	} else {
		fmt.Fprintln(o.writer, msg)
	}
}

// money formats a monetary amount with two decimals.
func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// percent formats a percentage with two decimals.
func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
