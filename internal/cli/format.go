package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/yigit/unireg/internal/pkg/apperrors"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// printer writes formatted output; fatih/color drops the escapes when w is not a TTY
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

// Section prints a section header
func (p *printer) Section(title string) {
	fmt.Fprintln(p.w)
	_, _ = headerColor.Fprintf(p.w, "▸ %s\n", title)
	fmt.Fprintln(p.w)
}

// Success prints a success message with a checkmark
func (p *printer) Success(msg string) {
	_, _ = successColor.Fprintf(p.w, "✓ %s\n", msg)
}

// Warning prints a warning message
func (p *printer) Warning(msg string) {
	_, _ = warningColor.Fprintf(p.w, "⚠ %s\n", msg)
}

// Error prints an error message
func (p *printer) Error(msg string) {
	_, _ = errorColor.Fprintf(p.w, "✗ %s\n", msg)
}

// Info prints an informational message
func (p *printer) Info(msg string) {
	_, _ = infoColor.Fprintln(p.w, msg)
}

// LabelValue prints a label-value pair
func (p *printer) LabelValue(label, value string) {
	_, _ = labelColor.Fprintf(p.w, "  %s: ", label)
	_, _ = valueColor.Fprintln(p.w, value)
}

// EmptyState prints a message when there's no data to show
func (p *printer) EmptyState(msg string) {
	_, _ = dimColor.Fprintf(p.w, "  %s\n", msg)
}

// Table prints rows aligned under headers
func (p *printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && displayWidth(cell) > widths[i] {
				widths[i] = displayWidth(cell)
			}
		}
	}

	fmt.Fprint(p.w, "  ")
	for i, header := range headers {
		if i > 0 {
			fmt.Fprint(p.w, "  ")
		}
		_, _ = headerColor.Fprint(p.w, pad(header, widths[i]))
	}
	fmt.Fprintln(p.w)

	fmt.Fprint(p.w, "  ")
	for i, width := range widths {
		if i > 0 {
			fmt.Fprint(p.w, "  ")
		}
		fmt.Fprint(p.w, strings.Repeat("-", width))
	}
	fmt.Fprintln(p.w)

	for _, row := range rows {
		fmt.Fprint(p.w, "  ")
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				fmt.Fprint(p.w, "  ")
			}
			fmt.Fprint(p.w, pad(cell, widths[i]))
		}
		fmt.Fprintln(p.w)
	}
}

// JSON writes v indented
func (p *printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// displayWidth counts runes so Persian text lines up
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func pad(s string, width int) string {
	if n := displayWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// describeError is the one-line form of err shown to the user
func describeError(err error) string {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return "Validation failed: " + verr.Error()
	}
	var conflict *apperrors.TimeConflictError
	if errors.As(err, &conflict) {
		return conflict.Error()
	}
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return err.Error()
}

// errorHint suggests the command that gets the user unstuck
func errorHint(err error) string {
	var conflict *apperrors.TimeConflictError
	switch {
	case errors.As(err, &conflict):
		return fmt.Sprintf("Run `registrar cart resolve %d %d` to replace %s with %s.",
			conflict.Existing.ID, conflict.Incoming.ID, conflict.Existing.Name, conflict.Incoming.Name)
	case errors.Is(err, apperrors.ErrNotLoggedIn):
		return "Run `registrar login <student-number>` first."
	case errors.Is(err, apperrors.ErrPaymentFailed):
		return "Run `registrar checkout pay` to try again."
	case errors.Is(err, apperrors.ErrFinalizationFailed):
		return "Run `registrar checkout finalize` to try again."
	case errors.Is(err, apperrors.ErrValidationFailed):
		return "Adjust the cart, then run `registrar checkout validate` again."
	}
	return ""
}

// countLabel pluralizes a count
func countLabel(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
