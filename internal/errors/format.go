package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
	ansiBold   = "\033[1m"
)

// Colors controls whether Format emits ANSI escape sequences.
var Colors = true

func paint(code, text string) string {
	if !Colors {
		return text
	}
	return code + text + ansiReset
}

// Format renders the error for terminal display.
func (e *ReactorError) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	label := "ERROR"
	if e.Category == CategoryEffect {
		// Effect failures are contained; the runtime keeps going.
		label = "WARN"
	}
	if e.Code != "" {
		b.WriteString(paint(ansiRed+ansiBold, label+" "+e.Code+": "))
	} else {
		b.WriteString(paint(ansiRed+ansiBold, label+": "))
	}
	b.WriteString(paint(ansiBold, e.Message))
	b.WriteString("\n\n")

	if e.Component != "" {
		b.WriteString("  ")
		b.WriteString(paint(ansiCyan, "in <"+e.Component+">"))
		b.WriteString("\n\n")
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 72) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(paint(ansiYellow, "Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(paint(ansiCyan, "Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	if e.DocURL != "" {
		b.WriteString("  ")
		b.WriteString(paint(ansiGray, "Learn more: "))
		b.WriteString(paint(ansiBlue, e.DocURL))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact returns a single-line form suitable for log lines.
func (e *ReactorError) FormatCompact() string {
	var b strings.Builder
	if e.Component != "" {
		b.WriteString(e.Component)
		b.WriteString(": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Component  string   `json:"component,omitempty"`
	Cause      string   `json:"cause,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	DocURL     string   `json:"docUrl,omitempty"`
}

// MarshalJSON encodes the error as a flat JSON object.
func (e *ReactorError) MarshalJSON() ([]byte, error) {
	j := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Component:  e.Component,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		j.Cause = e.Wrapped.Error()
	}
	return json.Marshal(j)
}

// FormatJSON returns the error as a JSON object string.
func (e *ReactorError) FormatJSON() string {
	data, err := e.MarshalJSON()
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Print writes err to w, using Format for a *ReactorError.
func Print(w io.Writer, err error) {
	var re *ReactorError
	if As(err, &re) {
		fmt.Fprint(w, re.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(ansiRed+ansiBold, "ERROR:"), err.Error())
}
