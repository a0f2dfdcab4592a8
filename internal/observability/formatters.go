// Package observability renders human-readable summaries for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

const (
	boxWidth       = 64
	maxItemsToShow = 5
)

// Printer writes boxed summaries to out.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // verbose output; write errors are not recoverable
func (p *Printer) printBox(title, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis summarizes a normalized model analysis under title.
func (p *Printer) PrintAnalysis(title string, result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ATS score:     %s\n", formatScore(result.ATSScore))
	fmt.Fprintf(&sb, "Keyword match: %s\n", formatScore(result.KeywordMatch))
	if result.Summary != "" {
		fmt.Fprintf(&sb, "\nSummary:\n  %s\n", result.Summary)
	}

	writeList(&sb, "Improvement tips", result.ImprovementTips)
	writeList(&sb, "Skills to add", result.ToAdd)
	writeList(&sb, "Missing keywords", result.MissingKeywords)
	writeList(&sb, "Project ideas", result.Projects)
	writeList(&sb, "Suggestions", result.Suggestions)
	writeList(&sb, "Bullet rewrites", result.BulletReplacements)

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume summarizes the sections of a structured résumé.
func (p *Printer) PrintResume(data *types.ResumeData) {
	if data == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:  %s\n", data.Name)
	if data.Email != "" {
		fmt.Fprintf(&sb, "Email: %s\n", data.Email)
	}
	fmt.Fprintf(&sb, "\nExperience:     %d\n", len(data.Experience))
	for i, exp := range data.Experience {
		if i == maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(data.Experience)-maxItemsToShow)
			break
		}
		fmt.Fprintf(&sb, "  • %s, %s (%d points)\n", exp.Role, exp.Company, len(exp.Points))
	}
	fmt.Fprintf(&sb, "Projects:       %d\n", len(data.Projects))
	fmt.Fprintf(&sb, "Certifications: %d\n", len(data.Certifications))
	fmt.Fprintf(&sb, "Education:      %d", len(data.Education))

	p.printBox("RESUME", sb.String())
}

// PrintValidation reports schema violations, or a single OK line.
func (p *Printer) PrintValidation(name string, err *schemas.ValidationError) {
	if err == nil || len(err.Errors) == 0 {
		p.printBox("SCHEMA "+strings.ToUpper(name), "OK")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d violation(s):\n", len(err.Errors))
	for _, fe := range err.Errors {
		fmt.Fprintf(&sb, "  • %s: %s\n", fe.Field, fe.Message)
	}
	p.printBox("SCHEMA "+strings.ToUpper(name), strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s (%d):\n", label, len(items))
	for i, item := range items {
		if i == maxItemsToShow {
			fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
			break
		}
		fmt.Fprintf(sb, "  • %s\n", item)
	}
}

func formatScore(s types.Score) string {
	if !s.Present {
		return "n/a"
	}
	return fmt.Sprintf("%g", s.Value)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
