// Package rendering turns structured résumé data into LaTeX source.
package rendering

import "strings"

// latexEscaper rewrites every LaTeX control character in one left-to-right pass.
// Replacement text is never scanned again, so the backslash rule cannot mangle
// the sequences produced for the other characters.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes special LaTeX characters in text: \ & % $ # _ { } ^ ~
// Everything else, including non-ASCII text, is copied unchanged.
// It is not idempotent; call it exactly once on raw text.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexEscaper.Replace(text)
}
