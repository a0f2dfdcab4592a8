package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-studio/internal/types"
)

// Templates use << and >> so LaTeX braces never collide with actions.
const (
	leftDelim  = "<<"
	rightDelim = ">>"
)

//go:embed templates/resume.tex.tmpl
var defaultTemplateText string

var defaultTemplate = template.Must(newTemplate("resume").Parse(defaultTemplateText))

// newTemplate returns an empty template with the rendering delimiters and the
// escape function registered.
func newTemplate(name string) *template.Template {
	return template.New(name).
		Delims(leftDelim, rightDelim).
		Funcs(template.FuncMap{"escape": escapeValue})
}

// RenderResume renders a complete LaTeX document from résumé data using the
// built-in template. Every user-supplied text field is escaped once; link
// fields are inserted verbatim. The input is not modified.
func RenderResume(data *types.ResumeData) (string, error) {
	return render(defaultTemplate, data)
}

// RenderResumeWithTemplate renders résumé data with the template stored at templatePath.
// Custom templates receive *types.ResumeData and must use << >> delimiters.
func RenderResumeWithTemplate(data *types.ResumeData, templatePath string) (string, error) {
	tmpl, err := LoadTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return render(tmpl, data)
}

// LoadTemplate reads and parses a LaTeX template file
func LoadTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	tmpl, err := newTemplate("resume").Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}

func render(tmpl *template.Template, data *types.ResumeData) (string, error) {
	if data == nil {
		return "", &RenderError{Message: "resume data is nil"}
	}

	view := data.Clone()
	view.Normalize()

	var result strings.Builder
	if err := tmpl.Execute(&result, view); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return result.String(), nil
}

// escapeValue is the template's escape function. Templates hand it types.Text
// fields and plain strings from point lists.
func escapeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return EscapeLaTeX(x)
	case types.Text:
		return EscapeLaTeX(string(x))
	case fmt.Stringer:
		return EscapeLaTeX(x.String())
	default:
		return EscapeLaTeX(fmt.Sprint(x))
	}
}
