package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis("ATS SCORE", &types.AnalysisResult{
		ATSScore:        types.NewScore(72),
		Summary:         "Strong backend profile",
		ImprovementTips: []string{"Quantify impact"},
		ToAdd:           []string{"Docker", "Kubernetes: orchestration"},
	})
	output := buf.String()

	assert.Contains(t, output, "ATS SCORE")
	assert.Contains(t, output, "ATS score:     72")
	assert.Contains(t, output, "Keyword match: n/a")
	assert.Contains(t, output, "Strong backend profile")
	assert.Contains(t, output, "Skills to add (2):")
	assert.Contains(t, output, "• Kubernetes: orchestration")
	assert.NotContains(t, output, "Project ideas")
}

func TestPrintAnalysis_ZeroScoreIsShown(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis("RESULT", &types.AnalysisResult{ATSScore: types.NewScore(0)})

	assert.Contains(t, buf.String(), "ATS score:     0")
}

func TestPrintAnalysis_TruncatesLongLists(t *testing.T) {
	tips := make([]string, 8)
	for i := range tips {
		tips[i] = fmt.Sprintf("tip %d", i)
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis("RESULT", &types.AnalysisResult{ImprovementTips: tips})
	output := buf.String()

	assert.Contains(t, output, "tip 4")
	assert.NotContains(t, output, "tip 5")
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis("RESULT", nil)

	assert.Empty(t, buf.String())
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume(&types.ResumeData{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Experience: []types.Experience{{Role: "SWE", Company: "Acme", Points: types.StringList{"a", "b"}}},
		Projects:   []types.Project{{Name: "tool"}},
	})
	output := buf.String()

	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "• SWE, Acme (2 points)")
	assert.Contains(t, output, "Projects:       1")
	assert.Contains(t, output, "Education:      0")
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintValidation("resume", nil)
	assert.Contains(t, buf.String(), "SCHEMA RESUME")
	assert.Contains(t, buf.String(), "OK")

	buf.Reset()
	p.PrintValidation("resume", &schemas.ValidationError{Errors: []schemas.FieldError{
		{Field: "experience.0.points", Message: "Invalid type"},
	}})
	assert.Contains(t, buf.String(), "1 violation(s)")
	assert.Contains(t, buf.String(), "experience.0.points: Invalid type")
}

func TestPrintBox_AlignsAndTruncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("é", 200))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
