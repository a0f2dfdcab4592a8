package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/llm"
)

// isolateEnv clears the variables config.Load reads so a developer's .env
// cannot leak into the tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "GEMINI_API_KEY", "RESUME_TEMPLATE", "MODEL_TIER",
		"LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGIN", "FETCH_TIMEOUT", "MAX_UPLOAD_MB",
		"RATE_LIMIT_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

// executeCommand runs the CLI in-process and returns what it wrote to stdout.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type fakeClient struct {
	answers map[string]string
	prompts []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	for marker, answer := range f.answers {
		if strings.Contains(prompt, marker) {
			return answer, nil
		}
	}
	return "nothing useful", nil
}

func (f *fakeClient) Close() error { return nil }

// useFakeClient swaps the model constructor for the duration of the test.
func useFakeClient(t *testing.T, client *fakeClient) {
	t.Helper()
	orig := newModelClient
	newModelClient = func(context.Context, string) (llm.Client, error) {
		return client, nil
	}
	t.Cleanup(func() { newModelClient = orig })
}
