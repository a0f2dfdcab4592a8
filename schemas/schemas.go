// Package schemas embeds the JSON Schemas for résumé data and model payloads.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Schema file names
const (
	ResumeData      = "resume_data.schema.json"
	AnalysisPayload = "analysis_payload.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Get returns the content of an embedded schema file.
func Get(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not found: %w", name, err)
	}
	return string(data), nil
}

// MustGet is Get that panics on error.
func MustGet(name string) string {
	s, err := Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Names lists the embedded schema files, sorted.
func Names() []string {
	matches, _ := fs.Glob(files, "*.schema.json")
	sort.Strings(matches)
	return matches
}
