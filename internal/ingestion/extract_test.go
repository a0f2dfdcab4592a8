package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx writes a minimal Word package with one paragraph per line.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() +
			`</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"[Content_Types].xml", "word/document.xml", "word/_rels/document.xml.rels"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		fileName string
		expected string
	}{
		{name: "declared pdf", data: []byte("anything"), declared: "application/pdf", expected: MimePDF},
		{name: "declared with params", data: []byte("hi"), declared: "text/plain; charset=utf-8", expected: MimeText},
		{name: "sniffed pdf", data: []byte("%PDF-1.4\n%%EOF"), declared: "application/octet-stream", expected: MimePDF},
		{name: "sniffed text", data: []byte("Jane Doe\nEngineer"), expected: MimeText},
		{name: "json is text", data: []byte(`{"name": "A"}`), declared: "application/json", expected: MimeText},
		{name: "docx by extension", data: []byte{0x50, 0x4b, 0x03, 0x04}, declared: "application/zip", fileName: "CV.DOCX", expected: MimeDOCX},
		{name: "unsupported keeps declared", data: []byte("\x89PNG\r\n\x1a\n"), declared: "image/png", expected: "image/png"},
		{name: "unsupported sniffed", data: []byte("\x89PNG\r\n\x1a\n"), expected: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectType(tt.data, tt.declared, tt.fileName))
		})
	}
}

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText(context.Background(), []byte("Jane   Doe\r\nGo developer"), "text/plain", "resume.txt")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func TestExtractText_Docx(t *testing.T) {
	data := buildDocx(t, "Jane Doe", "Experience", "Built &amp; shipped APIs")

	text, err := ExtractText(context.Background(), data, MimeDOCX, "resume.docx")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nExperience\nBuilt & shipped APIs", text)
}

func TestExtractText_Errors(t *testing.T) {
	t.Run("unsupported type", func(t *testing.T) {
		_, err := ExtractText(context.Background(), []byte("\x89PNG\r\n\x1a\n"), "image/png", "photo.png")

		var typeErr *UnsupportedTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, "image/png", typeErr.MimeType)
		assert.Contains(t, err.Error(), "photo.png")
	})

	t.Run("broken pdf", func(t *testing.T) {
		_, err := ExtractText(context.Background(), []byte("%PDF-1.4 not really"), MimePDF, "resume.pdf")

		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, "pdf", extractErr.Format)
	})

	t.Run("broken docx", func(t *testing.T) {
		_, err := ExtractText(context.Background(), []byte("not a zip"), MimeDOCX, "resume.docx")

		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, "docx", extractErr.Format)
	})

	t.Run("empty docx", func(t *testing.T) {
		_, err := ExtractText(context.Background(), nil, MimeDOCX, "resume.docx")

		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
	})

	t.Run("invalid utf8 text", func(t *testing.T) {
		_, err := ExtractText(context.Background(), []byte{0xff, 0xfe, 0xfd}, MimeText, "")

		var extractErr *ExtractError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, "text", extractErr.Format)
	})

	t.Run("blank document", func(t *testing.T) {
		_, err := ExtractText(context.Background(), []byte("  \n\t\n"), MimeText, "")

		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ExtractText(ctx, []byte("text"), MimeText, "")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStripDocxXML(t *testing.T) {
	raw := `<w:document xmlns:w="x"><w:body>` +
		`<w:p><w:r><w:t>Skills</w:t><w:tab/><w:t>Go</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	assert.Equal(t, "Skills\tGo\nline one\nline two\n", stripDocxXML(raw))
	assert.Equal(t, "<broken", stripDocxXML("<broken"))
}
