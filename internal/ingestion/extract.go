// Package ingestion turns uploaded résumé files into clean plain text.
package ingestion

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/resume-studio/internal/logger"
)

// Supported MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var extensionTypes = map[string]string{
	".pdf":  MimePDF,
	".docx": MimeDOCX,
	".txt":  MimeText,
	".md":   MimeText,
	".text": MimeText,
}

// ExtractText reads the text of a PDF, DOCX or plain-text file held in memory.
// mimeType is the type the client declared and may be empty; the content and
// the file extension are consulted when it is missing or generic.
func ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	kind := DetectType(data, mimeType, fileName)
	logger.Debug().
		Str("declared", mimeType).
		Str("detected", kind).
		Str("file", fileName).
		Int("bytes", len(data)).
		Msg("extracting document text")

	var (
		text string
		err  error
	)
	switch kind {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimeText:
		text, err = extractPlain(data)
	default:
		return "", &UnsupportedTypeError{MimeType: kind, FileName: fileName}
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// DetectType resolves the format of an upload to one of the supported MIME
// types. The declared type wins when it is supported, then content sniffing,
// then the file extension. Unsupported inputs return the best known type.
func DetectType(data []byte, declared, fileName string) string {
	clean := normalizeMime(declared)
	if isSupported(clean) {
		return clean
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if kind := normalizeMime(m.String()); isSupported(kind) {
			return kind
		}
	}

	if kind, ok := extensionTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return kind
	}

	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	return normalizeMime(detected.String())
}

func normalizeMime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(value, ";")[0]))
	}
	return mediaType
}

func isSupported(kind string) bool {
	return kind == MimePDF || kind == MimeDOCX || kind == MimeText
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Format: "pdf", Cause: err}
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn().Err(err).Int("page", i).Msg("skipping unreadable pdf page")
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractError{Format: "docx", Cause: errors.New("empty file")}
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Format: "docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps character data and turns paragraph and line-break
// elements into newlines.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var b strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteString("\t")
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && b.Len() > 0 {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &ExtractError{Format: "text", Cause: errors.New("content is not valid UTF-8")}
	}
	return string(data), nil
}
