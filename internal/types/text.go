// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a string field that tolerates loosely-typed JSON.
// Strings decode as-is, null decodes to "", numbers and booleans decode to their
// literal text, and arrays are joined with ", ". Objects fall back to StableString.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}
	*t = Text(looseString(v))
	return nil
}

// String returns the underlying string.
func (t Text) String() string {
	return string(t)
}

// StringList is a list of strings that tolerates loosely-typed JSON.
// A JSON array keeps one entry per element, a bare scalar becomes a single-entry
// list and null becomes an empty list. Entries are never dropped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	v, err := decodeLoose(data)
	if err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*l = StringList{}
	case []any:
		out := make(StringList, 0, len(x))
		for _, item := range x {
			out = append(out, StableString(item))
		}
		*l = out
	default:
		*l = StringList{looseString(x)}
	}
	return nil
}

// StableString renders an arbitrary decoded JSON value as a single line of text.
// Strings are returned unchanged; every other value is re-encoded as JSON, which
// sorts object keys so the result is the same for equal inputs.
func StableString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// StableJSON re-encodes raw JSON with sorted object keys.
// Input that is not valid JSON is returned verbatim.
func StableJSON(raw json.RawMessage) string {
	v, err := decodeLoose(raw)
	if err != nil {
		return string(raw)
	}
	return StableString(v)
}

// decodeLoose decodes JSON into generic values, keeping numbers as json.Number
// so integers survive without float rounding.
func decodeLoose(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func looseString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := looseString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return StableString(x)
	}
}
