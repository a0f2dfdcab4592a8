// Package parsing turns free-form model output into structured payloads.
//
// Extraction runs an ordered list of strategies and keeps the first result that
// decodes as a JSON object. Normalization then flattens the loosely-typed payload
// into uniformly-typed lists for display.
package parsing

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/types"
)

// Strategy locates a structured payload inside raw model text.
// Extract reports false when the strategy found nothing usable.
type Strategy interface {
	Name() string
	Extract(raw string) (json.RawMessage, bool)
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc struct {
	Label string
	Fn    func(raw string) (json.RawMessage, bool)
}

// Name returns the strategy label.
func (s StrategyFunc) Name() string { return s.Label }

// Extract calls the wrapped function.
func (s StrategyFunc) Extract(raw string) (json.RawMessage, bool) { return s.Fn(raw) }

var fencedJSONPattern = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// FencedJSON finds the first ```json fenced block and decodes its interior.
// A block that fails to decode is not retried with later blocks.
func FencedJSON() Strategy {
	return StrategyFunc{Label: "fenced-json", Fn: func(raw string) (json.RawMessage, bool) {
		m := fencedJSONPattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, false
		}
		return asObject(m[1])
	}}
}

// BraceSpan decodes the text between the first '{' and the last '}'.
// Unrelated braces in surrounding prose can defeat it; it is a last resort.
func BraceSpan() Strategy {
	return StrategyFunc{Label: "brace-span", Fn: func(raw string) (json.RawMessage, bool) {
		open := strings.Index(raw, "{")
		closing := strings.LastIndex(raw, "}")
		if open < 0 || closing < 0 || open >= closing {
			return nil, false
		}
		return asObject(raw[open : closing+1])
	}}
}

// FirstSuccess combines strategies so the first one that succeeds wins.
func FirstSuccess(strategies ...Strategy) Strategy {
	return firstSuccess(strategies)
}

type firstSuccess []Strategy

func (f firstSuccess) Name() string {
	names := make([]string, len(f))
	for i, s := range f {
		names[i] = s.Name()
	}
	return strings.Join(names, "|")
}

func (f firstSuccess) Extract(raw string) (json.RawMessage, bool) {
	for _, s := range f {
		if payload, ok := s.Extract(raw); ok {
			logger.Debug().Str("strategy", s.Name()).Msg("extracted structured payload")
			return payload, true
		}
	}
	return nil, false
}

// DefaultStrategies returns the fenced block strategy followed by the brace fallback.
func DefaultStrategies() []Strategy {
	return []Strategy{FencedJSON(), BraceSpan()}
}

// Extractor pulls the structured payload out of raw model text.
type Extractor struct {
	strategy Strategy
}

// NewExtractor returns an Extractor that tries strategies in order.
// With no strategies it uses DefaultStrategies.
func NewExtractor(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Extractor{strategy: FirstSuccess(strategies...)}
}

// Extract returns the first payload any strategy finds. It never panics.
func (e *Extractor) Extract(raw string) (payload json.RawMessage, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().Interface("panic", r).Msg("payload extraction panicked")
			payload, ok = nil, false
		}
	}()
	return e.strategy.Extract(raw)
}

var defaultExtractor = NewExtractor()

// Extract runs the default strategies against raw.
func Extract(raw string) (json.RawMessage, bool) {
	return defaultExtractor.Extract(raw)
}

// ExtractPayload extracts and decodes an analysis payload from raw model text.
// It returns *ParseError, carrying the raw text, when no payload can be found.
func ExtractPayload(raw string) (*types.AnalysisPayload, error) {
	payload, _, err := extractPayload(raw)
	return payload, err
}

func extractPayload(raw string) (*types.AnalysisPayload, json.RawMessage, error) {
	data, ok := Extract(raw)
	if !ok {
		return nil, nil, &ParseError{Message: "no structured payload found in model response", Raw: raw}
	}

	var payload types.AnalysisPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, &ParseError{Message: "failed to decode analysis payload", Raw: raw, Cause: err}
	}
	return &payload, data, nil
}

// ExtractResume extracts résumé data from raw model text, as returned by the
// enhancement prompt. The result is normalized.
func ExtractResume(raw string) (*types.ResumeData, error) {
	data, ok := Extract(raw)
	if !ok {
		return nil, &ParseError{Message: "no structured resume found in model response", Raw: raw}
	}

	var resume types.ResumeData
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, &ParseError{Message: "failed to decode resume data", Raw: raw, Cause: err}
	}
	NormalizeResume(&resume)
	return &resume, nil
}

// asObject trims candidate text and accepts it only if it is a JSON object.
func asObject(candidate string) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace([]byte(candidate))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}
