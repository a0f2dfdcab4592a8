package types

import (
	"encoding/json"
	"strconv"
)

// Score is an optional number that defaults to zero.
// Present distinguishes a score the model actually returned (including 0) from a
// missing or non-numeric one; both read as zero through Value.
type Score struct {
	Value   float64
	Present bool
}

// NewScore returns a present score.
func NewScore(v float64) Score {
	return Score{Value: v, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler. Only JSON numbers are accepted;
// anything else leaves the score absent.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}

	v, err := decodeLoose(data)
	if err != nil {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	*s = NewScore(f)
	return nil
}

// MarshalJSON writes the score as a plain number.
func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(s.Value, 'f', -1, 64)), nil
}

// ListItem is one entry of a suggestion list in a model payload.
// The concrete type is one of TextItem, NamedItem, RewriteItem or RawItem.
type ListItem interface {
	listItem()
}

// TextItem is a plain string entry.
type TextItem string

// NamedItem is a {name, description} record.
type NamedItem struct {
	Name        string
	Description string
}

// RewriteItem is a bullet rewrite record {section, original, suggested}.
type RewriteItem struct {
	Section   string
	Original  string
	Suggested string
}

// RawItem is any entry with an unrecognised shape, kept as raw JSON.
type RawItem struct {
	JSON json.RawMessage
}

func (TextItem) listItem()    {}
func (NamedItem) listItem()   {}
func (RewriteItem) listItem() {}
func (RawItem) listItem()     {}

// ItemList decodes a JSON array into one ListItem per element.
// null decodes to an empty list and a bare non-array value to a single item.
type ItemList []ListItem

// UnmarshalJSON implements json.Unmarshaler.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		// Not an array: keep the whole value as one entry.
		*l = ItemList{decodeListItem(data)}
		return nil
	}

	out := make(ItemList, 0, len(elems))
	for _, elem := range elems {
		out = append(out, decodeListItem(elem))
	}
	*l = out
	return nil
}

func decodeListItem(raw json.RawMessage) ListItem {
	v, err := decodeLoose(raw)
	if err != nil {
		return RawItem{JSON: raw}
	}

	switch x := v.(type) {
	case string:
		return TextItem(x)
	case map[string]any:
		if truthy(x["name"]) {
			return NamedItem{Name: looseString(x["name"]), Description: truthyString(x["description"])}
		}
		if truthy(x["suggested"]) {
			return RewriteItem{
				Section:   looseString(x["section"]),
				Original:  looseString(x["original"]),
				Suggested: looseString(x["suggested"]),
			}
		}
	}
	return RawItem{JSON: append(json.RawMessage(nil), raw...)}
}

// truthy reports whether v counts as set: not null, false, zero or "".
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func truthyString(v any) string {
	if !truthy(v) {
		return ""
	}
	return looseString(v)
}

// AnalysisPayload is the structured block a model embeds in its answer.
// Every field is optional.
type AnalysisPayload struct {
	ATSScore        Score    `json:"atsScore"`
	KeywordMatch    Score    `json:"keywordMatch"`
	SummaryRewrite  Text     `json:"summaryRewrite"`
	ImprovementTips ItemList `json:"improvementTips"`
	SkillsToAdd     ItemList `json:"skillsToAdd"`
	MissingKeywords ItemList `json:"missingKeywords"`
	ProjectIdeas    ItemList `json:"projectideas"`
	Notes           ItemList `json:"notes"`
	Bullets         ItemList `json:"bullets"`
}

// AnalysisResult is the uniformly-typed feedback returned to callers.
// List fields are never nil. Raw keeps the model's full answer for inspection.
type AnalysisResult struct {
	ATSScore           Score           `json:"atsScore"`
	KeywordMatch       Score           `json:"keywordMatch"`
	Summary            string          `json:"summary"`
	ImprovementTips    []string        `json:"improvementTips"`
	ToAdd              []string        `json:"toAdd"`
	MissingKeywords    []string        `json:"missingKeywords"`
	Projects           []string        `json:"projects"`
	Suggestions        []string        `json:"Suggestions"`
	BulletReplacements []string        `json:"bulletReplacements"`
	Raw                string          `json:"raw"`
	Payload            json.RawMessage `json:"json,omitempty"`
}
