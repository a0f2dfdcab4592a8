package parsing

import "github.com/jonathan/resume-studio/internal/types"

// Normalize flattens a decoded payload into an AnalysisResult.
// Every list in the result is non-nil and has one entry per input item.
// Scores are copied unchanged; absent scores read as zero.
func Normalize(payload *types.AnalysisPayload, raw string) *types.AnalysisResult {
	if payload == nil {
		payload = &types.AnalysisPayload{}
	}

	return &types.AnalysisResult{
		ATSScore:           payload.ATSScore,
		KeywordMatch:       payload.KeywordMatch,
		Summary:            payload.SummaryRewrite.String(),
		ImprovementTips:    Flatten(payload.ImprovementTips),
		ToAdd:              Flatten(payload.SkillsToAdd),
		MissingKeywords:    Flatten(payload.MissingKeywords),
		Projects:           Flatten(payload.ProjectIdeas),
		Suggestions:        Flatten(payload.Notes),
		BulletReplacements: Flatten(payload.Bullets),
		Raw:                raw,
	}
}

// NormalizeText extracts and normalizes in one step. The returned result keeps
// the extracted payload; on failure the error is a *ParseError.
func NormalizeText(raw string) (*types.AnalysisResult, error) {
	payload, data, err := extractPayload(raw)
	if err != nil {
		return nil, err
	}

	result := Normalize(payload, raw)
	result.Payload = data
	return result, nil
}

// Flatten turns each list item into one display string.
func Flatten(items types.ItemList) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, FlattenItem(item))
	}
	return out
}

// FlattenItem renders a single list item.
func FlattenItem(item types.ListItem) string {
	switch it := item.(type) {
	case types.TextItem:
		return string(it)
	case types.NamedItem:
		return it.Name + ": " + it.Description
	case types.RewriteItem:
		if it.Section == "" {
			return it.Suggested
		}
		return it.Section + ": " + it.Suggested
	case types.RawItem:
		return types.StableJSON(it.JSON)
	default:
		return ""
	}
}

// NormalizeResume fills every missing list in r with an empty one.
func NormalizeResume(r *types.ResumeData) {
	if r == nil {
		return
	}
	r.Normalize()
}
