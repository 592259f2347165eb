package transcript

import "golang.org/x/text/language"

// Result is the output of one successful pipeline run. Values are never
// mutated once built; translation produces a new Result.
type Result struct {
	ImprovedText           string `json:"improved_text"`
	Summary                string `json:"summary"`
	TranslatedImprovedText string `json:"translated_improved_text,omitempty"`
	TranslatedSummary      string `json:"translated_summary,omitempty"`
	TranslationLanguage    string `json:"translation_language,omitempty"`
}

// Translation holds both translated texts; they are always produced together.
type Translation struct {
	ImprovedText string
	Summary      string
	Language     language.Tag
}

// IsTranslated reports whether the translated fields are populated.
func (r Result) IsTranslated() bool {
	return r.TranslatedImprovedText != "" && r.TranslatedSummary != ""
}

// WithTranslation returns a copy of r carrying t.
func (r Result) WithTranslation(t Translation) Result {
	r.TranslatedImprovedText = t.ImprovedText
	r.TranslatedSummary = t.Summary
	r.TranslationLanguage = t.Language.String()
	return r
}
