package transcript

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const improvePrompt = `Improve the following text. Fix the grammar and punctuation and rebuild the sentences so that it reads smoothly and coherently, preserving the original meaning. Return only the corrected text without adding introductions or comments.

---

%s`

const summaryPrompt = `Write a very short and concise summary of the following text in %s, highlighting only the main key points:

---

%s`

const translatePrompt = `Translate the following text into %s. If the text is already in %s, return it unchanged. Return only the translated or original text without adding introductions or comments.

---

%s`

// LanguageName returns the English name of tag, e.g. "Italian".
func LanguageName(tag language.Tag) string {
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

func buildImprovePrompt(text string) string {
	return fmt.Sprintf(improvePrompt, text)
}

func buildSummaryPrompt(lang language.Tag, improvedText string) string {
	return fmt.Sprintf(summaryPrompt, LanguageName(lang), improvedText)
}

func buildTranslatePrompt(lang language.Tag, text string) string {
	name := LanguageName(lang)
	return fmt.Sprintf(translatePrompt, name, name, text)
}
