package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Kind selects which part of a result is exported.
type Kind string

const (
	KindImproved Kind = "improved"
	KindSummary  Kind = "summary"
)

// Format is the artifact file format.
type Format string

const (
	FormatText Format = "txt"
	FormatDocx Format = "docx"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Artifact is one downloadable file.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindImproved:
		return KindImproved, nil
	case KindSummary:
		return KindSummary, nil
	}
	return "", fmt.Errorf("unknown export kind %q: %w", s, apperror.ErrInvalidRequest)
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatDocx:
		return FormatDocx, nil
	}
	return "", fmt.Errorf("unknown export format %q: %w", s, apperror.ErrInvalidRequest)
}

// Filename derives the artifact name from the kind, the translation language
// (empty when exporting the original) and the format.
func Filename(kind Kind, translatedLang string, format Format) string {
	base := "improved_text"
	if kind == KindSummary {
		base = "summary"
	}
	if translatedLang != "" {
		base += "_" + languageSuffix(translatedLang)
	}
	return base + "." + string(format)
}

// Export renders the translated content when present, the original otherwise.
func Export(res transcript.Result, kind Kind, format Format) (Artifact, error) {
	content, title := res.ImprovedText, "Improved Text"
	translated := res.TranslatedImprovedText
	if kind == KindSummary {
		content, title = res.Summary, "Summary"
		translated = res.TranslatedSummary
	}

	lang := ""
	if translated != "" {
		content = translated
		lang = res.TranslationLanguage
		if lang == "" {
			lang = "translated"
		}
		title += " (" + languageTitle(lang) + ")"
	}

	name := Filename(kind, lang, format)

	switch format {
	case FormatText:
		return Artifact{Filename: name, ContentType: contentTypeText, Body: []byte(content)}, nil
	case FormatDocx:
		body, err := renderDocx(title, content)
		if err != nil {
			return Artifact{}, fmt.Errorf("render docx: %w", err)
		}
		return Artifact{Filename: name, ContentType: contentTypeDocx, Body: body}, nil
	}
	return Artifact{}, fmt.Errorf("unknown export format %q: %w", format, apperror.ErrInvalidRequest)
}

// WriteTo stores a in dir and returns the written path.
func WriteTo(dir string, a Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Body, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func languageSuffix(lang string) string {
	return strings.ReplaceAll(strings.ToLower(languageTitle(lang)), " ", "_")
}

func languageTitle(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return transcript.LanguageName(tag)
}
