package normalizer

import (
	"regexp"
	"strings"
)

// reTimestamp matches "[HH:MM:SS]" or a bare "M:SS"/"MM:SS", plus one trailing
// whitespace character.
var reTimestamp = regexp.MustCompile(`(\[\d{2}:\d{2}:\d{2}\]|\d{1,2}:\d{2})\s?`)

// Normalizer cleans raw transcript text before it is sent to the model.
type Normalizer struct {
	stripTimestamps bool
}

func New(stripTimestamps bool) Normalizer {
	return Normalizer{stripTimestamps: stripTimestamps}
}

// Normalize trims surrounding whitespace and, when enabled, removes timestamps.
func (n Normalizer) Normalize(raw string) string {
	if n.stripTimestamps {
		return StripTimestamps(raw)
	}
	return strings.TrimSpace(raw)
}

// StripTimestamps removes every timestamp token and trims the result.
func StripTimestamps(s string) string {
	return strings.TrimSpace(reTimestamp.ReplaceAllString(s, ""))
}
