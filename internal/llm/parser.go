package llm

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Fence patterns. Only a fence at the very start of the trimmed text is
// considered; text with prose before the fence is returned unchanged.
// Using \x60 for backticks to keep the patterns readable in diffs.
var (
	openingFence = regexp.MustCompile(`^\x60{3}[A-Za-z0-9_+-]*\n`)
	closingFence = "\n\x60\x60\x60"
)

// CleanResponse trims the raw LLM text and strips a surrounding markdown code
// fence when the text starts with one. The opening fence may carry a language
// tag. Malformed or partial fences are left as they are.
func CleanResponse(rawResponse string) string {
	cleaned := strings.TrimSpace(rawResponse)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	if loc := openingFence.FindStringIndex(cleaned); loc != nil {
		cleaned = cleaned[loc[1]:]
	}
	cleaned = strings.TrimSuffix(cleaned, closingFence)

	log.Debug().Int("raw_len", len(rawResponse)).Int("clean_len", len(cleaned)).Msg("Stripped code fence from LLM response")
	return cleaned
}
