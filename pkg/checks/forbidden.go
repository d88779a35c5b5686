package checks

import (
	"strings"

	"github.com/foundrylabs/contentguard/pkg/model"
)

// ForbiddenPhrase flags literal, case-insensitive occurrences of a
// configured phrase list. Matching is substring-based with no word-boundary
// requirement: "cat" flags inside "concatenate". This is documented
// behavior, not a bug — a per-phrase word-boundary flag is a future config
// knob, not part of this check's contract.
type ForbiddenPhrase struct {
	phrases []string
}

// NewForbiddenPhrase builds a check over the given phrase list. Phrases are
// lower-cased once at construction so Run never re-normalizes case.
func NewForbiddenPhrase(phrases []string) *ForbiddenPhrase {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &ForbiddenPhrase{phrases: lowered}
}

func (c *ForbiddenPhrase) Name() string { return "forbidden_phrases" }

func (c *ForbiddenPhrase) Run(normalizedText string) model.CheckResult {
	lowerText := strings.ToLower(normalizedText)
	var findings []model.Finding

	for _, phrase := range c.phrases {
		if phrase == "" {
			continue
		}
		start := 0
		for {
			idx := strings.Index(lowerText[start:], phrase)
			if idx < 0 {
				break
			}
			matchStart := start + idx
			matchEnd := matchStart + len(phrase)
			f, err := model.NewFinding(
				c.Name(),
				model.SeverityError,
				"forbidden phrase detected: \""+phrase+"\"",
				&model.Span{Start: matchStart, End: matchEnd},
				map[string]any{"phrase": phrase},
			)
			if err == nil {
				findings = append(findings, f)
			}
			start = matchStart + 1
			if start >= len(lowerText) {
				break
			}
		}
	}

	return model.CheckResult{
		CheckName: c.Name(),
		Passed:    len(findings) == 0,
		Score:     nil,
		Findings:  findings,
	}
}
