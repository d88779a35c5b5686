package checks

import (
	"regexp"
	"strings"

	"github.com/foundrylabs/contentguard/pkg/model"
)

// offToneTables are the fixed per-tone "off-brand" token lists. Single
// tokens are matched with word-boundary anchors; multi-word tokens ("fr fr"
// in professional's list, none in casual's) match as a literal
// case-insensitive substring without boundaries.
var offToneTables = map[string][]string{
	"professional": {
		"lol", "omg", "bruh", "gonna", "wanna", "kinda", "sorta",
		"tbh", "ngl", "fr fr", "yo", "dude", "bro",
	},
	"casual": {
		"hereby", "aforementioned", "pursuant", "notwithstanding",
		"heretofore", "whereupon", "henceforth",
	},
}

// engagementSignals are the positive word-boundary markers counted toward
// the engagement-ratio bonus.
var engagementSignals = []string{"we", "our", "us", "you", "your"}

// tokenMatcher counts occurrences of one token: word-boundary-anchored for
// single words, a literal case-insensitive substring count for phrases.
type tokenMatcher struct {
	token string
	re    *regexp.Regexp // nil for multi-word phrases
}

func newTokenMatcher(token string) tokenMatcher {
	if strings.Contains(token, " ") {
		return tokenMatcher{token: strings.ToLower(token)}
	}
	return tokenMatcher{token: token, re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)}
}

func (m tokenMatcher) count(text string) int {
	if m.re == nil {
		return strings.Count(strings.ToLower(text), m.token)
	}
	return len(m.re.FindAllString(text, -1))
}

// BrandVoice scores how closely text matches a configured tone, penalizing
// off-tone tokens and rewarding configured brand keywords and
// reader-engagement language. All matchers are compiled once at
// construction; Run only reads them.
type BrandVoice struct {
	tone            string
	targetScore     float64
	offToneMatchers []tokenMatcher
	keywordMatchers []tokenMatcher
	engagementRe    *regexp.Regexp
}

func NewBrandVoice(tone string, keywords []string, targetScore float64) *BrandVoice {
	offTone := offToneTables[tone]
	offToneMatchers := make([]tokenMatcher, len(offTone))
	for i, token := range offTone {
		offToneMatchers[i] = newTokenMatcher(token)
	}
	keywordMatchers := make([]tokenMatcher, len(keywords))
	for i, kw := range keywords {
		keywordMatchers[i] = newTokenMatcher(kw)
	}

	return &BrandVoice{
		tone:            tone,
		targetScore:     targetScore,
		offToneMatchers: offToneMatchers,
		keywordMatchers: keywordMatchers,
		engagementRe:    buildEngagementPattern(),
	}
}

func buildEngagementPattern() *regexp.Regexp {
	var parts []string
	for _, s := range engagementSignals {
		parts = append(parts, regexp.QuoteMeta(s))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
}

func (c *BrandVoice) Name() string { return "brand_voice" }

func (c *BrandVoice) Run(normalizedText string) model.CheckResult {
	offTone := offToneTables[c.tone]
	wordCount := len(strings.Fields(normalizedText))

	score := 70.0
	var findings []model.Finding
	totalOffTone := 0

	for i, matcher := range c.offToneMatchers {
		count := matcher.count(normalizedText)
		if count == 0 {
			continue
		}
		totalOffTone += count
		f, err := model.NewFinding(
			c.Name(),
			model.SeverityWarning,
			"off-tone token detected: \""+offTone[i]+"\"",
			nil,
			map[string]any{"word": offTone[i], "count": count},
		)
		if err == nil {
			findings = append(findings, f)
		}
	}
	score -= minFloat(float64(totalOffTone)*5, 40)

	if len(c.keywordMatchers) > 0 {
		hits := 0
		for _, matcher := range c.keywordMatchers {
			if matcher.count(normalizedText) > 0 {
				hits++
			}
		}
		score += 15 * (float64(hits) / float64(len(c.keywordMatchers)))
	}

	positiveHits := len(c.engagementRe.FindAllString(normalizedText, -1))
	engagementRatio := float64(positiveHits) / float64(maxInt(wordCount, 1))
	score += 100 * minFloat(engagementRatio, 0.15)

	score = clampFloat(score, 0, 100)
	score = round1(score)

	if score < c.targetScore {
		f, err := model.NewFinding(
			c.Name(),
			model.SeverityError,
			"brand-voice score below target",
			nil,
			map[string]any{"score": score, "target": c.targetScore},
		)
		if err == nil {
			findings = append(findings, f)
		}
	}

	return model.CheckResult{
		CheckName: c.Name(),
		Passed:    score >= c.targetScore,
		Score:     scorePtr(score),
		Findings:  findings,
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
