package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/foundrylabs/contentguard/pkg/model"
)

var wordSplitRe = regexp.MustCompile(`[A-Za-z']+`)

// Readability scores text with the Flesch reading-ease formula and the
// companion Flesch-Kincaid grade level, passing when the reading-ease
// score falls within a configured band.
type Readability struct {
	minScore float64
	maxScore float64
}

func NewReadability(minScore, maxScore float64) *Readability {
	return &Readability{minScore: minScore, maxScore: maxScore}
}

func (c *Readability) Name() string { return "readability" }

func (c *Readability) Run(normalizedText string) model.CheckResult {
	words := wordSplitRe.FindAllString(normalizedText, -1)
	sentences := countSentences(normalizedText)
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordCount := maxInt(len(words), 1)
	sentenceCount := maxInt(sentences, 1)

	fleschScore := 206.835 - 1.015*(float64(wordCount)/float64(sentenceCount)) - 84.6*(float64(syllables)/float64(wordCount))
	fleschScore = round1(fleschScore)

	gradeLevel := 0.39*(float64(wordCount)/float64(sentenceCount)) + 11.8*(float64(syllables)/float64(wordCount)) - 15.59
	gradeLevel = round1(gradeLevel)

	var finding model.Finding
	var err error
	switch {
	case fleschScore < c.minScore:
		finding, err = model.NewFinding(
			c.Name(),
			model.SeverityWarning,
			"text is too complex: reading-ease score is below the configured minimum",
			nil,
			map[string]any{"flesch_score": fleschScore, "grade_level": gradeLevel, "threshold": "min"},
		)
	case fleschScore > c.maxScore:
		finding, err = model.NewFinding(
			c.Name(),
			model.SeverityWarning,
			"text is too simple: reading-ease score is above the configured maximum",
			nil,
			map[string]any{"flesch_score": fleschScore, "grade_level": gradeLevel, "threshold": "max"},
		)
	default:
		finding, err = model.NewFinding(
			c.Name(),
			model.SeverityInfo,
			fmt.Sprintf("reading-ease score %.1f (grade level %.1f) is within the configured band", fleschScore, gradeLevel),
			nil,
			map[string]any{"flesch_score": fleschScore, "grade_level": gradeLevel},
		)
	}

	var findings []model.Finding
	if err == nil {
		findings = append(findings, finding)
	}

	passed := fleschScore >= c.minScore && fleschScore <= c.maxScore

	return model.CheckResult{
		CheckName: c.Name(),
		Passed:    passed,
		Score:     scorePtr(fleschScore),
		Findings:  findings,
	}
}

var sentenceEndRe = regexp.MustCompile(`[.!?]+`)

func countSentences(text string) int {
	matches := sentenceEndRe.FindAllString(text, -1)
	if len(matches) == 0 && strings.TrimSpace(text) != "" {
		return 1
	}
	return len(matches)
}

// countSyllables applies the conventional vowel-group heuristic used by
// most Flesch implementations: count vowel-sound groups, drop a trailing
// silent 'e', and floor every word to at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	if word == "" {
		return 0
	}

	vowels := "aeiouy"
	count := 0
	prevWasVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevWasVowel {
			count++
		}
		prevWasVowel = isVowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
