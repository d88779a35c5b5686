package checks

import (
	"regexp"

	"github.com/foundrylabs/contentguard/pkg/model"
)

// injectionFamily is one named jailbreak/instruction-override pattern.
// Every family is scored CRITICAL; the family name alone, not the match
// text, is what distinguishes them in the response.
type injectionFamily struct {
	Name    string
	Pattern *regexp.Regexp
}

// injectionFamilies is the fixed pattern table. Closed, like the
// normalizer's homoglyph table: adding a family is a code change, not a
// per-request config knob.
var injectionFamilies = []injectionFamily{
	{"ignore_instructions", regexp.MustCompile(`(?i)ignore\s+(all\s+|any\s+)?(previous|prior|above|preceding)\s+(instructions?|rules?|prompts?)`)},
	{"system_prompt_leak", regexp.MustCompile(`(?i)(reveal|show|print|repeat|output)\s+(your|the)\s+(system\s+prompt|initial\s+instructions?|hidden\s+prompt)`)},
	{"role_override", regexp.MustCompile(`(?i)\b(DAN|STAN|DUDE|AIM|Developer\s*Mode|Jailbreak\s*Mode)\b`)},
	{"delimiter_injection", regexp.MustCompile("(?i)```\\s*(system|assistant)\\b")},
	{"encoded_injection", regexp.MustCompile(`(?i)(decode|execute)\s+(this\s+)?(base64|rot13|hex)\s*:?`)},
	{"do_anything_now", regexp.MustCompile(`(?i)do\s+anything\s+now`)},
	{"instruction_override", regexp.MustCompile(`(?i)(disregard|override|supersede)\s+(your|the|all)\s+(instructions?|guidelines?|rules?|training)`)},
	{"hidden_text", regexp.MustCompile(`(?i)<\s*(hidden|invisible|secret)\s*>`)},
	{"forget_everything", regexp.MustCompile(`(?i)forget\s+(everything|all|what)\s+(you\s+)?(know|learned|were\s+told)`)},
	{"act_as", regexp.MustCompile(`(?i)act\s+as\s+(an?\s+)?(unrestricted|unfiltered|uncensored|jailbroken|evil)`)},
	{"token_manipulation", regexp.MustCompile(`(?i)(temperature|top_p)\s*[:=]\s*(1\.0|0\.0|max|maximum)`)},
	{"context_boundary", regexp.MustCompile(`(?i)(</s>|\[INST\]|<\|system\|>|<\|im_start\|>)`)},
	{"markdown_exfil", regexp.MustCompile(`(?i)!\[[^\]]*\]\(https?://[^\s)]+\?[^)]*(data|token|secret|key)[^)]*\)`)},
	{"developer_mode", regexp.MustCompile(`(?i)developer\s+mode\s+(enabled|on|activated)`)},
	{"privilege_escalation", regexp.MustCompile(`(?i)(grant|enable|unlock)\s+(admin|root|sudo|elevated)\s+(access|privileges?|mode)`)},
	{"template_injection", regexp.MustCompile(`(\{\{.*?\}\}|\$\{.*?\}|<%.*?%>)`)},
	{"xml_tag_injection", regexp.MustCompile(`(?i)<\s*(override|instructions?|directive)\s*>.*?<\s*/\s*(override|instructions?|directive)\s*>`)},
	{"markdown_role_block", regexp.MustCompile("(?i)```\\s*\\n?\\s*#+\\s*(system|assistant|user)\\s+(prompt|message)")},
	{"payload_separator", regexp.MustCompile(`[-=_*]{5,}`)},
	{"cognitive_hacking", regexp.MustCompile(`(?i)(pretend|imagine|hypothetically)\s+.*?\b(no\s+rules?|no\s+restrictions?|without\s+limits?)\b`)},
	{"continuation_attack", regexp.MustCompile(`(?i)continue\s+(the\s+)?(previous\s+)?(response|answer|output)\s+(as\s+if|without)\s+(restriction|filter|limit)`)},
}

const matchTruncateLen = 60

// PromptInjection matches the text against a fixed table of jailbreak and
// instruction-override families and derives a 0-100 safety score from the
// total number of matches across all families, relative to the family count.
type PromptInjection struct{}

func NewPromptInjection() *PromptInjection {
	return &PromptInjection{}
}

func (c *PromptInjection) Name() string { return "prompt_injection" }

func (c *PromptInjection) Run(normalizedText string) model.CheckResult {
	var findings []model.Finding
	matchCount := 0

	for _, family := range injectionFamilies {
		locs := family.Pattern.FindAllStringIndex(normalizedText, -1)
		for _, loc := range locs {
			matchCount++
			matched := truncateMatch(normalizedText[loc[0]:loc[1]])
			f, err := model.NewFinding(
				c.Name(),
				model.SeverityCritical,
				"prompt-injection pattern matched: "+family.Name,
				&model.Span{Start: loc[0], End: loc[1]},
				map[string]any{"pattern": family.Name, "matched": matched},
			)
			if err == nil {
				findings = append(findings, f)
			}
		}
	}

	risk := float64(matchCount) / float64(len(injectionFamilies))
	if risk > 1.0 {
		risk = 1.0
	}
	score := round1((1.0 - risk) * 100)

	return model.CheckResult{
		CheckName: c.Name(),
		Passed:    matchCount == 0,
		Score:     scorePtr(score),
		Findings:  findings,
	}
}

// truncateMatch clips a match to 60 characters plus an ellipsis, keeping
// the metadata["matched"] field at or under the 63-character security
// invariant (spec.md §8 property 4).
func truncateMatch(s string) string {
	runes := []rune(s)
	if len(runes) <= matchTruncateLen {
		return s
	}
	return string(runes[:matchTruncateLen]) + "..."
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
