package checks

import (
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/foundrylabs/contentguard/pkg/model"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// NANP phone: optional +1 prefix, then either a parenthesized area code
	// or a fully-separated ddd-ddd-dddd run. A bare 10-digit run with no
	// separator or parens is excluded by construction (no alternative
	// branch for it), which is what suppresses order numbers.
	phonePattern = regexp.MustCompile(`(?:\+1[-. ]?)?(?:\(\d{3}\)[ ]?\d{3}-\d{4}|\d{3}[-. ]\d{3}[-. ]\d{4})`)

	ssnPattern = regexp.MustCompile(`\d{3}[-. ]\d{2}[-. ]\d{4}`)

	visaPattern      = regexp.MustCompile(`4\d{3}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}`)
	mastercardPat    = regexp.MustCompile(`5[1-5]\d{2}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}`)
	amexPattern      = regexp.MustCompile(`3[47]\d{2}[- ]?\d{6}[- ]?\d{5}`)
	discoverPattern  = regexp.MustCompile(`(?:6011|65\d{2})[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}`)
	creditCardBrands = []*regexp.Regexp{visaPattern, mastercardPat, amexPattern, discoverPattern}
)

// PII detects email, phone, SSN, and credit-card substrings and reports
// each as a CRITICAL finding carrying only a fixed redaction placeholder —
// the matched value never appears in the returned message or metadata.
type PII struct {
	enabled map[string]bool
}

// NewPII builds a check over the given subset of {email, phone, ssn,
// credit_card}.
func NewPII(enabledTypes []string) *PII {
	enabled := make(map[string]bool, len(enabledTypes))
	for _, t := range enabledTypes {
		enabled[t] = true
	}
	return &PII{enabled: enabled}
}

func (c *PII) Name() string { return "pii" }

func (c *PII) Run(normalizedText string) model.CheckResult {
	var findings []model.Finding

	if c.enabled["email"] {
		findings = append(findings, c.scanEmail(normalizedText)...)
	}
	if c.enabled["phone"] {
		findings = append(findings, c.scanPhone(normalizedText)...)
	}
	if c.enabled["ssn"] {
		findings = append(findings, c.scanSSN(normalizedText)...)
	}
	if c.enabled["credit_card"] {
		findings = append(findings, c.scanCreditCard(normalizedText)...)
	}

	return model.CheckResult{
		CheckName: c.Name(),
		Passed:    len(findings) == 0,
		Score:     nil,
		Findings:  findings,
	}
}

func (c *PII) scanEmail(text string) []model.Finding {
	var out []model.Finding
	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		out = append(out, c.redactedFinding("email", "***@***.***", loc[0], loc[1]))
	}
	return out
}

func (c *PII) scanPhone(text string) []model.Finding {
	var out []model.Finding
	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		if !digitBoundary(text, loc[0], loc[1]) {
			continue
		}
		out = append(out, c.redactedFinding("phone", "***-***-****", loc[0], loc[1]))
	}
	return out
}

func (c *PII) scanSSN(text string) []model.Finding {
	var out []model.Finding
	for _, loc := range ssnPattern.FindAllStringIndex(text, -1) {
		if !digitBoundary(text, loc[0], loc[1]) {
			continue
		}
		if !validSSN(text[loc[0]:loc[1]]) {
			continue
		}
		out = append(out, c.redactedFinding("ssn", "***-**-****", loc[0], loc[1]))
	}
	return out
}

func (c *PII) scanCreditCard(text string) []model.Finding {
	var out []model.Finding
	for _, brand := range creditCardBrands {
		for _, loc := range brand.FindAllStringIndex(text, -1) {
			if !digitBoundary(text, loc[0], loc[1]) {
				continue
			}
			out = append(out, c.redactedFinding("credit_card", "****-****-****-****", loc[0], loc[1]))
		}
	}
	return out
}

// redactedFinding builds a CRITICAL finding whose message and metadata
// carry only piiType and the fixed placeholder — never the match itself.
func (c *PII) redactedFinding(piiType, placeholder string, start, end int) model.Finding {
	f, err := model.NewFinding(
		c.Name(),
		model.SeverityCritical,
		piiType+" detected: "+placeholder,
		&model.Span{Start: start, End: end},
		map[string]any{"pii_type": piiType, "redacted": placeholder},
	)
	if err != nil {
		// Span and metadata are both constructed to satisfy NewFinding's
		// invariants; a rejection here would be a programming error, not
		// a runtime condition to recover from.
		return model.Finding{}
	}
	return f
}

// digitBoundary reports whether the rune immediately before start and the
// rune immediately after end (if any) are non-digits, which is the
// look-around spec.md requires so matches don't land inside a longer run
// of digits.
func digitBoundary(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsDigit(before) {
			return false
		}
	}
	if end < len(text) {
		after, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsDigit(after) {
			return false
		}
	}
	return true
}

// validSSN rejects area 000/666/9xx, group 00, and serial 0000, matching
// the documented SSA-invalid ranges.
func validSSN(match string) bool {
	digits := make([]byte, 0, 9)
	for i := 0; i < len(match); i++ {
		if match[i] >= '0' && match[i] <= '9' {
			digits = append(digits, match[i])
		}
	}
	if len(digits) != 9 {
		return false
	}
	area, _ := strconv.Atoi(string(digits[0:3]))
	group, _ := strconv.Atoi(string(digits[3:5]))
	serial, _ := strconv.Atoi(string(digits[5:9]))

	if area == 0 || area == 666 || area >= 900 {
		return false
	}
	if group == 0 {
		return false
	}
	if serial == 0 {
		return false
	}
	return true
}
