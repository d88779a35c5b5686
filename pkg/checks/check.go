// Package checks implements the five independent content validators:
// forbidden-phrase matching, PII detection, prompt-injection pattern
// matching, brand-voice scoring, and readability scoring. Every check
// operates purely on the already-normalized text and returns a
// model.CheckResult; none of them retain state across calls.
package checks

import "github.com/foundrylabs/contentguard/pkg/model"

// Check is the shared contract every validator implements. A Check must be
// side-effect free and safe for concurrent use: construction compiles any
// pattern tables once, and Run only reads that state.
type Check interface {
	Name() string
	Run(normalizedText string) model.CheckResult
}

func scorePtr(v float64) *float64 {
	return &v
}
