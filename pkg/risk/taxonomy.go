// Package risk implements RISK_TAXONOMY_v0: a fixed five-axis weighted
// aggregation of check results into a single composite risk score, plus
// the critical-severity escalation rule that lets one hard failure
// dominate a soft weighted mean.
package risk

import (
	"github.com/foundrylabs/contentguard/pkg/model"
)

// axisDefinition is one fixed scored dimension. The set, weights, and
// contributing-check wiring are design constants — see spec §4.8.
type axisDefinition struct {
	code               string
	label              string
	weight             float64
	contributingChecks []string
}

var axes = []axisDefinition{
	{"A", "Synthetic Artifacts", 0.30, []string{"forbidden_phrases", "readability"}},
	{"B", "Hallucination / Factual Integrity", 0.25, []string{"readability"}},
	{"C", "Brand Safety", 0.20, []string{"brand_voice"}},
	{"D", "Regulatory Compliance / PII", 0.15, []string{"pii"}},
	{"E", "Adversarial Robustness / Injection", 0.10, []string{"prompt_injection"}},
}

// escalationBonus maps the count of distinct axes carrying at least one
// CRITICAL finding to the additive composite bonus.
func escalationBonus(k int) float64 {
	switch {
	case k >= 3:
		return 100
	case k == 2:
		return 80
	case k == 1:
		return 40
	default:
		return 0
	}
}

// Compute builds the RiskTaxonomy for a completed set of check results.
func Compute(results []model.CheckResult) model.RiskTaxonomy {
	byName := make(map[string]model.CheckResult, len(results))
	for _, r := range results {
		byName[r.CheckName] = r
	}

	riskAxes := make([]model.RiskAxis, 0, len(axes))
	criticalAxisCount := 0

	for _, def := range axes {
		raw := axisRawScore(def, byName)
		if axisHasCriticalFinding(def, byName) {
			criticalAxisCount++
		}
		riskAxes = append(riskAxes, model.RiskAxis{
			Axis:          def.code,
			Label:         def.label,
			Weight:        def.weight,
			RawScore:      raw,
			WeightedScore: round1(raw * def.weight),
		})
	}

	var weightedSum float64
	for _, a := range riskAxes {
		weightedSum += a.WeightedScore
	}

	composite := weightedSum + escalationBonus(criticalAxisCount)
	if composite > 100 {
		composite = 100
	}
	composite = round1(composite)

	return model.RiskTaxonomy{
		CompositeRiskScore: composite,
		RiskLevel:          band(composite),
		Axes:               riskAxes,
	}
}

// axisRawScore derives the 0-100 raw score for one axis from the results
// of its contributing checks, per spec §4.8:
//   - passed with no findings        -> 0
//   - failed with a score present    -> 100 - score
//   - otherwise                      -> min(sum of severity points, 100)
//
// The axis score is the mean over contributing checks that actually ran.
func axisRawScore(def axisDefinition, byName map[string]model.CheckResult) float64 {
	var total float64
	var n int

	for _, checkName := range def.contributingChecks {
		result, ok := byName[checkName]
		if !ok {
			continue
		}
		n++

		switch {
		case result.Passed && len(result.Findings) == 0:
			total += 0
		case !result.Passed && result.Score != nil:
			total += 100 - *result.Score
		default:
			var points float64
			for _, f := range result.Findings {
				points += f.Severity.Points()
			}
			if points > 100 {
				points = 100
			}
			total += points
		}
	}

	if n == 0 {
		return 0
	}
	raw := total / float64(n)
	return clamp(raw, 0, 100)
}

func axisHasCriticalFinding(def axisDefinition, byName map[string]model.CheckResult) bool {
	for _, checkName := range def.contributingChecks {
		result, ok := byName[checkName]
		if !ok {
			continue
		}
		for _, f := range result.Findings {
			if f.Severity == model.SeverityCritical {
				return true
			}
		}
	}
	return false
}

func band(composite float64) model.RiskLevel {
	switch {
	case composite >= 80:
		return model.RiskRed
	case composite >= 50:
		return model.RiskOrange
	case composite >= 20:
		return model.RiskYellow
	default:
		return model.RiskGreen
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
