package risk

import (
	"testing"

	"github.com/foundrylabs/contentguard/pkg/model"
)

func passedResult(name string) model.CheckResult {
	return model.CheckResult{CheckName: name, Passed: true, Score: nil, Findings: nil}
}

func TestCompute_AllCleanIsGreenAndZero(t *testing.T) {
	results := []model.CheckResult{
		passedResult("forbidden_phrases"),
		passedResult("pii"),
		passedResult("brand_voice"),
		passedResult("prompt_injection"),
		passedResult("readability"),
	}
	tax := Compute(results)
	if tax.CompositeRiskScore != 0 {
		t.Errorf("expected composite 0 for all-clean results, got %v", tax.CompositeRiskScore)
	}
	if tax.RiskLevel != model.RiskGreen {
		t.Errorf("expected GREEN, got %s", tax.RiskLevel)
	}
}

func TestCompute_WeightsSumToOne(t *testing.T) {
	var sum float64
	for _, a := range axes {
		sum += a.weight
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("axis weights must sum to 1.0 +/- 0.001, got %v", sum)
	}
}

func TestCompute_CompositeAlwaysInBounds(t *testing.T) {
	crit, _ := model.NewFinding("pii", model.SeverityCritical, "pii found", nil, map[string]any{"pii_type": "ssn"})
	results := []model.CheckResult{
		{CheckName: "pii", Passed: false, Findings: []model.Finding{crit, crit, crit}},
	}
	tax := Compute(results)
	if tax.CompositeRiskScore < 0 || tax.CompositeRiskScore > 100 {
		t.Errorf("composite out of [0,100]: %v", tax.CompositeRiskScore)
	}
}

func TestCompute_SingleCriticalAxisEscalatesBy40(t *testing.T) {
	crit, _ := model.NewFinding("pii", model.SeverityCritical, "pii found", nil, map[string]any{"pii_type": "ssn"})
	clean := []model.CheckResult{
		passedResult("forbidden_phrases"),
		passedResult("brand_voice"),
		passedResult("prompt_injection"),
		passedResult("readability"),
	}
	withPII := append(clean, model.CheckResult{CheckName: "pii", Passed: false, Findings: []model.Finding{crit}})
	tax := Compute(withPII)
	// axis D weight 0.15, raw score 80 (single CRITICAL = 80 points, under the 100 cap) -> weighted 12, + escalation 40 = 52
	if tax.CompositeRiskScore < 40 {
		t.Errorf("expected escalation bonus to dominate, got composite %v", tax.CompositeRiskScore)
	}
	if tax.RiskLevel == model.RiskGreen {
		t.Error("expected a single CRITICAL finding to move the composite off GREEN")
	}
}

func TestCompute_TwoCriticalAxesEscalateMoreThanOne(t *testing.T) {
	critPII, _ := model.NewFinding("pii", model.SeverityCritical, "pii found", nil, map[string]any{"pii_type": "ssn"})
	critInj, _ := model.NewFinding("prompt_injection", model.SeverityCritical, "injection", nil, map[string]any{"pattern": "ignore_instructions", "matched": "ignore all"})

	oneAxis := Compute([]model.CheckResult{
		{CheckName: "pii", Passed: false, Findings: []model.Finding{critPII}},
		passedResult("forbidden_phrases"), passedResult("brand_voice"), passedResult("readability"),
		{CheckName: "prompt_injection", Passed: true, Score: scoreOf(100), Findings: nil},
	})
	twoAxes := Compute([]model.CheckResult{
		{CheckName: "pii", Passed: false, Findings: []model.Finding{critPII}},
		passedResult("forbidden_phrases"), passedResult("brand_voice"), passedResult("readability"),
		{CheckName: "prompt_injection", Passed: false, Findings: []model.Finding{critInj}},
	})

	if twoAxes.CompositeRiskScore <= oneAxis.CompositeRiskScore {
		t.Errorf("expected two critical axes to escalate higher than one: one=%v two=%v",
			oneAxis.CompositeRiskScore, twoAxes.CompositeRiskScore)
	}
}

func TestCompute_AxisRawScoreUsesScoreFallbackWhenFailedWithScore(t *testing.T) {
	results := []model.CheckResult{
		{CheckName: "brand_voice", Passed: false, Score: scoreOf(40.0), Findings: nil},
	}
	tax := Compute(results)
	for _, a := range tax.Axes {
		if a.Axis == "C" {
			if a.RawScore != 60.0 {
				t.Errorf("expected axis C raw score 100-40=60, got %v", a.RawScore)
			}
		}
	}
}

func TestCompute_MissingChecksYieldZeroRawScore(t *testing.T) {
	tax := Compute(nil)
	for _, a := range tax.Axes {
		if a.RawScore != 0 {
			t.Errorf("expected raw score 0 when no contributing check ran, axis %s got %v", a.Axis, a.RawScore)
		}
	}
	if tax.CompositeRiskScore != 0 {
		t.Errorf("expected composite 0 with no results, got %v", tax.CompositeRiskScore)
	}
}

func scoreOf(v float64) *float64 {
	return &v
}
