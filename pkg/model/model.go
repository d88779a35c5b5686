// Package model holds the shared value types produced and consumed by the
// validation engine: severities, findings, per-check results, and the
// composite risk taxonomy that ties them together.
package model

import (
	"encoding/json"
	"fmt"
)

// Severity is a totally ordered tag describing how serious a finding is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// severityPoints are the weighted points used by the risk taxonomy (§3) to
// turn a set of findings into a single axis score when no check-level score
// is available.
var severityPoints = map[Severity]float64{
	SeverityInfo:     0,
	SeverityWarning:  15,
	SeverityError:    40,
	SeverityCritical: 80,
}

// Points returns the weighted point value for this severity, used when
// aggregating findings into a raw axis score.
func (s Severity) Points() float64 {
	return severityPoints[s]
}

// String returns the wire representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Span is a half-open character offset range, (start, end), into the text
// the finding was found in. Spans index the normalized text (see
// normalize.SpanBasis); findings carry no span_basis metadata key.
type Span struct {
	Start int
	End   int
}

// MarshalJSON renders a Span as the canonical [start, end] wire tuple.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

// UnmarshalJSON parses a [start, end] wire tuple into a Span.
func (s *Span) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// Finding is a single observation produced by a check.
type Finding struct {
	CheckName string         `json:"validator_name"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Span      *Span          `json:"span,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewFinding constructs a Finding, rejecting malformed spans and non-scalar
// metadata values per §4.2.
func NewFinding(checkName string, severity Severity, message string, span *Span, metadata map[string]any) (Finding, error) {
	if span != nil {
		if span.Start < 0 || span.End < 0 {
			return Finding{}, fmt.Errorf("model: finding span offsets must be non-negative, got (%d, %d)", span.Start, span.End)
		}
		if span.End < span.Start {
			return Finding{}, fmt.Errorf("model: finding span end %d is before start %d", span.End, span.Start)
		}
	}
	for key, value := range metadata {
		if !isScalar(value) {
			return Finding{}, fmt.Errorf("model: metadata key %q has non-scalar value %T", key, value)
		}
	}
	return Finding{
		CheckName: checkName,
		Severity:  severity,
		Message:   message,
		Span:      span,
		Metadata:  metadata,
	}, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, float64:
		return true
	default:
		return false
	}
}

// CheckResult is the per-check outcome assembled into a ValidationResponse.
type CheckResult struct {
	CheckName string    `json:"validator_name"`
	Passed    bool      `json:"passed"`
	Score     *float64  `json:"score"`
	Findings  []Finding `json:"findings"`
}

// RiskAxis is one scored axis of RISK_TAXONOMY_v0.
type RiskAxis struct {
	Axis          string  `json:"axis"`
	Label         string  `json:"label"`
	Weight        float64 `json:"weight"`
	RawScore      float64 `json:"raw_score"`
	WeightedScore float64 `json:"weighted_score"`
}

// RiskLevel is the discrete band a composite score falls into.
type RiskLevel string

const (
	RiskGreen  RiskLevel = "GREEN"
	RiskYellow RiskLevel = "YELLOW"
	RiskOrange RiskLevel = "ORANGE"
	RiskRed    RiskLevel = "RED"
)

// RiskTaxonomy is the composite multi-axis risk assessment.
type RiskTaxonomy struct {
	CompositeRiskScore float64    `json:"composite_risk_score"`
	RiskLevel          RiskLevel  `json:"risk_level"`
	Axes               []RiskAxis `json:"axes"`
}

// ValidationRequest is the input to the engine.
type ValidationRequest struct {
	Text            string                    `json:"text"`
	Validators      []string                  `json:"validators"`
	ConfigOverrides map[string]map[string]any `json:"config_overrides"`
}

// ValidationResponse is the output of the engine.
type ValidationResponse struct {
	RequestID     string        `json:"request_id"`
	Timestamp     string        `json:"timestamp"`
	Version       string        `json:"version"`
	Passed        bool          `json:"passed"`
	TextLength    int           `json:"text_length"`
	ValidatorsRun int           `json:"validators_run"`
	Results       []CheckResult `json:"results"`
	Risk          RiskTaxonomy  `json:"risk"`
}
