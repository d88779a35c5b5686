// Package engine implements the validation dispatcher (C9): it validates
// request size, normalizes text, sanitizes per-request config overrides,
// resolves the requested check set, runs each check with error isolation,
// aggregates the risk taxonomy, and assembles the response.
package engine

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foundrylabs/contentguard/pkg/checks"
	"github.com/foundrylabs/contentguard/pkg/config"
	"github.com/foundrylabs/contentguard/pkg/model"
	"github.com/foundrylabs/contentguard/pkg/normalize"
	"github.com/foundrylabs/contentguard/pkg/risk"
)

// Version is the engine's semantic version stamp, bumped whenever the
// taxonomy or a pattern family changes in a way that would alter a
// passing/failing verdict.
const Version = "1.0.0"

// registryOrder is the static, deterministic check order used both for
// "all" expansion and for the stamp on available_checks().
var registryOrder = []string{"forbidden_phrases", "pii", "brand_voice", "prompt_injection", "readability"}

// Engine owns one immutable configuration and a registry of pre-built,
// read-only check instances. It is safe for concurrent use: nothing it
// holds is mutated after construction.
type Engine struct {
	cfg      *config.Config
	registry map[string]checks.Check
}

// New builds an Engine from an effective configuration, constructing and
// caching one instance per registered check.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{cfg: cfg}
	e.registry = e.buildRegistry(cfg)
	return e
}

func (e *Engine) buildRegistry(cfg *config.Config) map[string]checks.Check {
	return map[string]checks.Check{
		"forbidden_phrases": checks.NewForbiddenPhrase(cfg.ForbiddenPhrases),
		"pii":                checks.NewPII(cfg.PIIPatternsEnabled),
		"brand_voice":        checks.NewBrandVoice(cfg.BrandVoiceTone, cfg.BrandVoiceKeywords, cfg.BrandVoiceTargetScore),
		"prompt_injection":   checks.NewPromptInjection(),
		"readability":        checks.NewReadability(cfg.ReadabilityMinScore, cfg.ReadabilityMaxScore),
	}
}

// AvailableChecks returns the static registry order, backing the
// available_checks() external interface (§6).
func (e *Engine) AvailableChecks() []string {
	out := make([]string, len(registryOrder))
	copy(out, registryOrder)
	return out
}

// Run executes the full validation pipeline for one request. A non-empty
// requestID is accepted verbatim (§6); an empty one is replaced by a freshly
// generated 32-hex-character ID.
func (e *Engine) Run(req model.ValidationRequest, requestID string) model.ValidationResponse {
	now := nowStamp()
	if requestID == "" {
		requestID = strings.ReplaceAll(uuid.New().String(), "-", "")
	}

	if len(req.Text) > e.cfg.MaxTextLength {
		finding, _ := model.NewFinding(
			"engine",
			model.SeverityError,
			fmt.Sprintf("input text length %d exceeds configured maximum of %d characters", len(req.Text), e.cfg.MaxTextLength),
			nil,
			map[string]any{"text_length": len(req.Text), "max_text_length": e.cfg.MaxTextLength},
		)
		return model.ValidationResponse{
			RequestID:  requestID,
			Timestamp:  now,
			Version:    Version,
			Passed:     false,
			TextLength: len(req.Text),
			// validators_run stays 0 even though one engine-level result is
			// reported, per spec's explicit length-gate exception.
			ValidatorsRun: 0,
			Results: []model.CheckResult{
				{CheckName: "engine", Passed: false, Findings: []model.Finding{finding}},
			},
			Risk: model.RiskTaxonomy{
				CompositeRiskScore: 100.0,
				RiskLevel:          model.RiskRed,
				Axes:               nil,
			},
		}
	}

	normalizedText := normalize.Text(req.Text)
	sanitized := config.SanitizeOverrides(req.ConfigOverrides)

	selected := e.resolveSelection(req.Validators)

	results := make([]model.CheckResult, 0, len(selected))
	for _, name := range selected {
		results = append(results, e.runOne(name, normalizedText, sanitized[name]))
	}

	riskTaxonomy := risk.Compute(results)
	passed := len(results) > 0
	for _, r := range results {
		if !r.Passed {
			passed = false
			break
		}
	}

	return model.ValidationResponse{
		RequestID:     requestID,
		Timestamp:     now,
		Version:       Version,
		Passed:        passed,
		TextLength:    len(req.Text),
		ValidatorsRun: len(results),
		Results:       results,
		Risk:          riskTaxonomy,
	}
}

// resolveSelection expands ["all"] to the registry order and drops unknown
// names with a logged warning, preserving the caller's requested order
// otherwise.
func (e *Engine) resolveSelection(requested []string) []string {
	if len(requested) == 1 && requested[0] == "all" {
		return e.AvailableChecks()
	}

	selected := make([]string, 0, len(requested))
	for _, name := range requested {
		if _, ok := e.registry[name]; !ok {
			log.Printf("[WARN] engine: unknown check name %q skipped", name)
			continue
		}
		selected = append(selected, name)
	}
	return selected
}

// runOne invokes the named check, using a transient override-merged
// instance when the request supplied overrides for it, and isolating any
// panic behind an engine-emitted ERROR finding so one misbehaving check
// never aborts the response.
func (e *Engine) runOne(name, normalizedText string, override map[string]any) (result model.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] engine: check %q panicked: %v", name, r)
			finding, _ := model.NewFinding(
				"engine",
				model.SeverityError,
				fmt.Sprintf("check %q failed unexpectedly", name),
				nil,
				map[string]any{"check": name},
			)
			result = model.CheckResult{CheckName: name, Passed: false, Findings: []model.Finding{finding}}
		}
	}()

	check := e.registry[name]
	if len(override) > 0 {
		check = e.transientCheck(name, override)
	}
	return check.Run(normalizedText)
}

// transientCheck builds a one-off check instance with override values
// merged onto the engine's effective config, without mutating the shared
// global config (§3 Ownership).
func (e *Engine) transientCheck(name string, override map[string]any) checks.Check {
	merged := e.cfg.Clone()

	switch name {
	case "brand_voice":
		tone := merged.BrandVoiceTone
		keywords := merged.BrandVoiceKeywords
		target := merged.BrandVoiceTargetScore
		if v, ok := override["brand_voice_tone"].(string); ok {
			tone = v
		}
		if v, ok := override["brand_voice_target_score"].(float64); ok {
			target = v
		}
		if v, ok := override["brand_voice_keywords"].([]any); ok {
			keywords = toStringSlice(v)
		}
		return checks.NewBrandVoice(tone, keywords, target)

	case "readability":
		min := merged.ReadabilityMinScore
		max := merged.ReadabilityMaxScore
		if v, ok := override["readability_min_score"].(float64); ok {
			min = v
		}
		if v, ok := override["readability_max_score"].(float64); ok {
			max = v
		}
		return checks.NewReadability(min, max)

	default:
		// forbidden_phrases, pii, and prompt_injection have no overridable,
		// non-locked keys; fall back to the cached instance.
		return e.registry[name]
	}
}

func toStringSlice(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func nowStamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05-07:00")
}
