// Package config defines the engine's layered configuration surface:
// built-in defaults, an optional external YAML overlay loaded once at
// construction, and a per-request override path that is filtered against a
// fixed set of locked keys before it ever reaches a check. There is no
// allowlist: any key outside the locked set passes the filter.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is the engine's effective, immutable-once-built configuration.
type Config struct {
	MaxTextLength int `yaml:"max_text_length"`

	ForbiddenPhrases   []string `yaml:"forbidden_phrases"`
	PIIPatternsEnabled []string `yaml:"pii_patterns_enabled"`

	BrandVoiceTone        string   `yaml:"brand_voice_tone"`
	BrandVoiceKeywords    []string `yaml:"brand_voice_keywords"`
	BrandVoiceTargetScore float64  `yaml:"brand_voice_target_score"`

	ReadabilityMinScore float64 `yaml:"readability_min_score"`
	ReadabilityMaxScore float64 `yaml:"readability_max_score"`
}

// defaultForbiddenPhrases is the built-in AI-slop/cliché list.
var defaultForbiddenPhrases = []string{
	"as an ai",
	"as a language model",
	"i cannot and will not",
	"i'm just an ai",
	"delve",
	"leverage",
	"synergy",
	"game-changer",
	"circle back",
	"deep dive",
	"unpack",
	"at the end of the day",
}

// LockedKeys are config_overrides keys callers may never set per-request —
// doing so would let a caller silently disable a whole detection class.
var LockedKeys = map[string]bool{
	"pii_patterns_enabled": true,
	"forbidden_phrases":    true,
	"max_text_length":      true,
}

// MaxOverridePayloadBytes is the serialized size cap (key+value characters)
// above which per-request overrides are dropped entirely rather than
// partially honored.
const MaxOverridePayloadBytes = 16 * 1024

// Default returns the built-in defaults, with no external overlay.
func Default() *Config {
	return &Config{
		MaxTextLength:         500_000,
		ForbiddenPhrases:      append([]string(nil), defaultForbiddenPhrases...),
		PIIPatternsEnabled:    []string{"email", "phone", "ssn", "credit_card"},
		BrandVoiceTone:        "professional",
		BrandVoiceKeywords:    nil,
		BrandVoiceTargetScore: 60.0,
		ReadabilityMinScore:   30.0,
		ReadabilityMaxScore:   80.0,
	}
}

// Strict returns a preset tuned for higher-stakes publication surfaces: a
// tighter readability band, a higher brand-voice bar, and every PII pattern
// forced on at construction time (not overridable — locked keys stay locked
// regardless of preset).
func Strict() *Config {
	cfg := Default()
	cfg.ReadabilityMinScore = 40.0
	cfg.ReadabilityMaxScore = 70.0
	cfg.BrandVoiceTargetScore = 75.0
	cfg.PIIPatternsEnabled = []string{"email", "phone", "ssn", "credit_card"}
	return cfg
}

// Permissive returns a preset for low-stakes internal drafts: a wider
// readability band and a trimmed forbidden-phrase list.
func Permissive() *Config {
	cfg := Default()
	cfg.ReadabilityMinScore = 10.0
	cfg.ReadabilityMaxScore = 100.0
	cfg.ForbiddenPhrases = []string{"as an ai", "as a language model"}
	return cfg
}

// Validate rejects a structurally invalid configuration.
func (c *Config) Validate() error {
	if c.MaxTextLength < 1 {
		return fmt.Errorf("config: max_text_length must be at least 1, got %d", c.MaxTextLength)
	}
	if c.ReadabilityMinScore > c.ReadabilityMaxScore {
		return fmt.Errorf("config: readability_min_score (%.1f) exceeds readability_max_score (%.1f)",
			c.ReadabilityMinScore, c.ReadabilityMaxScore)
	}
	return nil
}

// Clone returns a deep-enough copy of c for building a transient,
// per-request merged view without mutating the shared global config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ForbiddenPhrases = append([]string(nil), c.ForbiddenPhrases...)
	clone.PIIPatternsEnabled = append([]string(nil), c.PIIPatternsEnabled...)
	clone.BrandVoiceKeywords = append([]string(nil), c.BrandVoiceKeywords...)
	return &clone
}

var (
	overlayMu sync.RWMutex
)

// LoadOverlay reads a YAML document at path and layers it onto the built-in
// defaults. A missing file is not an error — it is the common case for a
// deployment that hasn't customized anything — and defaults are returned
// unchanged, logged at the caller's discretion.
func LoadOverlay(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	overlayMu.RLock()
	data, err := os.ReadFile(path)
	overlayMu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read overlay %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse overlay %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SanitizeOverrides implements the §4.9 step-3 security gate over a raw
// config_overrides payload: a map keyed by check name to a map of scalar
// key/value pairs. It strips locked keys (logged at WARN), rejects
// non-scalar values within a check's override map (dropping just that
// key), and drops the payload entirely when its serialized size exceeds
// MaxOverridePayloadBytes. The input is never mutated; a fresh map is
// returned.
func SanitizeOverrides(raw map[string]map[string]any) map[string]map[string]any {
	if len(raw) == 0 {
		return nil
	}

	if payloadSize(raw) > MaxOverridePayloadBytes {
		log.Printf("[WARN] config: override payload exceeds %d bytes, dropping all overrides", MaxOverridePayloadBytes)
		return nil
	}

	clean := make(map[string]map[string]any, len(raw))
	for checkName, fields := range raw {
		cleanFields := make(map[string]any, len(fields))
		for key, value := range fields {
			if LockedKeys[key] {
				log.Printf("[WARN] config: stripped locked override key %q for check %q", key, checkName)
				continue
			}
			if !isOverrideScalar(value) {
				log.Printf("[WARN] config: dropped non-scalar override %q for check %q", key, checkName)
				continue
			}
			cleanFields[key] = value
		}
		if len(cleanFields) > 0 {
			clean[checkName] = cleanFields
		}
	}
	if len(clean) == 0 {
		return nil
	}
	return clean
}

func isOverrideScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, float64:
		return true
	case []any:
		return true
	default:
		return false
	}
}

// payloadSize approximates the serialized key+value character count of an
// overrides payload without requiring a full JSON round-trip.
func payloadSize(raw map[string]map[string]any) int {
	n := 0
	for checkName, fields := range raw {
		n += len(checkName)
		for key, value := range fields {
			n += len(key) + len(fmt.Sprint(value))
		}
	}
	return n
}

// ClampInt restricts val to the closed range [min, max].
func ClampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// EnvInt reads an environment-scoped integer override, falling back to def
// when the variable is unset or not a valid integer.
func EnvInt(name string, def int) int {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
