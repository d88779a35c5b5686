package checks

import "testing"

func TestForbiddenPhrase_CaseInsensitiveSubstring(t *testing.T) {
	c := NewForbiddenPhrase([]string{"as an ai"})
	result := c.Run("As An AI, I cannot help with that.")
	if result.Passed {
		t.Fatal("expected the check to fail on a forbidden phrase")
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected exactly one finding, got %d", len(result.Findings))
	}
	if result.Findings[0].Severity != "error" {
		t.Errorf("expected ERROR severity, got %s", result.Findings[0].Severity)
	}
}

func TestForbiddenPhrase_MatchesInsideLongerWord(t *testing.T) {
	// documented behavior: "cat" flags inside "concatenate"
	c := NewForbiddenPhrase([]string{"cat"})
	result := c.Run("Please concatenate these strings.")
	if result.Passed {
		t.Fatal("expected substring match inside a longer word to fail the check")
	}
}

func TestForbiddenPhrase_OverlappingOccurrencesEachReported(t *testing.T) {
	c := NewForbiddenPhrase([]string{"deep dive"})
	result := c.Run("Let's do a deep dive, then another deep dive.")
	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings for 2 occurrences, got %d", len(result.Findings))
	}

	overlapping := NewForbiddenPhrase([]string{"aa"}).Run("aaa")
	if len(overlapping.Findings) != 2 {
		t.Fatalf("expected 2 findings for the overlapping occurrences of \"aa\" in \"aaa\", got %d", len(overlapping.Findings))
	}
}

func TestForbiddenPhrase_NoMatchPasses(t *testing.T) {
	c := NewForbiddenPhrase([]string{"synergy"})
	result := c.Run("We deliver professional solutions for our customers.")
	if !result.Passed {
		t.Error("expected clean text to pass")
	}
	if len(result.Findings) != 0 {
		t.Error("expected zero findings for clean text")
	}
}

func TestForbiddenPhrase_SpanIndexesMatch(t *testing.T) {
	c := NewForbiddenPhrase([]string{"leverage"})
	text := "We leverage our platform."
	result := c.Run(text)
	if len(result.Findings) != 1 {
		t.Fatalf("expected one finding, got %d", len(result.Findings))
	}
	span := result.Findings[0].Span
	if span == nil {
		t.Fatal("expected a span on the finding")
	}
	if text[span.Start:span.End] != "leverage" {
		t.Errorf("span %v does not cover the matched phrase, got %q", span, text[span.Start:span.End])
	}
}
