package checks

import (
	"strings"
	"testing"
)

func allTypesPII() *PII {
	return NewPII([]string{"email", "phone", "ssn", "credit_card"})
}

func TestPII_DetectsEmail(t *testing.T) {
	result := allTypesPII().Run("Send info to alice@example.com please.")
	if result.Passed {
		t.Fatal("expected email PII to fail the check")
	}
	if len(result.Findings) != 1 || result.Findings[0].Metadata["pii_type"] != "email" {
		t.Fatalf("expected one email finding, got %+v", result.Findings)
	}
}

func TestPII_NeverLeaksMatchedSubstring(t *testing.T) {
	text := "Contact alice@example.com or call 555-123-4567. SSN: 123-45-6789."
	result := allTypesPII().Run(text)

	sensitive := []string{"alice@example.com", "555-123-4567", "123-45-6789"}
	for _, f := range result.Findings {
		for _, s := range sensitive {
			if strings.Contains(f.Message, s) {
				t.Errorf("finding message leaked sensitive substring %q: %q", s, f.Message)
			}
			for _, v := range f.Metadata {
				if str, ok := v.(string); ok && strings.Contains(str, s) {
					t.Errorf("finding metadata leaked sensitive substring %q: %q", s, str)
				}
			}
		}
	}
}

func TestPII_PhoneRequiresSeparatorOrParens(t *testing.T) {
	result := allTypesPII().Run("Order number 5551234567 was shipped.")
	if !result.Passed {
		t.Errorf("expected bare 10-digit run to NOT match as phone, got findings %+v", result.Findings)
	}
}

func TestPII_PhoneWithSeparatorMatches(t *testing.T) {
	result := allTypesPII().Run("Call 555-123-4567 for support.")
	if result.Passed {
		t.Fatal("expected separated phone number to match")
	}
}

func TestPII_SSNRejectsInvalidArea(t *testing.T) {
	result := allTypesPII().Run("Invalid SSN: 000-12-3456")
	if !result.Passed {
		t.Errorf("expected area 000 SSN to be rejected, got findings %+v", result.Findings)
	}
}

func TestPII_SSNAcceptsValid(t *testing.T) {
	result := allTypesPII().Run("SSN: 123-45-6789")
	if result.Passed {
		t.Fatal("expected a valid-looking SSN to match")
	}
}

func TestPII_CreditCardVisa(t *testing.T) {
	result := allTypesPII().Run("Card: 4111 1111 1111 1111")
	if result.Passed {
		t.Fatal("expected Visa-prefixed card number to match")
	}
	if result.Findings[0].Metadata["pii_type"] != "credit_card" {
		t.Errorf("expected credit_card pii_type, got %v", result.Findings[0].Metadata["pii_type"])
	}
}

func TestPII_DisabledTypeIsNotChecked(t *testing.T) {
	c := NewPII([]string{"email"})
	result := c.Run("Call 555-123-4567 now.")
	if !result.Passed {
		t.Errorf("expected phone detection to be off when not enabled, got findings %+v", result.Findings)
	}
}

func TestPII_CleanTextPasses(t *testing.T) {
	result := allTypesPII().Run("We deliver professional solutions for our customers.")
	if !result.Passed {
		t.Error("expected clean text to pass")
	}
}
