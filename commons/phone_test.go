// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"errors"
	"testing"
)

func TestNormalizePhoneAcceptedShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national trunk format", "0712345678", "254712345678"},
		{"already canonical", "254712345678", "254712345678"},
		{"canonical with plus", "+254712345678", "254712345678"},
		{"bare subscriber mobile", "712345678", "254712345678"},
		{"bare subscriber wireless", "110123456", "254110123456"},
		{"spaces and dashes", "0712 345-678", "254712345678"},
		{"parentheses and dots", "(0712) 345.678", "254712345678"},
		{"surrounding whitespace", "  0712345678  ", "254712345678"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.input)
			if err != nil {
				t.Fatalf("NormalizePhone(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizePhoneIsIdempotent(t *testing.T) {
	first, err := NormalizePhone("0712345678")
	if err != nil {
		t.Fatalf("First normalization failed: %v", err)
	}
	second, err := NormalizePhone(first)
	if err != nil {
		t.Fatalf("Second normalization failed: %v", err)
	}
	if first != second {
		t.Errorf("Normalization is not idempotent: %q != %q", first, second)
	}
}

func TestNormalizePhoneRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"only whitespace", "   "},
		{"too short", "07123"},
		{"too long", "07123456789012"},
		{"letters", "07123456ab"},
		{"bare subscriber with bad lead digit", "912345678"},
		{"wrong country code", "255712345678"},
		{"trunk prefix with wrong length", "071234567"},
		{"invalid subscriber for region", "0212345678"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NormalizePhone(tc.input); !errors.Is(err, ErrInvalidPhone) {
				t.Errorf("NormalizePhone(%q) error = %v, want ErrInvalidPhone", tc.input, err)
			}
		})
	}
}

func TestLooksLikePhone(t *testing.T) {
	if !LooksLikePhone("0712345678") {
		t.Error("Expected a digit string to look like a phone number")
	}
	if LooksLikePhone("jane@example.com") {
		t.Error("Expected an email address not to look like a phone number")
	}
}
