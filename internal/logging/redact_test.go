// Ridematch - Ride Matching and Realtime Presence Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridematch

package logging

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeEmail(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                     "",
		"john.doe@example.com": "jo***@example.com",
		"ab@example.com":       "***@example.com",
		"no-at-sign":           "***",
	}
	for in, want := range tests {
		if got := SanitizeEmail(in); got != want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateContent(t *testing.T) {
	t.Parallel()

	if got := TruncateContent("hi"); got != "hi" {
		t.Errorf("short content changed: %q", got)
	}

	long := strings.Repeat("é", 100)
	got := TruncateContent(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long content not marked as truncated: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if len(got) > maxLoggedContent+3 {
		t.Errorf("truncated length %d exceeds limit", len(got))
	}
}
