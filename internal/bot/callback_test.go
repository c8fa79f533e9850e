package bot

import (
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	names := []string{
		"AI Agents",
		"a",
		strings.Repeat("x", 45),
	}

	for _, name := range names {
		if got := DecodeTrend(EncodeTrend(name)); got != name {
			t.Fatalf("round trip changed %q to %q", name, got)
		}
	}
}

func TestEncodeTruncatesLongNames(t *testing.T) {
	t.Parallel()

	name := strings.Repeat("y", 80)
	token := EncodeTrend(name)

	if len(token) > 64 {
		t.Fatalf("token exceeds 64 bytes: %d", len(token))
	}

	got := DecodeTrend(token)
	if got != name[:45] {
		t.Fatalf("expected first 45 bytes, got %q", got)
	}
}

func TestEncodeTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// 23 two-byte runes = 46 bytes; the cut must not split rune 23.
	name := strings.Repeat("é", 23)
	got := DecodeTrend(EncodeTrend(name))

	if got != strings.Repeat("é", 22) {
		t.Fatalf("expected 22 runes, got %q", got)
	}
}

func TestRefreshTokenIsDistinct(t *testing.T) {
	t.Parallel()

	if len(CallbackRefresh) > 64 {
		t.Fatalf("refresh token exceeds 64 bytes")
	}
	if IsTrendToken(CallbackRefresh) {
		t.Fatalf("refresh token must not decode as a trend selection")
	}
	if !IsTrendToken(EncodeTrend("quantum")) {
		t.Fatalf("encoded trend not recognized as trend token")
	}
}

func TestDecodeNeverFails(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"", "garbage", "trend:", "trend:refresh-extra"} {
		_ = DecodeTrend(token)
	}
}
