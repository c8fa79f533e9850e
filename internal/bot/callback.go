package bot

import "strings"

// Callback tokens ride in the transport's callback_data field, which is
// capped at 64 bytes. Trend names are truncated to TrendPayloadLimit bytes
// after the prefix; the loss is one-directional and accepted — decoded
// payloads are best-effort display text, not authoritative keys.
const (
	trendPrefix       = "trend:"
	TrendPayloadLimit = 45

	// CallbackRefresh is the static regenerate token; it carries no
	// truncation risk and is matched exactly before trend decoding.
	CallbackRefresh = "trend:refresh"
)

// EncodeTrend maps a trend name to its callback token, truncating the name
// to TrendPayloadLimit bytes on a rune boundary.
func EncodeTrend(name string) string {
	return trendPrefix + truncateRunes(name, TrendPayloadLimit)
}

// DecodeTrend strips the trend prefix and returns the possibly truncated
// remainder. It never fails and performs no validation against the trend set.
func DecodeTrend(token string) string {
	return strings.TrimPrefix(token, trendPrefix)
}

// IsTrendToken reports whether a callback token denotes a trend selection.
func IsTrendToken(token string) bool {
	return token != CallbackRefresh && strings.HasPrefix(token, trendPrefix)
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
