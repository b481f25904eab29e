package logging

import "strings"

// SecretKeyPatterns contains substrings that indicate an attribute key likely
// carries sensitive data. Keys are matched case-insensitively. "_KEY" rather
// than "KEY" so generic attribute names like "key" stay readable; the
// credential fields this tool handles (session_key, api_key) all carry the
// underscore.
var SecretKeyPatterns = []string{
	"TOKEN",
	"_KEY",
	"APIKEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"COOKIE",
	"SESSION",
}

// TokenPrefixes contains known credential prefixes that mark a value as
// sensitive regardless of its key name.
var TokenPrefixes = []string{
	"sk-", // Anthropic/OpenAI secret and session keys
	"pk-", // publishable keys that still should not be logged
	"eyJ", // base64url JWT header, covers OAuth access/refresh/id tokens
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
// Matching is case-insensitive.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known credential
// prefix. This catches values that are clearly secrets even when the key name
// is innocuous (e.g. logging a raw "sk-ant-..." string under "value").
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}
