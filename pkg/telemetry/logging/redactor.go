package logging

import "log/slog"

// sensitiveKeys are attribute names whose values must never reach log
// output in full. Credentials are truncated to a recognizable prefix.
var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"secret":        true,
	"token":         true,
	"password":      true,
}

// redactAttr is the ReplaceAttr hook applied to every log attribute.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[a.Key] {
		a.Value = slog.StringValue(RedactValue(a.Value.String()))
	}
	return a
}

// RedactValue truncates a sensitive value for logging: the first four
// characters followed by an ellipsis, or "***" for shorter values.
func RedactValue(value string) string {
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "..."
}
