package logutil

// TruncateForLog cuts s to maxLen bytes and appends "..." when it was longer.
// Panel tokens and response bodies go through it before being logged.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
