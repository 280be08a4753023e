package respond

import "regexp"

var (
	// Anthropic keys must be masked before the generic OpenAI pattern runs.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	dsnPasswordPattern  = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
	bearerPattern       = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._\-]+`)
)

// SanitizeError returns err's message with API keys, bearer tokens and DSN
// passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
