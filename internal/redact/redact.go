// Package redact scrubs credentials, tokens, personal data and query text
// from strings before they reach a log line.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for matched fragments.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	TokenPlaceholder      = "[REDACTED_JWT]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	HostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules run in order. Connection strings go first so their password is gone
// before the generic credential rule sees it, and the bearer and JWT rules
// precede the key rule which would otherwise eat the token prefix.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb)://[^@\s]+@`), CredentialPlaceholder},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]+=*`), "Bearer " + TokenPlaceholder},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), TokenPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd|hashed_password)([=:\s]?['"]?)[^'"&\s]{3,}`), CredentialPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|secret|token|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), KeyPlaceholder},
	{regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`), CredentialPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
	{regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()."$=]+(?:FROM|INTO|SET|TABLE|RETURNING)(?:[\s\w,*()."$='+-]+)?`,
	), SQLPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), PathPlaceholder},
	{regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`), HostPlaceholder},
}

// String returns input with every sensitive fragment replaced.
func String(input string) string {
	if input == "" {
		return input
	}
	out := input
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.placeholder)
	}
	return out
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Attr returns a slog attribute named "error" holding the redacted message.
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
