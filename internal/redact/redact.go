// Package redact strips credentials, SQL, file paths and stack traces from
// strings before they reach logs.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	StackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules may remove text later rules
// would otherwise match.
var rules = []rule{
	{
		re:          regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*`),
		replacement: StackPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\b(postgres(?:ql)?|rediss?)://[^@/\s]+@`),
		replacement: "$1://" + CredentialPlaceholder + "@",
	},
	{
		re:          regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)\S+`),
		replacement: "$1$2" + CredentialPlaceholder,
	},
	{
		re:          regexp.MustCompile(`\b(?:SELECT|INSERT INTO|UPDATE|DELETE FROM)\s[^;]*`),
		replacement: SQLPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(/[\w.-]+){2,}`),
		replacement: PathPlaceholder,
	},
}

// String redacts sensitive fragments from s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts the message of err. A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
