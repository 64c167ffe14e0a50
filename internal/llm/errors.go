package llm

import "strings"

// errorKind categorizes a backend failure for retry and fallback decisions.
type errorKind int

const (
	errOther errorKind = iota
	errRateLimited
	errAuthConfig
)

// classifyError inspects the backend error text. Rate limiting is signaled
// by an HTTP 429 or an explicit resource-exhaustion status; auth and
// configuration problems by api/key/invalid wording. The rate-limit check
// runs first so a "429 invalid api key quota" style message still retries.
func classifyError(err error) errorKind {
	if err == nil {
		return errOther
	}
	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "429") || strings.Contains(msg, "resource_exhausted") {
		return errRateLimited
	}
	if strings.Contains(msg, "api") || strings.Contains(msg, "key") || strings.Contains(msg, "invalid") {
		return errAuthConfig
	}
	return errOther
}
