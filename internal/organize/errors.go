package organize

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a provider failure at the point of detection so the
// retry controller never has to re-derive intent from message text.
type ErrorKind string

const (
	// KindConfig: a required credential or setting is missing. Terminal.
	KindConfig ErrorKind = "config"
	// KindAuth: the provider rejected the credential (401/403). Terminal.
	KindAuth ErrorKind = "auth"
	// KindRateLimited: 429 family. Retried with a longer backoff floor.
	KindRateLimited ErrorKind = "rate_limited"
	// KindUnavailable: upstream outage (5xx) or connection failure.
	KindUnavailable ErrorKind = "unavailable"
	// KindBadResponse: the provider answered but the payload was unusable.
	KindBadResponse ErrorKind = "bad_response"
	// KindUnknown: anything else. Retried with the generic backoff.
	KindUnknown ErrorKind = "unknown"
)

// ProviderError is the tagged failure every adapter raises.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int // HTTP status when available, else 0
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Provider, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// kindForStatus maps an HTTP status to an error kind. Adapters call this
// where they inspect the response, keeping classification at the source.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

func errKind(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// isTerminal reports whether err is never worth retrying.
func isTerminal(err error) bool {
	k := errKind(err)
	return k == KindAuth || k == KindConfig
}

func isRateLimited(err error) bool {
	return errKind(err) == KindRateLimited
}

// isFallbackTrigger reports whether err looks like an upstream outage or rate
// limit, the cases where switching providers for the current chunk can help.
func isFallbackTrigger(err error) bool {
	k := errKind(err)
	return k == KindUnavailable || k == KindRateLimited
}
