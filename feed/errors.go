package feed

import "fmt"

// FetchErrorKind classifies upstream fetch failures.
type FetchErrorKind int

const (
	FetchTimeout FetchErrorKind = iota
	FetchUnreachable
	FetchUpstreamStatus
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchTimeout:
		return "timeout"
	case FetchUnreachable:
		return "unreachable"
	case FetchUpstreamStatus:
		return "upstream_status"
	}
	return "unknown"
}

// FetchError is returned by transports and the acquirer's live path. It is
// always absorbed at the acquirer boundary and converted into a degraded
// snapshot; callers of the service never see it.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchUpstreamStatus:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	case FetchTimeout:
		return fmt.Sprintf("fetch %s: timeout", e.URL)
	default:
		return fmt.Sprintf("fetch %s: unreachable: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeErrorKind classifies envelope-level decode failures.
type DecodeErrorKind int

const (
	DecodeMalformed DecodeErrorKind = iota
	DecodeSchemaViolation
)

func (k DecodeErrorKind) String() string {
	if k == DecodeSchemaViolation {
		return "schema_violation"
	}
	return "malformed"
}

// DecodeError means the feed envelope could not be parsed. Fatal for the
// cycle; individual bad entities within a good envelope are skipped instead.
type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
