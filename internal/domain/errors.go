package domain

import "errors"

// Closed set of failure kinds surfaced by the API client and the account store.
// Callers wrap these with fmt.Errorf("...: %w") and classify with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransient    = errors.New("transient failure")
	ErrMalformed    = errors.New("malformed data")
	ErrPersistence  = errors.New("persistence failure")
)

// IsFatal reports whether err should abort a whole polling cycle.
// Only credential failures qualify since every account shares the API key.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// ErrorKind names the kind of err for logging, "unknown" for unclassified errors.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrTransient):
		return "transient"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}
