package panel

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the session or token was rejected; the caller
	// should log in again and retry.
	ErrUnauthorized = errors.New("panel rejected credentials")
	ErrUserNotFound = errors.New("remote user not found")
	ErrUnsupported  = errors.New("operation not supported by panel")

	// Missing configuration. These fail fast and are never retried.
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrMissingPanelID       = fmt.Errorf("%w: Missing panel_id", ErrMissingConfiguration)
	ErrCredentialsMissing   = fmt.Errorf("%w: credentials missing", ErrMissingConfiguration)
	ErrPanelNotFound        = fmt.Errorf("%w: panel not found", ErrMissingConfiguration)
	ErrUnknownPanelType     = fmt.Errorf("%w: unknown panel type", ErrMissingConfiguration)
)

// RemoteError is a non-2xx response that is neither an auth failure nor a
// missing user.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("panel responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("panel responded with status %d: %s", e.StatusCode, e.Body)
}

// IsMissingConfiguration reports whether err is a fail-fast configuration error.
func IsMissingConfiguration(err error) bool {
	return errors.Is(err, ErrMissingConfiguration)
}
