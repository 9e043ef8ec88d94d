// Package errors provides the typed error taxonomy for the portal
// automation engine.
//
// Errors fall into four groups with different recovery strategies:
//   - Precondition errors (missing credentials, unverified login): fail fast,
//     no browser interaction has happened yet.
//   - Session errors (expired session, login failure): recoverable by
//     re-login, then by a full browser restart.
//   - Portal errors (navigation, element waits, form submission): retried
//     once at the session level with a full reset.
//   - Business rejections (the portal's own validation messages): expected
//     outcomes, classified into state rather than thrown where possible.
package errors

import "fmt"

// MsgCredentialsMissing is the fixed precondition message for a missing
// username or password. It is part of the engine's contract with the caller
// and must not change between attempts.
const MsgCredentialsMissing = "credentials are not configured"

// PreconditionError indicates the caller asked for a privileged operation
// without satisfying its prerequisites. No browser interaction has occurred.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// NewPreconditionError creates a precondition error with a fixed message.
func NewPreconditionError(msg string) *PreconditionError {
	return &PreconditionError{Message: msg}
}

// SessionExpiredError indicates the portal dropped the authenticated session
// and the current page has degraded to the login screen or an expiry banner.
//
// Recovery strategy: re-login, then restart the browser if that also fails.
type SessionExpiredError struct {
	Message string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %s", e.Message)
}

// NewSessionExpiredError creates a session expired error with context.
func NewSessionExpiredError(msg string) *SessionExpiredError {
	return &SessionExpiredError{Message: msg}
}

// LoginFailedError indicates a login attempt did not reach the home screen.
//
// InvalidCredentials is set when the portal's own validator produced its
// known invalid-credentials phrase, which is a business rejection rather
// than a transport failure and should not trigger a browser restart.
type LoginFailedError struct {
	Message            string
	InvalidCredentials bool
	Err                error
}

func (e *LoginFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("login failed: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection.
func (e *LoginFailedError) Unwrap() error {
	return e.Err
}

// NewLoginFailedError creates a login failed error with context.
func NewLoginFailedError(msg string, err error) *LoginFailedError {
	return &LoginFailedError{Message: msg, Err: err}
}

// PortalError wraps failures while driving the portal: navigation timeouts,
// element waits, postback drains, form fills.
//
// Recovery strategy: one retry after a full session teardown; per-date
// operations instead skip the date and continue.
type PortalError struct {
	Message string
	Err     error
}

func (e *PortalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("portal error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("portal error: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection.
func (e *PortalError) Unwrap() error {
	return e.Err
}

// NewPortalError creates a portal error with context.
func NewPortalError(msg string, err error) *PortalError {
	return &PortalError{Message: msg, Err: err}
}

// IsPrecondition checks if the error is a precondition error.
func IsPrecondition(err error) bool {
	_, ok := err.(*PreconditionError)
	return ok
}

// IsSessionExpired checks if the error is a session expired error.
func IsSessionExpired(err error) bool {
	_, ok := err.(*SessionExpiredError)
	return ok
}

// IsLoginFailed checks if the error is a login failure error.
func IsLoginFailed(err error) bool {
	_, ok := err.(*LoginFailedError)
	return ok
}

// IsInvalidCredentials checks if the error is a login failure caused by the
// portal rejecting the supplied credentials.
func IsInvalidCredentials(err error) bool {
	le, ok := err.(*LoginFailedError)
	return ok && le.InvalidCredentials
}
