// Package auth implements the login and session-liveness state machine for
// the portal. It decides what kind of page the browser is looking at,
// performs form logins, and classifies the portal's rejection messages.
package auth

import "strings"

// PageState is the liveness classification of the current page.
type PageState string

const (
	// StateLoginPage: the login form is showing, or the DOM has degraded to
	// the point where we must assume it is (home anchor missing).
	StateLoginPage PageState = "login_page"
	// StateAuthenticatedFresh: home link present, this process has not yet
	// verified a login.
	StateAuthenticatedFresh PageState = "authenticated_fresh"
	// StateAuthenticatedBootstrapped: verified earlier in this process.
	StateAuthenticatedBootstrapped PageState = "authenticated_bootstrapped"
	// StateExpired: the server says the session expired without redirecting.
	StateExpired PageState = "expired"
)

// Status is the outcome of the most recent explicit login or session check.
// It must be re-evaluated before any submission operation.
type Status string

const (
	StatusNotVerified  Status = "not_verified"
	StatusSuccessful   Status = "successful"
	StatusUnsuccessful Status = "unsuccessful"
)

// LoginState pairs a status with a human-readable message.
type LoginState struct {
	Status  Status
	Message string
}

// PortalInvalidCredsPhrase is the literal prompt the portal's validator
// shows when it rejects a username/password pair.
const PortalInvalidCredsPhrase = "Invalid User Name or Password."

// genericInvalidCredsMsg is shown on a first-ever rejection, where a typo in
// the stored password is the most likely cause.
const genericInvalidCredsMsg = "login rejected: check your username and password"

// IsInvalidCredsText reports whether validator text is the portal's
// invalid-credentials rejection rather than some other validation failure.
func IsInvalidCredsText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "invalid") &&
		(strings.Contains(lower, "password") || strings.Contains(lower, "user"))
}

// InvalidCredsMessage picks the user-facing message for an
// invalid-credentials rejection. Once a session has succeeded in this
// process, the same rejection more likely means a concurrent-session
// kick-out than a typo, so the portal's own literal prompt is surfaced and
// the caller is expected to suggest re-checking rather than assume the
// stored password is wrong.
func InvalidCredsMessage(everSucceeded bool) string {
	if everSucceeded {
		return PortalInvalidCredsPhrase
	}
	return genericInvalidCredsMsg
}
