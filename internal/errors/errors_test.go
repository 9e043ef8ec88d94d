package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "precondition",
			err:      NewPreconditionError(MsgCredentialsMissing),
			expected: "precondition failed: credentials are not configured",
		},
		{
			name:     "session expired",
			err:      NewSessionExpiredError("home anchor missing"),
			expected: "session expired: home anchor missing",
		},
		{
			name:     "login failed without cause",
			err:      NewLoginFailedError("did not reach home", nil),
			expected: "login failed: did not reach home",
		},
		{
			name:     "login failed with cause",
			err:      NewLoginFailedError("submit", fmt.Errorf("timeout")),
			expected: "login failed: submit: timeout",
		},
		{
			name:     "portal error with cause",
			err:      NewPortalError("waiting for popup", fmt.Errorf("context deadline exceeded")),
			expected: "portal error: waiting for popup: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")

	assert.True(t, stderrors.Is(NewLoginFailedError("x", cause), cause))
	assert.True(t, stderrors.Is(NewPortalError("x", cause), cause))
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsPrecondition(NewPreconditionError(MsgCredentialsMissing)))
	assert.False(t, IsSessionExpired(nil))
	assert.True(t, IsSessionExpired(NewSessionExpiredError("x")))
	assert.True(t, IsLoginFailed(NewLoginFailedError("x", nil)))
	assert.False(t, IsSessionExpired(NewLoginFailedError("x", nil)))

	bad := NewLoginFailedError("rejected", nil)
	bad.InvalidCredentials = true
	assert.True(t, IsInvalidCredentials(bad))
	assert.False(t, IsInvalidCredentials(NewLoginFailedError("x", nil)))
}
