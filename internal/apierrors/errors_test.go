package apierrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	err := NewErrEmailIsTaken()
	assert.Equal(t, "user already exists", err.Error())
	assert.Equal(t, KindAlreadyExists, err.Kind)
	assert.Equal(t, "email_taken", err.Code)
}

func TestAsAPIError(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		apiErr, ok := AsAPIError(NewErrInvalidCredentials())
		require.True(t, ok)
		assert.Equal(t, KindPermissionDenied, apiErr.Kind)
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("login failed: %w", NewErrInvalidRefreshToken())
		apiErr, ok := AsAPIError(wrapped)
		require.True(t, ok)
		assert.Equal(t, "invalid_refresh_token", apiErr.Code)
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := AsAPIError(errors.New("boom"))
		assert.False(t, ok)
	})
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	unknownEmail := NewErrInvalidCredentials()
	wrongPassword := NewErrInvalidCredentials()

	assert.Equal(t, unknownEmail.Kind, wrongPassword.Kind)
	assert.Equal(t, unknownEmail.Code, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Message, wrongPassword.Message)
}
