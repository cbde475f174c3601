package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("traffic limit below current usage", "limit=10 usage=20")
	assert.Equal(t, "validation_error: traffic limit below current usage (limit=10 usage=20)", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.Code)

	err = NewNotFoundError("config not found")
	assert.Equal(t, "not_found: config not found", err.Error())
}

func TestTypeChecks_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("use case: %w", NewConflictError("version mismatch"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql", fmt.Errorf("Error 1062: Duplicate entry 'tx-1' for key 'reference'"), true},
		{"sqlite", fmt.Errorf("UNIQUE constraint failed: wallet_transactions.reference"), true},
		{"other", fmt.Errorf("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateError(tt.err))
		})
	}
}
