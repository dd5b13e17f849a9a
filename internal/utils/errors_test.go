package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", E(CodeInvalidArgument, "op", "bad", nil), http.StatusBadRequest},
		{"unauthorized", E(CodeUnauthorized, "op", "no", nil), http.StatusUnauthorized},
		{"not found", NotFoundOrDenied("op", "application"), http.StatusNotFound},
		{"conflict", E(CodeConflict, "op", "dup", nil), http.StatusConflict},
		{"unavailable", E(CodeUnavailable, "op", "down", nil), http.StatusServiceUnavailable},
		{"internal", E(CodeInternal, "op", "boom", nil), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", E(CodeConflict, "op", "dup", nil)), http.StatusConflict},
		{"bare sentinel", ErrNotFound, http.StatusNotFound},
		{"plain error", errors.New("x"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := E(CodeInternal, "ApplicationService.Get", "failed to get application", ErrNotFound)
	assert.Equal(t, "ApplicationService.Get: failed to get application: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsCode(err, CodeInternal))
	assert.False(t, IsCode(err, CodeNotFound))

	denied := NotFoundOrDenied("ActivityService.Get", "activity")
	assert.Equal(t, "ActivityService.Get: activity not found or access denied", denied.Error())
}
