package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataMapping(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeConfiguration, http.StatusInternalServerError},
		{CodeConflict, http.StatusConflict},
		{CodeIssuance, http.StatusBadGateway},
		{CodeNotFound, http.StatusNotFound},
		{CodeDependency, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, MetadataFor(tc.code).HTTPStatus, "code %s", tc.code)
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("status 500: permission denied")
	err := Wrap(CodeIssuance, cause, "license insert rejected")

	require.NotNil(t, err)
	assert.Equal(t, CodeIssuance, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeConfiguration, nil, "missing service key")
	require.NotNil(t, err)
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "CONFIGURATION_ERROR: missing service key", err.Error())
}

func TestAsFindsCodedErrorInChain(t *testing.T) {
	inner := New(CodeConflict, "license key already exists")
	wrapped := fmt.Errorf("persist: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeConflict, typed.Code())

	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestHasCode(t *testing.T) {
	err := New(CodeConflict, "dup")
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeIssuance))
	assert.False(t, HasCode(nil, CodeConflict))
	assert.False(t, HasCode(stdErrors.New("plain"), CodeConflict))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeIssuance, "rejected").WithDetails(map[string]any{"status": 500})
	details, ok := err.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 500, details["status"])
}
