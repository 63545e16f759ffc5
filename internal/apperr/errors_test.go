package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("load order: %w", NotFoundf("no order with id %s", "o-1"))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "no order with id o-1", nf.Message)

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestKindsAreDistinct(t *testing.T) {
	var ve *ValidationError
	var ae *AuthorizationError

	err := Authorizationf("not authorized to access this resource")
	assert.False(t, errors.As(err, &ve))
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "not authorized to access this resource", ae.Error())
}
