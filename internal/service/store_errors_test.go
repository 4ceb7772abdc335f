package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/parts-store/internal/repository"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

func TestStoreError(t *testing.T) {
	assert.NoError(t, storeError(nil))

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: repository.ErrNotFound, status: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("find: %w", repository.ErrNotFound), status: http.StatusNotFound},
		{name: "duplicate id", err: repository.ErrDuplicateID, status: http.StatusConflict},
		{name: "connection failure", err: errors.New("dial tcp: connection refused"), status: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, apperrors.ToDomainError(storeError(tc.err)).HTTPStatus)
		})
	}

	cause := errors.New("socket closed")
	assert.ErrorIs(t, storeError(cause), cause)

	validation := apperrors.NewValidationError("bad", nil)
	assert.Same(t, validation, storeError(validation))
}
