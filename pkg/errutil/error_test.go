package errutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestConstructorsKeepCause(t *testing.T) {
	err := NotFound("customer 1 not found", errSentinel, WithReason("NOT_FOUND"))

	require.ErrorIs(t, err, errSentinel)
	require.Equal(t, StatusNotFound, StatusOf(err))

	var be BaseError
	require.True(t, errors.As(err, &be))
	require.Equal(t, "NOT_FOUND", be.Reason)
	require.Equal(t, "[NOT_FOUND] customer 1 not found: sentinel", be.Error())
}

func TestFromErrorWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("email already registered", nil))
	be := FromError(err)
	require.Equal(t, StatusConflict, be.Code)
	require.Equal(t, http.StatusConflict, be.Code.HTTPStatus())
}

func TestFromErrorContext(t *testing.T) {
	require.Equal(t, StatusTimeout, FromError(context.DeadlineExceeded).Code)
	require.Equal(t, StatusClientClosedRequest, FromError(context.Canceled).Code)
	require.Equal(t, StatusInternal, FromError(errors.New("boom")).Code)
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[CoreStatus]int{
		StatusBadRequest:          http.StatusBadRequest,
		StatusNotFound:            http.StatusNotFound,
		StatusUnprocessableEntity: http.StatusUnprocessableEntity,
		StatusBadGateway:          http.StatusBadGateway,
		StatusTimeout:             http.StatusGatewayTimeout,
		StatusServiceUnavailable:  http.StatusServiceUnavailable,
		StatusUnknown:             http.StatusInternalServerError,
	}
	for status, want := range cases {
		require.Equal(t, want, status.HTTPStatus(), status)
	}
}

func TestJSONIncludesReason(t *testing.T) {
	be := FromError(UnprocessableEntity("insufficient balance", nil, WithReason("INSUFFICIENT_BALANCE")))
	body := be.JSON().(map[string]interface{})["error"].(map[string]interface{})
	require.Equal(t, "INSUFFICIENT_BALANCE", body["reason"])
	require.Equal(t, StatusUnprocessableEntity, body["code"])
}
