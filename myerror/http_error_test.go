package myerror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorCodeToStatusCodeMaps(t *testing.T) {
	m := NewErrorCodeToStatusCodeMaps()
	assert.Equal(t, http.StatusBadRequest, m[ErrBadParameter])
	assert.Equal(t, http.StatusNotFound, m[ErrEntityNotFound])
	assert.Equal(t, http.StatusConflict, m[ErrConflict])
	assert.Equal(t, http.StatusUnauthorized, m[ErrInvalidUserOrPassword])
	assert.Equal(t, http.StatusTooManyRequests, m[ErrTooManyRequests])
	assert.Equal(t, http.StatusInternalServerError, m[ErrInternalServerError])
}

func handle(t *testing.T, method string, err error) (*httptest.ResponseRecorder, ErrResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger()).Handler(err, c)
	var body ErrResponse
	if method != http.MethodHead {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	}
	return rec, body
}

func TestHTTPErrorHandler_Handler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "my_error_bad_parameter",
			err:        NewBadParameterError("invalid body", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrBadParameter,
		},
		{
			name:       "my_error_wrapping_echo_error_keeps_code",
			err:        NewBadParameterError("invalid body", echo.NewHTTPError(http.StatusUnsupportedMediaType)),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrBadParameter,
		},
		{
			name:       "my_error_not_found",
			err:        NewEntityNotFoundError("instance not registered", nil),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrEntityNotFound,
		},
		{
			name:       "plain_error_is_internal",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrInternalServerError,
		},
		{
			name:       "echo_not_found",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   ErrEntityNotFound,
		},
		{
			name: "echo_error_with_request_error",
			err: func() error {
				he := echo.NewHTTPError(http.StatusBadRequest, "request body has an error")
				he.Internal = &openapi3filter.RequestError{Err: assert.AnError}
				return he
			}(),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrBadParameter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := handle(t, http.MethodGet, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHTTPErrorHandler_Head_NoBody(t *testing.T) {
	rec, _ := handle(t, http.MethodHead, NewEntityNotFoundError("gone", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRegisterErrorHandler(t *testing.T) {
	e := echo.New()
	RegisterErrorHandler(e, log.NewNopLogger())
	require.NotNil(t, e.HTTPErrorHandler)
}
