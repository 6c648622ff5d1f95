package myerror

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// RegisterErrorHandler installs the edgemesh JSON error handler on e.
func RegisterErrorHandler(e *echo.Echo, logger log.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), logger).Handler
}

// NewErrorCodeToStatusCodeMaps creates an error code to http status mapping.
func NewErrorCodeToStatusCodeMaps() map[string]int {
	return map[string]int{
		ErrBadParameter:          http.StatusBadRequest,
		ErrEntityNotFound:        http.StatusNotFound,
		ErrConflict:              http.StatusConflict,
		ErrInvalidUserOrPassword: http.StatusUnauthorized,
		ErrTooManyRequests:       http.StatusTooManyRequests,
		ErrInternalServerError:   http.StatusInternalServerError,
	}
}

// HTTPErrorHandler converts handler errors into ErrResponse bodies.
type HTTPErrorHandler struct {
	errorCodeToHTTPStatusCodeMap map[string]int
	logger                       log.Logger
}

// NewHTTPErrorHandler creates a new instance of the HTTPErrorHandler.
func NewHTTPErrorHandler(errorCodeToStatusCodeMaps map[string]int, logger log.Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		errorCodeToHTTPStatusCodeMap: errorCodeToStatusCodeMaps,
		logger:                       logger,
	}
}

func (h *HTTPErrorHandler) getStatusCode(errorCode string) int {
	if status, ok := h.errorCodeToHTTPStatusCodeMap[errorCode]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Handler handles errors returned by echo handlers and middleware. Echo's own HTTP errors keep
// their status; an attached kin-openapi RequestError turns the code into bad_parameter.
func (h *HTTPErrorHandler) Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var statusCode int
	var he *echo.HTTPError
	myErr := ToMyError(err)
	switch {
	case myErr != nil:
		statusCode = h.getStatusCode(myErr.Code)
	case errors.As(err, &he):
		code := ErrInternalServerError
		switch he.Code {
		case http.StatusNotFound:
			code = ErrEntityNotFound
		case http.StatusBadRequest, http.StatusMethodNotAllowed:
			code = ErrBadParameter
		}
		var requestError *openapi3filter.RequestError
		if errors.As(he.Internal, &requestError) {
			code = ErrBadParameter
		}
		m, _ := he.Message.(string)
		myErr = NewMyError(code, m, err)
		statusCode = he.Code
	default:
		myErr = NewMyError(ErrInternalServerError, "an internal server error has occurred", err)
		statusCode = http.StatusInternalServerError
	}

	if statusCode >= http.StatusInternalServerError {
		level.Error(h.logger).Log("msg", "HTTP request error", "path", c.Request().URL.Path, "err", err)
	} else {
		level.Info(h.logger).Log("msg", "HTTP request rejected", "path", c.Request().URL.Path, "code", myErr.Code, "err", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(statusCode)
		return
	}
	_ = c.JSON(statusCode, ErrResponse{Error: myErr})
}

// ErrResponse from server.
type ErrResponse struct {
	Error *MyError `json:"error,omitempty"`
}
