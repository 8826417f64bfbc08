package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/flrdepot/crm-backend/internal/logger"
	"github.com/flrdepot/crm-backend/internal/middleware"
	"github.com/flrdepot/crm-backend/internal/reqctx"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

var kindStatus = map[service.Kind]int{
	service.KindValidation: http.StatusBadRequest,
	service.KindNotFound:   http.StatusNotFound,
	service.KindForbidden:  http.StatusForbidden,
	service.KindConflict:   http.StatusConflict,
	service.KindAuth:       http.StatusUnauthorized,
	service.KindStorage:    http.StatusInternalServerError,
}

// writeError maps a service error to its HTTP status. Storage causes are logged, never returned.
func writeError(c echo.Context, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindStorage, Message: "storage failure", Err: err}
	}
	status, ok := kindStatus[se.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("request_id", reqctx.RequestID(c.Request().Context())),
			zap.Error(err))
		return c.JSON(status, NewErrorResponse(string(service.KindStorage), "internal error"))
	}
	return c.JSON(status, NewErrorResponse(string(se.Kind), se.Message))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, NewErrorResponse(string(service.KindValidation), msg))
}

func identity(c echo.Context) (service.Identity, bool) {
	return middleware.IdentityFrom(c)
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing identity"))
}

func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// bind decodes and validates the request body into dst.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		return err
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatTime(*t)
	return &v
}
