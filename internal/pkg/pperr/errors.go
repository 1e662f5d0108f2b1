package pperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeRefreshInFlight     = "REFRESH_IN_FLIGHT"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrRefreshInFlight is returned when a refresh is requested while another one is running.
	ErrRefreshInFlight = New(fiber.StatusConflict, CodeRefreshInFlight, "a dataset refresh is already in progress")

	// ErrUpstreamUnavailable is returned when the upstream data source cannot be read.
	ErrUpstreamUnavailable = New(fiber.StatusBadGateway, CodeUpstreamUnavailable, "upstream data source is unavailable")
)

type Extras map[string]any

type PortalError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *PortalError {
	return &PortalError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e PortalError) Msg(format string, parts ...any) *PortalError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e PortalError) WithExtras(extras Extras) *PortalError {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations any) *PortalError {
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *PortalError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
