// Package view shapes the JSON envelope every HTTP endpoint answers with.
package view

import (
	"net/http"

	"github.com/dwarvesf/arkswap/internal/errs"
)

type Response[T any] struct {
	Data    T            `json:"data"`
	Message string       `json:"message,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Request any          `json:"request,omitempty"`
}

type ErrorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
	// SwapID is set on funding failures: the swap exists remotely and can be refunded.
	SwapID string `json:"swap_id,omitempty"`
}

// ErrorResponse and MessageResponse exist for the swagger annotations.
type ErrorResponse struct {
	Data    any         `json:"data"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

type MessageResponse struct {
	Data    string `json:"data"`
	Message string `json:"message"`
}

// CreateResponse builds the envelope. req is echoed back only when err is set.
func CreateResponse[T any](data T, err error, req any, message string) Response[T] {
	resp := Response[T]{
		Data:    data,
		Message: message,
	}
	if err == nil {
		return resp
	}

	resp.Request = req
	detail := &ErrorDetail{Code: errs.CodeOf(err), Message: err.Error()}
	if e, ok := errs.From(err); ok {
		// remote messages are surfaced as the service wrote them
		if e.Code() == errs.CodeRemote && e.Message() != "" {
			detail.Message = e.Message()
		}
		detail.SwapID = e.SwapID
	}
	resp.Error = detail
	return resp
}

// StatusCode maps an error to the HTTP status the API answers with.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch errs.CodeOf(err) {
	case errs.CodeInvalidArgument:
		return http.StatusBadRequest
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeTimeout:
		return http.StatusGatewayTimeout
	case errs.CodeNotAvailable:
		return http.StatusConflict
	case errs.CodeFunding:
		return http.StatusBadGateway
	case errs.CodeRemote:
		e, _ := errs.From(err)
		switch {
		case e.StatusCode == http.StatusServiceUnavailable:
			return http.StatusServiceUnavailable
		case e.StatusCode >= 400 && e.StatusCode < 500:
			// the service rejected what the caller sent
			return e.StatusCode
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}
