// Package apierr defines the error vocabulary exposed on the wire. Every
// failure a handler can surface maps onto one of these codes; anything
// else is reported as InternalError so storage details never leak.
package apierr

import (
	"fmt"
	"net/http"
	"strings"
)

type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Missing zones and zones owned by someone else both surface as
// AccessDenied, so probing for other tenants' zone keys reveals nothing.
var (
	AccessDenied = &Error{
		Code:    "AccessDenied",
		Status:  http.StatusForbidden,
		Message: "Access Denied",
	}

	InvalidInput = &Error{
		Code:    "InvalidInput",
		Status:  http.StatusBadRequest,
		Message: "The input is not valid",
	}

	InvalidDomainName = &Error{
		Code:    "InvalidDomainName",
		Status:  http.StatusBadRequest,
		Message: "The domain name is not valid",
	}

	HostedZoneAlreadyExists = &Error{
		Code:    "HostedZoneAlreadyExists",
		Status:  http.StatusConflict,
		Message: "The hosted zone already exists",
	}

	MissingAuthenticationToken = &Error{
		Code:    "MissingAuthenticationToken",
		Status:  http.StatusForbidden,
		Message: "Missing Authentication Token",
	}

	InternalError = &Error{
		Code:    "InternalError",
		Status:  http.StatusInternalServerError,
		Message: "Internal Error",
	}
)

// ChangeBatchError carries every validation problem found in a record
// change batch. The whole batch is checked before anything is applied,
// so the caller sees all problems at once.
type ChangeBatchError struct {
	Messages []string
}

func (e *ChangeBatchError) Error() string {
	return "InvalidChangeBatch: " + strings.Join(e.Messages, "; ")
}
