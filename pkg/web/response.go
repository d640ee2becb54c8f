// Package web defines common components for a web application.
package web

import "github.com/go-playground/validator/v10"

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into a json friendly response.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns a human readable message for a failed binding validation.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return " field value is below the allowed minimum"
	case "max":
		return " field value is above the allowed maximum"
	case "transactiontype":
		return " field must be a recognized transaction type"
	case "sequencekind":
		return " field must be a recognized sequence kind"
	}

	return " field is invalid"
}
