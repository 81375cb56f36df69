package errors

import (
	stderrors "errors"
	"fmt"
)

// Action - что пользователь может сделать после ошибки
type Action string

const (
	ActionNone         Action = "none"
	ActionRetry        Action = "retry"
	ActionOpenSettings Action = "open_settings"
)

type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Action  Action                 `json:"action"`
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, action Action) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Action:  action,
		Details: make(map[string]interface{}),
	}
}

// WithDetails returns a copy carrying details; the receiver is not modified.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	c := *e
	c.Details = make(map[string]interface{}, len(e.Details)+len(details))
	for k, v := range e.Details {
		c.Details[k] = v
	}
	for k, v := range details {
		c.Details[k] = v
	}
	return &c
}

// Wrap returns a copy of e with err as its cause.
func (e *AppError) Wrap(err error) *AppError {
	c := *e
	c.cause = err
	return &c
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Retryable reports whether the suggested action is a retry.
func (e *AppError) Retryable() bool {
	return e.Action == ActionRetry
}

// As extracts an AppError from err's chain. Anything else maps to ErrUnknown.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.Wrap(err)
}
