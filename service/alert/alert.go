// Package alert turns backend failures into user-facing alerts.
package alert

import (
	"errors"
	"fmt"

	"github.com/viant/certify/service/hub"
)

// Variant is the alert severity as rendered by the console.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantDanger  Variant = "danger"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

// Alert is a titled notification with optional description.
type Alert struct {
	Title       string  `json:"title"`
	Variant     Variant `json:"variant"`
	Description string  `json:"description,omitempty"`
}

func (a *Alert) Error() string {
	if a.Description == "" {
		return a.Title
	}
	return a.Title + " " + a.Description
}

// Success creates a success alert
func Success(title string) *Alert {
	return &Alert{Title: title, Variant: VariantSuccess}
}

// Danger creates a danger alert
func Danger(title, description string) *Alert {
	return &Alert{Title: title, Variant: VariantDanger, Description: description}
}

// ErrorMessage maps a status code onto the console copy. A non-empty custom
// message replaces the per-status text.
func ErrorMessage(status int, statusText string, custom ...string) string {
	prefix := fmt.Sprintf("Error %d - %s", status, statusText)
	if len(custom) > 0 && custom[0] != "" {
		return prefix + ": " + custom[0]
	}
	switch status {
	case 500:
		return prefix + ": The server encountered an error and was unable to complete your request."
	case 401:
		return prefix + ": You do not have the required permissions to proceed with this request. Please contact the server administrator for elevated permissions."
	case 403:
		return prefix + ": Forbidden: You do not have the required permissions to proceed with this request. Please contact the server administrator for elevated permissions."
	case 404:
		return prefix + ": The server could not find the requested URL."
	case 400:
		return prefix + ": The server was unable to complete your request."
	}
	return prefix
}

// Describe renders err as alert description: hub errors go through
// ErrorMessage, embedded alerts use their description, anything else is
// stringified.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if hubErr, ok := hub.AsError(err); ok {
		return ErrorMessage(hubErr.Status, hubErr.StatusText)
	}
	var anAlert *Alert
	if errors.As(err, &anAlert) {
		if anAlert.Description != "" {
			return anAlert.Description
		}
		return anAlert.Title
	}
	return err.Error()
}

// Error carries the alert to show for a failed operation and its cause.
type Error struct {
	Alert *Alert
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Alert.Error()
	}
	return e.Alert.Title + " " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap builds an Error titled title whose description is derived from err.
func Wrap(title string, err error) *Error {
	return &Error{Alert: Danger(title, Describe(err)), Err: err}
}

// From returns the alert carried by err, if any.
func From(err error) (*Alert, bool) {
	var alertErr *Error
	if errors.As(err, &alertErr) {
		return alertErr.Alert, true
	}
	var anAlert *Alert
	if errors.As(err, &anAlert) {
		return anAlert, true
	}
	return nil, false
}
