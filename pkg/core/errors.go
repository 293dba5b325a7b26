package core

import (
	"errors"
	"fmt"
)

// FaultKind tags the failure modes a request can degrade into, so callers
// can tell a retryable transport fault from a terminal application error.
type FaultKind int

const (
	// FaultTransport covers connection errors, timeouts and redirect loops.
	FaultTransport FaultKind = iota
	// FaultDecode covers response bodies that are not valid JSON when JSON
	// was requested.
	FaultDecode
	// FaultApplication covers error envelopes reported by the exchange.
	FaultApplication
)

// String returns the string representation of the fault kind.
func (k FaultKind) String() string {
	return [...]string{"TRANSPORT", "DECODE", "APPLICATION"}[k]
}

// RequestError is the uniform failure value raised when an exchange reports
// an error envelope, regardless of which envelope convention it used.
type RequestError struct {
	// URL is the fully-constructed request URL.
	URL string `json:"url"`
	// Code is the exchange-reported error code, taken verbatim.
	Code int64 `json:"code"`
	// Msg is the exchange-reported message, taken verbatim.
	Msg string `json:"msg"`
}

// Error implements the error interface for RequestError.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %q failed: code=%d msg=%s", e.URL, e.Code, e.Msg)
}

// Fault wraps a request failure with its kind and the URL it occurred on.
type Fault struct {
	Kind FaultKind
	URL  string
	Err  error
}

// NewFault creates a Fault of the given kind wrapping err.
func NewFault(kind FaultKind, url string, err error) *Fault {
	return &Fault{Kind: kind, URL: url, Err: err}
}

// Error implements the error interface for Fault.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s fault: %v", f.Kind, f.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (f *Fault) Unwrap() error {
	return f.Err
}

// IsTransportFault returns true if err is a network-layer failure.
// Transport faults are typically retryable.
func IsTransportFault(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == FaultTransport
}

// IsDecodeFault returns true if err came from an undecodable response body.
func IsDecodeFault(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == FaultDecode
}

// IsApplicationFault returns true if err is an exchange-reported error.
// Application faults are terminal and should not be retried.
func IsApplicationFault(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == FaultApplication
}

// AsRequestError extracts the exchange-reported error detail, if any.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
