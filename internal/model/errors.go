package model

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned before any network call when the user gave no claim or image
var ErrEmptyInput = errors.New("empty input")

// Service names used in errors and logs
const (
	ServiceFactCheck     = "fact-check"
	ServiceImageAnalysis = "image-analysis"
	ServiceKnowledgeBase = "knowledge-base"
)

// TransportError means a service could not be reached or answered with something unusable
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceReportedError carries an application-level error reported by the service itself
type ServiceReportedError struct {
	Service string
	Message string
}

func (e *ServiceReportedError) Error() string {
	return fmt.Sprintf("%s reported: %s", e.Service, e.Message)
}

// IsTransport reports whether err is a TransportError for any service
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
