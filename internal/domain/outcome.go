package domain

import "errors"

// Status is the binary result of a run.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusFailure {
		return "failure"
	}
	return "success"
}

// ExitCode maps the status to the process exit code.
func (s Status) ExitCode() int {
	if s == StatusFailure {
		return 1
	}
	return 0
}

// Outcome is what a pipeline stage returns when it stops the run early.
type Outcome struct {
	Status  Status
	Message string
}

func Succeed(msg string) *Outcome { return &Outcome{Status: StatusSuccess, Message: msg} }
func Fail(msg string) *Outcome    { return &Outcome{Status: StatusFailure, Message: msg} }

var (
	// ErrReportNotFound is returned when no coverage report exists at the resolved path.
	ErrReportNotFound = errors.New("coverage report not found")
	// ErrMalformedReport is returned when the report document cannot be parsed.
	ErrMalformedReport = errors.New("malformed coverage report")
)
