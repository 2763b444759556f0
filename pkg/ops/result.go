package ops

import "fmt"

// Status is the outcome class of an operator execution.
type Status int

const (
	StatusFinished  Status = iota // the operator completed its action
	StatusCancelled               // the operator exited without doing anything
	StatusRunning                 // the operator is still running (modal)
)

func (s Status) String() string {
	switch s {
	case StatusFinished:
		return "finished"
	case StatusCancelled:
		return "cancelled"
	case StatusRunning:
		return "running"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Severity classifies an operator's report message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Result is the structured outcome of an operator execution. Messages are
// single-line and human-readable; there are no structured error codes.
type Result struct {
	Status   Status
	Severity Severity
	Message  string
}

// Finished is the plain success result.
func Finished() Result {
	return Result{Status: StatusFinished}
}

// Cancel reports an informational no-op: nothing qualified for the
// operation, and the tree was left untouched.
func Cancel(message string) Result {
	return Result{Status: StatusCancelled, Severity: SeverityInfo, Message: message}
}

// Failed reports a precondition failure. The tree was left untouched.
func Failed(message string) Result {
	return Result{Status: StatusCancelled, Severity: SeverityError, Message: message}
}
