package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a worker does not answer within the
	// dispatcher's timeout. The input may be fine; retrying can help.
	ErrTimeout = errors.New("task timed out")

	// ErrWorkerExited is returned when a worker stops before answering.
	ErrWorkerExited = errors.New("worker exited")
)

// FaultError reports that the worker itself failed, as opposed to the
// payload being malformed.
type FaultError struct {
	ID  string
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("task %s: worker fault: %v", e.ID, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// InputError carries the message of a response with Success false.
type InputError struct {
	ID      string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}

func IsInput(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
