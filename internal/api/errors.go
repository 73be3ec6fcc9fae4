package api

import "fmt"

// TransportError indicates a failed exchange with the backend: a non-2xx
// response or a network-level failure. Message carries the backend's error
// text when one could be extracted from the body.
type TransportError struct {
	Op      string // operation name, e.g. "submit"
	Status  int    // HTTP status; 0 for network failures
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError indicates a 2xx response whose body did not match
// the expected shape. It is raised at the boundary so duck-typed payloads
// never reach the data model.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
