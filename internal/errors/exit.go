package errors

// ExitError carries a process exit code alongside an error.
// The command layer returns it; main unwraps it and exits with Code.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed indicates the command layer already printed the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and cause.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}
