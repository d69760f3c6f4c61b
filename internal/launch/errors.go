package launch

// ErrorKind classifies launch resolution failures.
type ErrorKind string

const (
	ErrorReadFailed    ErrorKind = "read_failed"
	ErrorParseFailed   ErrorKind = "parse_failed"
	ErrorIncludeFailed ErrorKind = "include_failed"
)

// Error is a structured failure while resolving one launch description.
type Error struct {
	Kind    ErrorKind
	File    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.File + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}
