package apperror

// AppError is the error type used across the domain and application layers.
// It carries the HTTP status code the API boundary should answer with, so
// feature packages can declare sentinel errors once and handlers map them
// without per-error switch statements.
type AppError struct {
	Code    int    // HTTP status code (e.g., 400, 404, 409)
	Message string // User-facing error message
	Err     error  // Underlying cause, if any (not exposed to the user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a sentinel AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a cause to a sentinel, keeping its code and message.
// The result still matches the sentinel under errors.Is.
func Wrap(sentinel *AppError, cause error) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		Err:     cause,
	}
}

// Is reports whether target is the same sentinel, so wrapped copies produced
// by Wrap compare equal to the original under errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}
