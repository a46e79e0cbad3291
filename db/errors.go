package db

// QueryError wraps a driver error with the statement that caused it.
type QueryError struct {
	Err     error
	SQL     string
	Args    []any
	Message string
}

func (e *QueryError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a QueryError.
func NewQueryError(err error, query string, args []any, message string) *QueryError {
	return &QueryError{
		Err:     err,
		SQL:     query,
		Args:    args,
		Message: message,
	}
}
