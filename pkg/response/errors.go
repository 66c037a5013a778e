package response

// HTTPError is an error that carries the status and code it is reported with.
type HTTPError struct {
	Status  int
	Code    int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

// NewHTTPError returns an HTTPError whose error code equals the status.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Code: status, Message: message}
}
