package flashcard

import "fmt"

// ServiceError wraps failures from the flashcard service with the operation
// that produced them. Sentinel errors underneath stay reachable through
// errors.Is.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newGradeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "grade", Message: message, Err: err}
}

func newCreateError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "create_for_essay", Message: message, Err: err}
}

func newListDueError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "list_due", Message: message, Err: err}
}
