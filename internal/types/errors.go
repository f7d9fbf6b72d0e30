package types

import "fmt"

// Entity names reported by NotFoundError
const (
	EntityApplication = "application"
	EntityUser        = "user"
)

// NotFoundError indicates a referenced application or user does not exist
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ValidationError indicates caller input was rejected before any work was done
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
