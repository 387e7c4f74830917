package validator

// Validator validates a struct and returns a descriptive error when any rule
// fails.
type Validator interface {
	Validate(data any) error
}
