package validator

// Validator checks a struct against its validation tags.
type Validator interface {
	// Validate returns nil when data passes all of its declared rules.
	Validate(data any) error
}
