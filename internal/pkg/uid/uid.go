package uid

// StringID generates unique string identifiers.
type StringID interface {
	// Generate returns a new unique string identifier.
	Generate() string
}

// NumberID generates unique int64 identifiers.
type NumberID interface {
	// Generate returns a new unique int64 identifier.
	Generate() int64
}
