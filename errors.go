package textsplit

import "errors"

// Sentinel errors returned by splitter constructors and split operations.
// Call sites wrap them with fmt.Errorf and %w, so errors.Is works on the
// returned values.
var (
	// ErrInvalidChunkSize indicates a non-positive chunk or window size.
	ErrInvalidChunkSize = errors.New("textsplit: chunk size must be greater than zero")

	// ErrInvalidChunkOverlap indicates an overlap that is negative or not
	// smaller than the chunk size.
	ErrInvalidChunkOverlap = errors.New("textsplit: chunk overlap must be non-negative and smaller than chunk size")

	// ErrUnknownLanguage indicates a language preset this package does not ship.
	ErrUnknownLanguage = errors.New("textsplit: unknown language preset")

	// ErrNoTokenizer indicates that no tokenizer was injected and the default
	// token encoding could not be resolved.
	ErrNoTokenizer = errors.New("textsplit: tokenizer unavailable")

	// ErrUnknownStrategy indicates a Strategy value Split does not recognize.
	ErrUnknownStrategy = errors.New("textsplit: unknown split strategy")

	// ErrNotStructured indicates input that is not a structured mapping, for
	// example a JSON document whose top-level value is not an object.
	ErrNotStructured = errors.New("textsplit: input is not a structured mapping")
)
