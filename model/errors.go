package model

import "fmt"

// ConfigError reports an invalid or missing configuration value.
// It is fatal and aborts startup.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %v: %v", e.Key, e.Message)
}

// ValidationError rejects bad client input before any external call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or empty field %v", e.Field)
}

// EmbeddingServiceError covers an unreachable embeddings endpoint, a
// non-success status and a response without an embedding field.
type EmbeddingServiceError struct {
	Operation string
	Err       error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embeddings service error in %v: %v", e.Operation, e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError reports an embedding vector whose length does not
// equal the configured dimension. Mismatches are never truncated or padded.
type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("unexpected embedding dimension: %v != %v", e.Got, e.Want)
}

// GenerationError reports a failed answer generation call. It is never
// fatal; the synthesizer downgrades it into the Answer.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failed chunk store operation.
type StorageError struct {
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %v: %v", e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
