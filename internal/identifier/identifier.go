// Package identifier generates the per-invocation identifier and the object
// key derived from it.
package identifier

import "github.com/google/uuid"

const objectKeySuffix = ".txt"

// Generator returns a fresh identifier on every call.
type Generator func() string

// New returns a random (version 4) UUID in its canonical 36 character form.
func New() string {
	return uuid.NewString()
}

// ObjectKey is the object store key an identifier is written under.
func ObjectKey(id string) string {
	return id + objectKeySuffix
}

// Valid reports whether id parses as a UUID.
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
