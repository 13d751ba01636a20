// Package identifier generates and validates transaction identifiers.
//
// Identifiers are 24-character hex encodings of a MongoDB ObjectID on every
// backend, so clients see one shape regardless of the configured store:
// - 4 bytes: Unix timestamp in seconds
// - 5 bytes: per-process random value
// - 3 bytes: incrementing counter
package identifier

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// New returns a fresh identifier. Identifiers created by one process sort in
// creation order.
func New() string {
	return primitive.NewObjectID().Hex()
}

// Parse validates s and returns the ObjectID it encodes.
func Parse(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

// IsValid reports whether s has the shape of an identifier. It never touches
// a store.
func IsValid(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
