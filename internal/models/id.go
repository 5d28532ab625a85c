package models

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID returns a fresh identifier. Every backend uses ObjectID hex strings so
// ids stay portable between them.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
