package utils

import "github.com/google/uuid"

// NewID returns a time-ordered UUID, falling back to a random one.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
