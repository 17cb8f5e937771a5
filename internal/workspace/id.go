package workspace

import "github.com/google/uuid"

// NewID returns a random unique id.
func NewID() string {
	return uuid.New().String()
}
