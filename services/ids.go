package services

import (
	"fmt"

	"github.com/9ssi7/nanoid"
)

// newID returns a fresh record identifier.
func newID() (string, error) {
	id, err := nanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id, nil
}
