package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewRequestID returns a canonical v4 UUID string.
func NewRequestID() string {
	return uuid.NewString()
}

// ValidRequestID accepts a canonical UUID or a 32-char lowercase hex id.
func ValidRequestID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) == 32 {
		for _, r := range s {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
				return false
			}
		}
		return true
	}
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
