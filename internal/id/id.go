package id

import (
	"strings"

	"github.com/google/uuid"
)

const sep = ":"

// NewExternalID returns an import identity like
// "E1:1-1100:01920c4e-8a7b-7c3d-9f00-5a1b2c3d4e5f". The trailing UUIDv7
// carries the creation time and a random component, so two imports of the
// same (entity, code) never share an identity.
func NewExternalID(entityID, code string) string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return FormatExternalID(entityID, code, u)
}

// FormatExternalID builds an external ID from its parts.
func FormatExternalID(entityID, code string, u uuid.UUID) string {
	return strings.Join([]string{slug(entityID), slug(code), u.String()}, sep)
}

// slug keeps letters, digits, '-' and '.'; everything else becomes '_'.
func slug(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, s)
}
