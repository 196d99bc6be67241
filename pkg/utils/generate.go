package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// NormalizeDate drops a time component from an ISO-8601 value,
// "2025-03-01T10:30:00" becomes "2025-03-01".
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if idx := strings.IndexAny(value, "T "); idx > 0 {
		return value[:idx]
	}
	return value
}

// ParseDate parses a date, accepting values that carry a time component.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, NormalizeDate(value))
}
