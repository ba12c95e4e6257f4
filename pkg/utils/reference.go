package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reference number prefixes.
const (
	PrefixReservation = "RES"
	PrefixOrder       = "ORD"
	PrefixReceipt     = "PAY"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateReferenceNo returns PREFIX-YYYYMMDD-XXXXXXXX using the date of at
func GenerateReferenceNo(prefix string, at time.Time) string {
	return prefix + "-" + at.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
