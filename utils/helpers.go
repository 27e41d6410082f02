package utils

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

//
// ===========================================================
//  ENV UTILITIES
// ===========================================================
//

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// EnvIntOrDefault parses an integer ENV value, falling back on def.
func EnvIntOrDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

//
// ===========================================================
//  REFERENCE CODES
// ===========================================================
//

// NewReferenceCode returns a short uppercase booking reference, e.g.
// "BK-9F86D081". Uniqueness is enforced by the DB index; collisions on
// the 8-hex prefix are retried by the caller.
func NewReferenceCode() string {
	id := uuid.New().String()
	return "BK-" + strings.ToUpper(id[:8])
}

//
// ===========================================================
//  MONEY
// ===========================================================
//

// RoundMoney rounds to two fraction digits, the currency precision used
// across the schema's decimal(10,2) columns.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// PtrTime returns pointer to time.Time
func PtrTime(t time.Time) *time.Time { return &t }

//
// ===========================================================
//  EMAIL MASKING
// ===========================================================
//

// MaskEmail returns masked email for safe display
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	domain := parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 {
		if len(domainParts[0]) > 1 {
			domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
		}
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
