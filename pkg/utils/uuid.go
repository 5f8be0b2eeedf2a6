package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9-]")
	slugDashes  = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateInvoiceNo returns prefix followed by 8 upper-case hex characters
func GenerateInvoiceNo(prefix string) string {
	return prefix + shortID()
}

// GenerateReceiptNo returns prefix followed by 8 upper-case hex characters
func GenerateReceiptNo(prefix string) string {
	return prefix + shortID()
}

// GenerateRequestID returns a fresh request correlation ID
func GenerateRequestID() string {
	return uuid.NewString()
}

func shortID() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// GenerateProductCode returns a product code for items created without one
func GenerateProductCode() string {
	return "PC-" + shortID()
}
