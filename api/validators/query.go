package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
)

// SanitizeString trims input, drops control characters and caps it at maxLen
// runes. A non-positive maxLen disables the cap.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input))
	if maxLen <= 0 {
		return cleaned
	}
	if runes := []rune(cleaned); len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return cleaned
}

// QueryString returns the trimmed query value for key, capped at maxLen.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// ParseID converts a path segment into a positive integer id.
func ParseID(raw, field string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").WithDetails(map[string]any{"field": field})
	}
	if value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be positive").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

// ParseSKU validates a sku path segment.
func ParseSKU(raw, field string) (string, error) {
	sku := strings.TrimSpace(raw)
	if !IsSKU(sku) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid sku").WithDetails(map[string]any{"field": field})
	}
	return sku, nil
}

// ParseOrderID validates an order id path segment.
func ParseOrderID(raw string) (string, error) {
	orderID := SanitizeString(raw, 128)
	if orderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required").WithDetails(map[string]any{"field": "order_id"})
	}
	return orderID, nil
}
