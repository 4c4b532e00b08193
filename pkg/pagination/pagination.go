package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100

	tokenPrefix = "offset"
)

// Params holds page inputs from controllers or services.
type Params struct {
	Limit int
	Token string
}

// Page is the resolved window for a query plus its neighbouring tokens.
type Page struct {
	Offset   int
	Limit    int
	Previous string
	Next     string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalization result plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeToken builds an opaque page token for the given row offset.
func EncodeToken(offset int) string {
	payload := fmt.Sprintf("%s|%d", tokenPrefix, offset)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseToken decodes a page token into a row offset. Empty tokens map to zero.
func ParseToken(value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return 0, fmt.Errorf("decode page token: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[0] != tokenPrefix {
		return 0, fmt.Errorf("invalid page token format")
	}
	offset, err := strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid page token offset")
	}
	return offset, nil
}

// Resolve parses params into a page window without neighbour tokens.
func Resolve(params Params) (Page, error) {
	offset, err := ParseToken(params.Token)
	if err != nil {
		return Page{}, err
	}
	return Page{Offset: offset, Limit: NormalizeLimit(params.Limit)}, nil
}

// Finish trims a buffered result count and fills the neighbour tokens. It
// returns how many rows belong to the page.
func (p *Page) Finish(fetched int) int {
	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		p.Previous = EncodeToken(prev)
	}
	if fetched > p.Limit {
		p.Next = EncodeToken(p.Offset + p.Limit)
		return p.Limit
	}
	return fetched
}
