package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

const (
	// DefaultLimit is used when a listing request carries no limit.
	DefaultLimit = 20
	// MaxLimit caps the page size of every listing.
	MaxLimit = 100
)

// Cursor is the keyset position of the last row of a page. Listings are
// ordered by (SortKey desc, CreatedAt desc).
type Cursor struct {
	SortKey   time.Time
	CreatedAt time.Time
}

// EncodeToken creates a base64 encoded token from a row's sort instant and creation time.
// This is used for consistent pagination across entry and journey listings.
func EncodeToken(sortKey time.Time, createdAt time.Time) string {
	tokenStr := fmt.Sprintf("%s|%s", sortKey.UTC().Format(timeFormat), createdAt.UTC().Format(timeFormat))
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	sortKey, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sort key parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return Cursor{SortKey: sortKey, CreatedAt: createdAt}, nil
}

// DecodeOptionalToken decodes token when present.
func DecodeOptionalToken(token *string) (*Cursor, error) {
	if token == nil || *token == "" {
		return nil, nil
	}
	c, err := DecodeToken(*token)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// NormalizeLimit applies the default and maximum page sizes.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
