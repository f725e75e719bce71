package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard values
	sortKey := time.Date(2023, 5, 15, 9, 0, 0, 0, time.UTC)
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(sortKey, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, sortKey, cursor.SortKey, "Sort key should match after decode")
	assert.Equal(t, createdAt, cursor.CreatedAt, "Created at time should match after decode")

	// Non UTC inputs are normalized but keep the instant
	loc := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2024, 3, 2, 22, 0, 0, 0, loc)
	cursor, err = DecodeToken(EncodeToken(local, local))
	require.NoError(t, err)
	assert.True(t, local.Equal(cursor.SortKey), "Instant should survive the zone change")
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // Base64 encoded date without separator
	_, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	invalidDateToken := "bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODla" // Base64 encoded "notadate|2023-05-15T14:30:45.123456789Z"
	_, err = DecodeToken(invalidDateToken)
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "sort key parse", "Error should mention date parsing issue")
}

func TestDecodeOptionalToken(t *testing.T) {
	cursor, err := DecodeOptionalToken(nil)
	assert.NoError(t, err)
	assert.Nil(t, cursor)

	empty := ""
	cursor, err = DecodeOptionalToken(&empty)
	assert.NoError(t, err)
	assert.Nil(t, cursor)

	token := EncodeToken(time.Unix(0, 0).UTC(), time.Unix(10, 0).UTC())
	cursor, err = DecodeOptionalToken(&token)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, time.Unix(10, 0).UTC(), cursor.CreatedAt)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 42, NormalizeLimit(42))
	assert.Equal(t, MaxLimit, NormalizeLimit(10_000))
}
