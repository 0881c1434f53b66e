package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	c := Cursor{
		OccurredAt: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:         "8c1f7a8e-2b7b-4a59-9d0c-3f1c2e5d4b6a",
	}

	token := EncodeCursor(c)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "=", "Token should be usable in a query string")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, c.OccurredAt.Equal(decoded.OccurredAt))
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)
}

func TestEncodeCursor_NormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 60*60)
	c := Cursor{OccurredAt: time.Date(2024, 1, 1, 0, 30, 0, 0, loc), CreatedAt: time.Now(), ID: "e1"}

	decoded, err := DecodeCursor(EncodeCursor(c))
	require.NoError(t, err)
	assert.True(t, c.OccurredAt.Equal(decoded.OccurredAt))
	assert.Equal(t, time.UTC, decoded.OccurredAt.Location())
}

func TestDecodeCursorError(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "not base64", token: "this is not base64!", want: "base64 decode"},
		{name: "missing separator", token: enc("2024-05-15T00:00:00Z"), want: "split"},
		{name: "missing id", token: enc("2024-05-15T00:00:00Z|2024-05-15T00:00:00Z|"), want: "split"},
		{name: "bad occurred_at", token: enc("notadate|2024-05-15T00:00:00Z|e1"), want: "occurred_at parse"},
		{name: "bad created_at", token: enc("2024-05-15T00:00:00Z|notadate|e1"), want: "created_at parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0, 20, 100))
	assert.Equal(t, 20, ClampLimit(-5, 20, 100))
	assert.Equal(t, 7, ClampLimit(7, 20, 100))
	assert.Equal(t, 100, ClampLimit(500, 20, 100))
}
