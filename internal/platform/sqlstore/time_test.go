package sqlstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{"time value", want.In(time.FixedZone("X", 7200))},
		{"sqlite text", "2025-03-01 12:30:00.123456+00:00"},
		{"rfc3339 text", "2025-03-01T14:30:00.123456+02:00"},
		{"bytes", []byte("2025-03-01 12:30:00.123456")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got dbTime
			require.NoError(t, got.Scan(tc.src))
			assert.True(t, got.Valid)
			assert.Equal(t, want, got.Time)
		})
	}
}

func TestDBTimeScanNullAndInvalid(t *testing.T) {
	var got dbTime
	require.NoError(t, got.Scan(nil))
	assert.False(t, got.Valid)

	assert.Error(t, got.Scan("yesterday"))
	assert.Error(t, got.Scan(42))
}
