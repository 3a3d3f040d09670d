package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("configured layout", func(t *testing.T) {
		got, err := Parse("2099-01-01", DefaultLayout)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rfc3339 fallback", func(t *testing.T) {
		got, err := Parse("2030-06-15T12:30:00Z", DefaultLayout)
		require.NoError(t, err)
		assert.Equal(t, 2030, got.Year())
	})

	t.Run("unix seconds", func(t *testing.T) {
		got, err := Parse("1700000000", DefaultLayout)
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), got.Unix())
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		got, err := Parse("", DefaultLayout)
		require.Error(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("garbage is invalid", func(t *testing.T) {
		got, err := Parse("not-a-date", DefaultLayout)
		require.Error(t, err)
		assert.True(t, got.IsZero())
	})
}

func TestFormatRoundTrip(t *testing.T) {
	day := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	rendered := Format(day, DefaultLayout)
	require.Equal(t, "2099-01-01", rendered)

	back, err := Parse(rendered, DefaultLayout)
	require.NoError(t, err)
	assert.True(t, day.Equal(back))
}

func TestFormatZeroTime(t *testing.T) {
	assert.Equal(t, "", Format(time.Time{}, DefaultLayout))
}
