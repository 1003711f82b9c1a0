package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestState_AlreadyRanOn(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("never ran", func(t *testing.T) {
		state, err := NewDigestState(1)
		require.NoError(t, err)
		assert.False(t, state.AlreadyRanOn(now))
	})

	t.Run("ran earlier the same day", func(t *testing.T) {
		morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
		state, err := ReconstructDigestState(1, &morning)
		require.NoError(t, err)
		assert.True(t, state.AlreadyRanOn(now))
	})

	t.Run("ran yesterday", func(t *testing.T) {
		yesterday := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
		state, err := ReconstructDigestState(1, &yesterday)
		require.NoError(t, err)
		assert.False(t, state.AlreadyRanOn(now))
	})

	t.Run("ran exactly at midnight", func(t *testing.T) {
		midnight := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		state, err := ReconstructDigestState(1, &midnight)
		require.NoError(t, err)
		assert.True(t, state.AlreadyRanOn(now))
	})
}

func TestDigestState_ActivityWindowStart(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	state, err := NewDigestState(1)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-24*time.Hour), state.ActivityWindowStart(now))

	lastRun := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	state, err = ReconstructDigestState(1, &lastRun)
	require.NoError(t, err)
	assert.Equal(t, lastRun, state.ActivityWindowStart(now))
}

func TestDigestState_RecordRunOnlyMovesForward(t *testing.T) {
	state, err := NewDigestState(1)
	require.NoError(t, err)

	first := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, state.RecordRun(first))

	err = state.RecordRun(first.Add(-time.Hour))
	assert.Error(t, err)
	assert.Equal(t, first, *state.LastRunAt())

	second := first.Add(24 * time.Hour)
	require.NoError(t, state.RecordRun(second))
	assert.Equal(t, second, *state.LastRunAt())
}
