package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.April, 20, 10, 30, 0, 0, time.UTC)

// TestAgainAlwaysResets verifies "again" resets repetition and interval from any state.
func TestAgainAlwaysResets(t *testing.T) {
	states := []Schedule{
		NewSchedule(today),
		{EaseFactor: 2.8, Interval: 40, Repetition: 7},
		{EaseFactor: 1.3, Interval: 3, Repetition: 2},
	}
	for _, s := range states {
		next := Next(s, RatingAgain, today)
		assert.Equal(t, 0, next.Repetition)
		assert.Equal(t, 1, next.Interval)
		assert.GreaterOrEqual(t, next.EaseFactor, 1.3)
		assert.Equal(t, time.Date(2026, time.April, 21, 0, 0, 0, 0, time.UTC), next.NextReview)
	}
}

// TestEasyTwiceGrows verifies consecutive "easy" ratings produce strictly increasing intervals.
func TestEasyTwiceGrows(t *testing.T) {
	s := NewSchedule(today)
	require.Equal(t, 1, s.Interval)

	first := Next(s, RatingEasy, today)
	assert.Equal(t, 3, first.Interval, "1 x 2.5 x 1.3 rounds to 3")
	assert.InDelta(t, 2.65, first.EaseFactor, 1e-9)

	second := Next(first, RatingEasy, today)
	assert.Greater(t, second.Interval, first.Interval)
	assert.Equal(t, 10, second.Interval, "3 x 2.65 x 1.3 rounds to 10")
	assert.Equal(t, 2, second.Repetition)
}

// TestHardAndGood verifies the remaining rows of the scheduling table.
func TestHardAndGood(t *testing.T) {
	s := Schedule{EaseFactor: 2.5, Interval: 10, Repetition: 3}

	hard := Next(s, RatingHard, today)
	assert.Equal(t, 12, hard.Interval)
	assert.InDelta(t, 2.35, hard.EaseFactor, 1e-9)
	assert.Equal(t, 4, hard.Repetition)

	good := Next(s, RatingGood, today)
	assert.Equal(t, 25, good.Interval)
	assert.InDelta(t, 2.5, good.EaseFactor, 1e-9)
}

// TestEaseFloor verifies the ease factor cannot sink below 1.3.
func TestEaseFloor(t *testing.T) {
	s := Schedule{EaseFactor: 1.35, Interval: 1}
	for i := 0; i < 5; i++ {
		s = Next(s, RatingHard, today)
	}
	assert.InDelta(t, 1.3, s.EaseFactor, 1e-9)
	assert.GreaterOrEqual(t, s.Interval, 1)
}

func TestIsDue(t *testing.T) {
	assert.True(t, IsDue(today.AddDate(0, 0, -1), today))
	assert.True(t, IsDue(time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC), today))
	assert.False(t, IsDue(today.AddDate(0, 0, 1), today))
}

func TestParseRating(t *testing.T) {
	r, err := ParseRating("good")
	require.NoError(t, err)
	assert.Equal(t, RatingGood, r)

	_, err = ParseRating("perfect")
	assert.Error(t, err)
}
