package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leximind.com/api/internal/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestLevelBounds verifies level(xp) sits between the xp required for it and the next level.
func TestLevelBounds(t *testing.T) {
	assert.Equal(t, 1, Level(0))
	assert.Equal(t, 1, Level(99))
	assert.Equal(t, 2, Level(100))
	assert.Equal(t, 1, Level(-20), "negative xp is clamped")

	prev := Level(0)
	for xp := 0; xp <= 5000; xp += 7 {
		lvl := Level(xp)
		assert.GreaterOrEqual(t, lvl, prev, "level must be non-decreasing")
		assert.LessOrEqual(t, XPRequired(lvl), xp)
		assert.Less(t, xp, XPRequired(lvl+1))
		prev = lvl
	}
}

func TestGetLevelProgress(t *testing.T) {
	p := GetLevelProgress(250)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 50, p.XPProgress)
	assert.Equal(t, 100, p.XPNeeded)
	assert.Equal(t, 50.0, p.Progress)
}

// TestNextStreak verifies consecutive, same day, gap and first login cases.
func TestNextStreak(t *testing.T) {
	d := date(2026, time.March, 10)
	yesterday := d.AddDate(0, 0, -1)
	twoAgo := d.AddDate(0, 0, -2)

	assert.Equal(t, 1, NextStreak(0, nil, d), "first login")
	assert.Equal(t, 5, NextStreak(4, &yesterday, d), "consecutive day")
	assert.Equal(t, 4, NextStreak(4, &d, d.Add(20*time.Hour)), "same day re-login")
	assert.Equal(t, 1, NextStreak(9, &twoAgo, d), "gap resets")

	future := d.AddDate(0, 0, 3)
	assert.Equal(t, 1, NextStreak(3, &future, d), "clock skew resets")
}

// TestApplyLoginSequence verifies D, D, D+1, D+3 logins.
func TestApplyLoginSequence(t *testing.T) {
	u := &entity.User{}
	day := date(2026, time.January, 5).Add(8 * time.Hour)

	ApplyLogin(u, day)
	assert.Equal(t, 1, u.Streak)

	ApplyLogin(u, day.Add(3*time.Hour))
	assert.Equal(t, 1, u.Streak)

	ApplyLogin(u, day.AddDate(0, 0, 1))
	assert.Equal(t, 2, u.Streak)

	ApplyLogin(u, day.AddDate(0, 0, 3))
	assert.Equal(t, 1, u.Streak)
	require.NotNil(t, u.LastLoginDate)
	assert.True(t, u.LastLoginDate.Equal(date(2026, time.January, 8)))
}

// TestDailyBonusOncePerDay verifies repeated crossings on one day award a single bonus.
func TestDailyBonusOncePerDay(t *testing.T) {
	now := date(2026, time.May, 1).Add(9 * time.Hour)
	u := &entity.User{DailyWordsTarget: 5}

	first := ApplyScore(u, ScoreInput{Score: 10, CorrectAnswers: 3, WrongAnswers: 1}, now)
	assert.False(t, first.DailyBonus)

	second := ApplyScore(u, ScoreInput{Score: 10, CorrectAnswers: 3, WrongAnswers: 1}, now.Add(time.Hour))
	assert.True(t, second.DailyBonus, "3 -> 6 crosses 5")

	third := ApplyScore(u, ScoreInput{Score: 10, CorrectAnswers: 4, WrongAnswers: 1}, now.Add(2*time.Hour))
	assert.False(t, third.DailyBonus, "already above target today")

	nextDay := ApplyScore(u, ScoreInput{Score: 10, CorrectAnswers: 5, WrongAnswers: 1}, now.AddDate(0, 0, 1))
	assert.True(t, nextDay.DailyBonus, "progress resets on a new day")
	assert.Equal(t, 5, u.DailyWordsProgress)
}

// TestApplyScorePerfectGameWithDailyBonus covers the full reward path of a perfect first game.
func TestApplyScorePerfectGameWithDailyBonus(t *testing.T) {
	now := date(2026, time.June, 2).Add(14 * time.Hour)
	today := Day(now)
	u := &entity.User{DailyWordsTarget: 5, DailyWordsProgress: 0, LastDailyReset: &today, Level: 1}

	out := ApplyScore(u, ScoreInput{Score: 50, CorrectAnswers: 5, WrongAnswers: 0}, now)

	assert.Equal(t, 130, out.XPEarned)
	assert.Equal(t, 70, out.PointsEarned)
	assert.True(t, out.PerfectGame)
	assert.True(t, out.DailyBonus)
	assert.Equal(t, 130, u.XP)
	assert.Equal(t, 70, u.Points)
	assert.Equal(t, 5, u.WordsLearned)
	assert.Equal(t, 1, u.GamesPlayed)
	assert.Equal(t, 2, u.Level)
	assert.True(t, out.LeveledUp())
}

// TestApplyScoreNoPerfectBonusWithoutCorrect verifies a zero game earns nothing extra.
func TestApplyScoreNoPerfectBonusWithoutCorrect(t *testing.T) {
	u := &entity.User{DailyWordsTarget: 5}
	out := ApplyScore(u, ScoreInput{Score: 0, CorrectAnswers: 0, WrongAnswers: 0}, time.Now())

	assert.Zero(t, out.XPEarned)
	assert.False(t, out.PerfectGame)
	assert.Equal(t, 1, u.GamesPlayed)
}

func TestApplyWordMatch(t *testing.T) {
	u := &entity.User{XP: 90, Points: 10, Level: 1}

	out := ApplyWordMatch(u, 6, 45)
	assert.Equal(t, 110, out.XPEarned)
	assert.Equal(t, 6, out.PointsEarned)
	assert.Equal(t, 1, out.LevelBefore)
	assert.Equal(t, 3, out.Level)
	assert.Equal(t, 200, u.XP)
	assert.Equal(t, 16, u.Points)
	assert.Equal(t, 1, u.GamesPlayed)

	slow := ApplyWordMatch(u, 4, 60)
	assert.Equal(t, 40, slow.XPEarned)
}
