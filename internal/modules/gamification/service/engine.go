package service

import (
	"math"
	"time"

	"leximind.com/api/internal/entity"
)

// XP and point rewards.
const (
	XPPerLevel       = 100
	XPPerCorrect     = 10
	PerfectGameXP    = 50 // no wrong answers and at least one correct
	DailyBonusPoints = 20
	DailyBonusXP     = 30

	WordMatchXPPerPair = 10
	WordMatchSpeedXP   = 50
	WordMatchFastLimit = 60 // seconds
)

// Level returns the level reached with xp experience points. Level 1 starts at 0 xp.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPRequired is the inverse of Level: the minimum xp that reaches level.
func XPRequired(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * XPPerLevel
}

// LevelProgress describes how far a user is inside the current level.
type LevelProgress struct {
	Level      int     `json:"level"`
	XP         int     `json:"xp"`
	XPProgress int     `json:"xp_progress"` // xp gained since the level started
	XPNeeded   int     `json:"xp_needed"`   // width of the current level
	Progress   float64 `json:"progress"`    // 0-100
}

func GetLevelProgress(xp int) LevelProgress {
	lvl := Level(xp)
	start := XPRequired(lvl)
	width := XPRequired(lvl+1) - start
	progress := xp - start
	if progress < 0 {
		progress = 0
	}

	return LevelProgress{
		Level:      lvl,
		XP:         xp,
		XPProgress: progress,
		XPNeeded:   width,
		Progress:   math.Round(float64(progress)/float64(width)*10000) / 100,
	}
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak computes the login streak for a login happening on today.
func NextStreak(current int, lastLogin *time.Time, today time.Time) int {
	if lastLogin == nil || lastLogin.IsZero() {
		return 1
	}

	last := Day(*lastLogin)
	today = Day(today)

	switch {
	case last.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case last.AddDate(0, 0, 1).Equal(today):
		return current + 1
	default:
		return 1
	}
}

// NeedsDailyReset reports whether the daily counter belongs to an earlier day.
func NeedsDailyReset(lastReset *time.Time, today time.Time) bool {
	if lastReset == nil || lastReset.IsZero() {
		return true
	}
	return Day(*lastReset).Before(Day(today))
}

// CrossedDailyTarget is true only for the submission that moves progress from
// below the target to at or above it.
func CrossedDailyTarget(before, after, target int) bool {
	if target <= 0 {
		return false
	}
	return before < target && after >= target
}

// ScoreInput is one finished game as reported by the client.
type ScoreInput struct {
	Score          int
	CorrectAnswers int
	WrongAnswers   int
}

// ScoreOutcome is what a submission earned.
type ScoreOutcome struct {
	XPEarned      int  `json:"xp_earned"`
	PointsEarned  int  `json:"points_earned"`
	PerfectGame   bool `json:"perfect_game"`
	DailyBonus    bool `json:"daily_bonus"`
	DailyProgress int  `json:"daily_words_progress"`
	LevelBefore   int  `json:"level_before"`
	Level         int  `json:"level"`
}

func (o ScoreOutcome) LeveledUp() bool {
	return o.Level > o.LevelBefore
}

// ApplyLogin updates streak, last login date and the daily reset on u.
func ApplyLogin(u *entity.User, now time.Time) {
	today := Day(now)
	u.Streak = NextStreak(u.Streak, u.LastLoginDate, today)
	u.LastLoginDate = &today
	resetDaily(u, today)
}

func resetDaily(u *entity.User, today time.Time) {
	if NeedsDailyReset(u.LastDailyReset, today) {
		u.DailyWordsProgress = 0
		u.LastDailyReset = &today
	}
	if u.DailyWordsTarget <= 0 {
		u.DailyWordsTarget = entity.DefaultDailyWordsTarget
	}
}

// ApplyScore folds one game result into u's counters and returns the rewards.
// Callers must only invoke it for student accounts.
func ApplyScore(u *entity.User, in ScoreInput, now time.Time) ScoreOutcome {
	today := Day(now)
	resetDaily(u, today)

	out := ScoreOutcome{LevelBefore: Level(u.XP)}

	correct := max(in.CorrectAnswers, 0)
	out.XPEarned = correct * XPPerCorrect
	if in.WrongAnswers == 0 && correct > 0 {
		out.PerfectGame = true
		out.XPEarned += PerfectGameXP
	}
	out.PointsEarned = max(in.Score, 0)

	before := u.DailyWordsProgress
	u.DailyWordsProgress += correct
	if CrossedDailyTarget(before, u.DailyWordsProgress, u.DailyWordsTarget) {
		out.DailyBonus = true
		out.XPEarned += DailyBonusXP
		out.PointsEarned += DailyBonusPoints
	}

	u.XP += out.XPEarned
	u.Points += out.PointsEarned
	u.WordsLearned += correct
	u.GamesPlayed++
	u.Level = Level(u.XP)

	out.DailyProgress = u.DailyWordsProgress
	out.Level = u.Level
	return out
}

// ApplyBonusXP credits xp outside a game (season prizes, word match) and
// recomputes the level.
func ApplyBonusXP(u *entity.User, xp int) {
	u.XP += xp
	u.Level = Level(u.XP)
}

// WordMatchOutcome is what a finished word match round earned.
type WordMatchOutcome struct {
	XPEarned     int `json:"xp_earned"`
	PointsEarned int `json:"points_earned"`
	LevelBefore  int `json:"level_before"`
	Level        int `json:"level"`
}

// ApplyWordMatch credits a word match round. Rounds finished in under a
// minute earn the speed bonus.
func ApplyWordMatch(u *entity.User, score, timeTaken int) WordMatchOutcome {
	score = max(score, 0)
	out := WordMatchOutcome{LevelBefore: Level(u.XP), PointsEarned: score}

	out.XPEarned = score * WordMatchXPPerPair
	if timeTaken < WordMatchFastLimit {
		out.XPEarned += WordMatchSpeedXP
	}

	u.Points += score
	u.GamesPlayed++
	ApplyBonusXP(u, out.XPEarned)

	out.Level = u.Level
	return out
}
