package service

import (
	"fmt"
	"math"
	"time"

	"leximind.com/api/internal/entity"
	gamification "leximind.com/api/internal/modules/gamification/service"
)

type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// MasteredInterval marks a word as long term memorised.
const MasteredInterval = 21

func ParseRating(s string) (Rating, error) {
	switch r := Rating(s); r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return r, nil
	default:
		return "", fmt.Errorf("unknown rating %q", s)
	}
}

// Schedule is the SM-2 state carried between reviews.
type Schedule struct {
	EaseFactor float64
	Interval   int
	Repetition int
	NextReview time.Time
}

// NewSchedule is the state of a word that was never reviewed.
func NewSchedule(today time.Time) Schedule {
	return Schedule{
		EaseFactor: entity.DefaultEaseFactor,
		Interval:   1,
		Repetition: 0,
		NextReview: gamification.Day(today),
	}
}

// Next applies one rating. Intervals are rounded to whole days with a floor of 1
// and the ease factor never drops below 1.3.
func Next(s Schedule, rating Rating, today time.Time) Schedule {
	if s.EaseFactor < entity.MinEaseFactor {
		s.EaseFactor = entity.MinEaseFactor
	}
	if s.Interval < 1 {
		s.Interval = 1
	}

	switch rating {
	case RatingAgain:
		s.Repetition = 0
		s.Interval = 1
		s.EaseFactor = math.Max(entity.MinEaseFactor, s.EaseFactor-0.2)
	case RatingHard:
		s.Repetition++
		s.Interval = days(float64(s.Interval) * 1.2)
		s.EaseFactor = math.Max(entity.MinEaseFactor, s.EaseFactor-0.15)
	case RatingGood:
		s.Repetition++
		s.Interval = days(float64(s.Interval) * s.EaseFactor)
	case RatingEasy:
		s.Repetition++
		s.Interval = days(float64(s.Interval) * s.EaseFactor * 1.3)
		s.EaseFactor += 0.15
	}

	s.EaseFactor = math.Round(s.EaseFactor*100) / 100
	s.NextReview = gamification.Day(today).AddDate(0, 0, s.Interval)
	return s
}

func days(v float64) int {
	return max(1, int(math.Round(v)))
}

// IsDue reports whether a word scheduled for next should be shown today.
func IsDue(next time.Time, today time.Time) bool {
	return !gamification.Day(next).After(gamification.Day(today))
}

func scheduleOf(p *entity.UserWordProgress) Schedule {
	return Schedule{
		EaseFactor: p.EaseFactor,
		Interval:   p.Interval,
		Repetition: p.Repetition,
		NextReview: p.NextReview,
	}
}
