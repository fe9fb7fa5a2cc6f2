package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	achievement "leximind.com/api/internal/modules/achievement/service"
	gamification "leximind.com/api/internal/modules/gamification/service"
	"leximind.com/api/internal/modules/league/dto"
	leagueRepo "leximind.com/api/internal/modules/league/repository"
	userRepo "leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/logger"
)

// WeekBounds returns the Monday 00:00 UTC start and the Sunday 23:59:59 end of
// the ISO week containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := gamification.Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7).Add(-time.Second)
}

// CompareStudents orders by points desc, then account age, then id.
func CompareStudents(a, b *entity.User) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}

// RankStudents builds a snapshot with distinct ranks 1..N.
func RankStudents(students []*entity.User) []entity.LeagueStanding {
	sorted := slices.Clone(students)
	slices.SortStableFunc(sorted, CompareStudents)

	standings := make([]entity.LeagueStanding, len(sorted))
	for i, u := range sorted {
		standings[i] = entity.LeagueStanding{
			UserID:   u.ID,
			Username: u.Username,
			Points:   u.Points,
			Rank:     i + 1,
		}
	}
	return standings
}

type LeagueService interface {
	// Current looks up or creates this week's league and recomputes it.
	Current(ctx context.Context, userID uuid.UUID) (*dto.LeagueResponse, error)
	Recompute(ctx context.Context) (*entity.League, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type leagueService struct {
	repo         leagueRepo.LeagueRepository
	users        userRepo.UserRepository
	achievements achievement.AchievementService
	notifier     achievement.Notifier
	log          *logger.Logger
	now          func() time.Time
}

func NewLeagueService(
	repo leagueRepo.LeagueRepository,
	users userRepo.UserRepository,
	achievements achievement.AchievementService,
	notifier achievement.Notifier,
	log *logger.Logger,
) LeagueService {
	return &leagueService{
		repo:         repo,
		users:        users,
		achievements: achievements,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

func (s *leagueService) getOrCreate(ctx context.Context, now time.Time) (*entity.League, error) {
	year, week := now.UTC().ISOWeek()

	league, err := s.repo.FindByWeek(ctx, year, week)
	if err == nil {
		return league, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	start, end := WeekBounds(now)
	if err := s.repo.CreateIfMissing(ctx, &entity.League{
		WeekNumber: week,
		Year:       year,
		StartDate:  start,
		EndDate:    end,
	}); err != nil {
		return nil, err
	}
	s.log.Info("league created", "year", year, "week", week)

	return s.repo.FindByWeek(ctx, year, week)
}

func (s *leagueService) Recompute(ctx context.Context) (*entity.League, error) {
	league, err := s.getOrCreate(ctx, s.now())
	if err != nil {
		return nil, err
	}

	students, err := s.users.FindStudents(ctx)
	if err != nil {
		return nil, err
	}

	standings := RankStudents(students)
	if err := s.repo.ReplaceStandings(ctx, league.ID, standings); err != nil {
		return nil, err
	}

	ranks := make(map[uuid.UUID]int, len(standings))
	for _, st := range standings {
		ranks[st.UserID] = st.Rank
	}
	if err := s.users.UpdateLeagueRanks(ctx, ranks); err != nil {
		return nil, err
	}

	for _, u := range students {
		rank := ranks[u.ID]
		if u.LeagueRank != nil && rank < *u.LeagueRank && s.notifier != nil {
			s.notifier.Notify(ctx, u.ID, entity.NotificationLeagueRank,
				fmt.Sprintf("You climbed to rank %d in the weekly league", rank), "league", league.ID.String())
		}
		u.LeagueRank = &rank

		if s.achievements != nil {
			if _, err := s.achievements.Unlock(ctx, u); err != nil {
				s.log.Warn("achievement pass failed", "user_id", u.ID, "error", err)
			}
		}
	}

	league.Standings = standings
	s.log.Debug("league recomputed", "league_id", league.ID, "students", len(standings))
	return league, nil
}

func (s *leagueService) Current(ctx context.Context, userID uuid.UUID) (*dto.LeagueResponse, error) {
	league, err := s.Recompute(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.LeagueResponse{
		ID:         league.ID,
		WeekNumber: league.WeekNumber,
		Year:       league.Year,
		StartDate:  league.StartDate,
		EndDate:    league.EndDate,
		Standings:  league.Standings,
		UpdatedAt:  league.UpdatedAt,
	}
	for _, st := range league.Standings {
		if st.UserID == userID {
			rank := st.Rank
			res.MyRank = &rank
			break
		}
	}
	return res, nil
}

func (s *leagueService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	students, err := s.users.TopStudents(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(students))
	for i, u := range students {
		entries = append(entries, dto.LeaderboardEntry{
			Position:     i + 1,
			Username:     u.Username,
			ClassName:    u.ClassName,
			Points:       u.Points,
			Level:        u.Level,
			WordsLearned: u.WordsLearned,
			ProfileStar:  u.ProfileStar,
		})
	}
	return entries, nil
}
