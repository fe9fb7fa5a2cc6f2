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
	leagueRepo "leximind.com/api/internal/modules/league/repository"
	"leximind.com/api/internal/modules/season/dto"
	seasonRepo "leximind.com/api/internal/modules/season/repository"
	userRepo "leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/metrics"
)

const (
	SeasonWeeks  = 4
	seasonLength = SeasonWeeks * 7 * 24 * time.Hour
)

// Prize is the reward for a podium finish.
type Prize struct {
	Badge   string
	XPBonus int
}

// Prizes holds the podium rewards by rank.
var Prizes = []Prize{
	{Badge: "🌟", XPBonus: 500},
	{Badge: "⭐", XPBonus: 300},
	{Badge: "✨", XPBonus: 100},
}

// Aggregate sums league snapshot points per participant and ranks them by
// total desc, then account age, then id. created holds account creation times.
func Aggregate(leagues []entity.League, created map[uuid.UUID]time.Time) []entity.SeasonStanding {
	totals := map[uuid.UUID]*entity.SeasonStanding{}
	for _, l := range leagues {
		for _, st := range l.Standings {
			row, ok := totals[st.UserID]
			if !ok {
				row = &entity.SeasonStanding{UserID: st.UserID, Username: st.Username}
				totals[st.UserID] = row
			}
			row.TotalPoints += st.Points
		}
	}

	out := make([]entity.SeasonStanding, 0, len(totals))
	for _, row := range totals {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b entity.SeasonStanding) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		if c := created[a.UserID].Compare(created[b.UserID]); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID.String(), b.UserID.String())
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// AssignPrizes stamps badges and xp bonuses on the podium.
func AssignPrizes(standings []entity.SeasonStanding) {
	for i := range standings {
		if i >= len(Prizes) {
			return
		}
		standings[i].Badge = Prizes[i].Badge
		standings[i].XPBonus = Prizes[i].XPBonus
	}
}

// WeeksElapsed returns whole weeks since start, capped to the season length.
func WeeksElapsed(start, now time.Time) (elapsed, remaining int) {
	days := int(now.Sub(start).Hours() / 24)
	weeks := max(days/7, 0)
	return min(weeks, SeasonWeeks), max(SeasonWeeks-weeks, 0)
}

type SeasonService interface {
	// Resolve returns the active season, finalizing an expired one and
	// opening its successor first.
	Resolve(ctx context.Context) (*entity.Season, error)
	Current(ctx context.Context) (*dto.SeasonResponse, error)
	Standings(ctx context.Context) (*dto.StandingsResponse, error)
	History(ctx context.Context, userID uuid.UUID) (*dto.HistoryResponse, error)
	// FinalizeActive closes the active season now and opens the next one.
	FinalizeActive(ctx context.Context) (*dto.FinalizeResponse, error)
}

type seasonService struct {
	repo     seasonRepo.SeasonRepository
	leagues  leagueRepo.LeagueRepository
	users    userRepo.UserRepository
	notifier achievement.Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewSeasonService(
	repo seasonRepo.SeasonRepository,
	leagues leagueRepo.LeagueRepository,
	users userRepo.UserRepository,
	notifier achievement.Notifier,
	log *logger.Logger,
) SeasonService {
	return &seasonService{
		repo:     repo,
		leagues:  leagues,
		users:    users,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *seasonService) Resolve(ctx context.Context) (*entity.Season, error) {
	active, err := s.repo.FindActive(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.createNext(ctx)
	}
	if err != nil {
		return nil, err
	}

	if !s.now().After(active.EndDate) {
		return active, nil
	}

	if _, err := s.finalize(ctx, active); err != nil {
		return nil, err
	}
	if active.Status != entity.SeasonCompleted {
		// Another caller closed it first and may have opened the next one.
		next, err := s.repo.FindActive(ctx)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return s.createNext(ctx)
}

func (s *seasonService) createNext(ctx context.Context) (*entity.Season, error) {
	last, err := s.repo.LastNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	season := &entity.Season{
		SeasonNumber: last + 1,
		Year:         now.Year(),
		StartDate:    now,
		EndDate:      now.Add(seasonLength),
		Status:       entity.SeasonActive,
	}
	if err := s.repo.Create(ctx, season); err != nil {
		// Another request opened the same season number first.
		if active, findErr := s.repo.FindActive(ctx); findErr == nil {
			return active, nil
		}
		return nil, err
	}

	s.log.Info("season created", "season_number", season.SeasonNumber, "end_date", season.EndDate)
	return season, nil
}

func (s *seasonService) standingsFor(ctx context.Context, season *entity.Season) ([]entity.SeasonStanding, error) {
	leagues, err := s.leagues.FindStartingBetween(ctx, season.StartDate, season.EndDate)
	if err != nil {
		return nil, err
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	created := make(map[uuid.UUID]time.Time, len(users))
	for _, u := range users {
		created[u.ID] = u.CreatedAt
	}

	standings := Aggregate(leagues, created)
	for i := range standings {
		standings[i].SeasonNumber = season.SeasonNumber
		standings[i].Year = season.Year
	}
	return standings, nil
}

// finalize is a no-op for a season that is not active.
func (s *seasonService) finalize(ctx context.Context, season *entity.Season) ([]entity.SeasonStanding, error) {
	if season.Status != entity.SeasonActive {
		return nil, nil
	}

	standings, err := s.standingsFor(ctx, season)
	if err != nil {
		return nil, err
	}
	AssignPrizes(standings)

	at := s.now().UTC()
	completed, err := s.repo.Complete(ctx, season.ID, at, standings)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, nil
	}
	season.Status = entity.SeasonCompleted
	season.FinalizedAt = &at

	for _, st := range standings {
		if st.XPBonus > 0 {
			if err := s.users.AwardSeasonPrize(ctx, st.UserID, st.XPBonus); err != nil {
				return nil, err
			}
		}
		if s.notifier != nil {
			msg := fmt.Sprintf("Season %d finished: you ranked #%d with %d points", season.SeasonNumber, st.Rank, st.TotalPoints)
			if st.Badge != "" {
				msg += fmt.Sprintf(" and earned %s +%d XP", st.Badge, st.XPBonus)
			}
			s.notifier.Notify(ctx, st.UserID, entity.NotificationSeasonEnd, msg, "season", season.ID.String())
		}
	}

	metrics.SeasonsFinalized.Inc()
	podium := make([]string, 0, len(Prizes))
	for _, st := range standings[:min(len(Prizes), len(standings))] {
		podium = append(podium, st.Username)
	}
	s.log.Info("season finalized", "season_number", season.SeasonNumber, "participants", len(standings), "podium", podium)
	return standings, nil
}

func toResponse(season *entity.Season, now time.Time) dto.SeasonResponse {
	elapsed, remaining := WeeksElapsed(season.StartDate, now)
	return dto.SeasonResponse{
		ID:             season.ID,
		SeasonNumber:   season.SeasonNumber,
		Year:           season.Year,
		StartDate:      season.StartDate,
		EndDate:        season.EndDate,
		Status:         season.Status,
		FinalizedAt:    season.FinalizedAt,
		WeeksElapsed:   elapsed,
		WeeksRemaining: remaining,
	}
}

func (s *seasonService) Current(ctx context.Context) (*dto.SeasonResponse, error) {
	season, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	res := toResponse(season, s.now())
	return &res, nil
}

func (s *seasonService) Standings(ctx context.Context) (*dto.StandingsResponse, error) {
	season, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var standings []entity.SeasonStanding
	if season.Status == entity.SeasonCompleted {
		standings, err = s.repo.FindStandings(ctx, season.ID)
	} else {
		standings, err = s.standingsFor(ctx, season)
	}
	if err != nil {
		return nil, err
	}

	return &dto.StandingsResponse{
		SeasonNumber: season.SeasonNumber,
		Status:       season.Status,
		Standings:    standings,
	}, nil
}

func (s *seasonService) History(ctx context.Context, userID uuid.UUID) (*dto.HistoryResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	history, err := s.repo.FindHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.HistoryResponse{SeasonHistory: history, ProfileStar: user.ProfileStar}, nil
}

func (s *seasonService) FinalizeActive(ctx context.Context) (*dto.FinalizeResponse, error) {
	active, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	standings, err := s.finalize(ctx, active)
	if err != nil {
		return nil, err
	}
	if active.Status != entity.SeasonCompleted {
		return nil, apperror.Conflict("season was finalized by another request")
	}

	next, err := s.createNext(ctx)
	if err != nil {
		return nil, err
	}

	if standings == nil {
		standings = []entity.SeasonStanding{}
	}
	return &dto.FinalizeResponse{
		Message:        fmt.Sprintf("Season %d finalized", active.SeasonNumber),
		Finalized:      active.SeasonNumber,
		FinalStandings: standings,
		Next:           toResponse(next, s.now()),
	}, nil
}
