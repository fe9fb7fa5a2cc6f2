package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	leagueRepo "leximind.com/api/internal/modules/league/repository"
	seasonRepo "leximind.com/api/internal/modules/season/repository"
	userRepo "leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/logger"
)

type fakeSeasonRepo struct {
	seasonRepo.SeasonRepository
	seasons   []*entity.Season
	standings []entity.SeasonStanding
	// stale is returned once by FindActive, as a read that raced a rollover.
	stale *entity.Season
}

func (f *fakeSeasonRepo) FindActive(context.Context) (*entity.Season, error) {
	if f.stale != nil {
		cp := *f.stale
		f.stale = nil
		return &cp, nil
	}
	for _, s := range f.seasons {
		if s.Status == entity.SeasonActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSeasonRepo) LastNumber(context.Context) (int, error) {
	last := 0
	for _, s := range f.seasons {
		last = max(last, s.SeasonNumber)
	}
	return last, nil
}

func (f *fakeSeasonRepo) Create(_ context.Context, s *entity.Season) error {
	s.ID = uuid.New()
	cp := *s
	f.seasons = append(f.seasons, &cp)
	return nil
}

func (f *fakeSeasonRepo) Complete(_ context.Context, id uuid.UUID, at time.Time, st []entity.SeasonStanding) (bool, error) {
	for _, s := range f.seasons {
		if s.ID == id && s.Status == entity.SeasonActive {
			s.Status = entity.SeasonCompleted
			s.FinalizedAt = &at
			for i := range st {
				st[i].SeasonID = id
			}
			f.standings = append(f.standings, st...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSeasonRepo) FindHistory(_ context.Context, userID uuid.UUID) ([]entity.SeasonStanding, error) {
	var out []entity.SeasonStanding
	for _, st := range f.standings {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

type fakeLeagueRepo struct {
	leagueRepo.LeagueRepository
	leagues []entity.League
}

func (f *fakeLeagueRepo) FindStartingBetween(_ context.Context, from, to time.Time) ([]entity.League, error) {
	var out []entity.League
	for _, l := range f.leagues {
		if !l.StartDate.Before(from) && l.StartDate.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	userRepo.UserRepository
	users  []*entity.User
	prizes map[uuid.UUID]int
}

func (f *fakeUserRepo) FindAll(context.Context) ([]*entity.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) AwardSeasonPrize(_ context.Context, id uuid.UUID, xp int) error {
	f.prizes[id] += xp
	for _, u := range f.users {
		if u.ID == id {
			u.ProfileStar = true
		}
	}
	return nil
}

type recordingNotifier struct{ count int }

func (r *recordingNotifier) Notify(context.Context, uuid.UUID, string, string, string, string) {
	r.count++
}

var seasonStart = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *seasonService
	seasons  *fakeSeasonRepo
	users    *fakeUserRepo
	notifier *recordingNotifier
	a, b, c  *entity.User
}

func newFixture(now time.Time) *fixture {
	a := &entity.User{ID: uuid.New(), Username: "A", CreatedAt: seasonStart.Add(-72 * time.Hour)}
	b := &entity.User{ID: uuid.New(), Username: "B", CreatedAt: seasonStart.Add(-48 * time.Hour)}
	c := &entity.User{ID: uuid.New(), Username: "C", CreatedAt: seasonStart.Add(-24 * time.Hour)}

	week := func(start time.Time, pa, pb, pc int) entity.League {
		return entity.League{ID: uuid.New(), StartDate: start, Standings: []entity.LeagueStanding{
			{UserID: a.ID, Username: "A", Points: pa},
			{UserID: b.ID, Username: "B", Points: pb},
			{UserID: c.ID, Username: "C", Points: pc},
		}}
	}
	leagues := &fakeLeagueRepo{leagues: []entity.League{
		week(time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC), 999, 999, 999),
		week(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), 30, 20, 5),
		week(time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC), 40, 50, 5),
		week(time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), 999, 999, 999),
	}}

	f := &fixture{
		seasons: &fakeSeasonRepo{seasons: []*entity.Season{{
			ID: uuid.New(), SeasonNumber: 1, Year: 2026, Status: entity.SeasonActive,
			StartDate: seasonStart, EndDate: seasonStart.Add(seasonLength),
		}}},
		users:    &fakeUserRepo{users: []*entity.User{a, b, c}, prizes: map[uuid.UUID]int{}},
		notifier: &recordingNotifier{},
		a:        a, b: b, c: c,
	}
	f.svc = NewSeasonService(f.seasons, leagues, f.users, f.notifier, logger.Nop()).(*seasonService)
	f.svc.now = func() time.Time { return now }
	return f
}

// TestAggregateTieBreak verifies equal totals are ordered by account age.
func TestAggregateTieBreak(t *testing.T) {
	f := newFixture(seasonStart)
	leagues, _ := f.svc.leagues.FindStartingBetween(context.Background(), seasonStart, seasonStart.Add(seasonLength))
	require.Len(t, leagues, 2)

	created := map[uuid.UUID]time.Time{f.a.ID: f.a.CreatedAt, f.b.ID: f.b.CreatedAt, f.c.ID: f.c.CreatedAt}
	standings := Aggregate(leagues, created)
	require.Len(t, standings, 3)
	assert.Equal(t, "A", standings[0].Username)
	assert.Equal(t, 70, standings[0].TotalPoints)
	assert.Equal(t, "B", standings[1].Username)
	assert.Equal(t, 70, standings[1].TotalPoints)
	assert.Equal(t, "C", standings[2].Username)
	assert.Equal(t, 3, standings[2].Rank)
}

// TestResolveFinalizesExpiredSeason verifies lazy rollover, prizes and history.
func TestResolveFinalizesExpiredSeason(t *testing.T) {
	now := seasonStart.Add(seasonLength + 48*time.Hour)
	f := newFixture(now)
	ctx := context.Background()

	active, err := f.svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, active.SeasonNumber)
	assert.Equal(t, entity.SeasonActive, active.Status)
	assert.Equal(t, now, active.StartDate)
	assert.Equal(t, entity.SeasonCompleted, f.seasons.seasons[0].Status)

	assert.Equal(t, map[uuid.UUID]int{f.a.ID: 500, f.b.ID: 300, f.c.ID: 100}, f.users.prizes)
	assert.True(t, f.a.ProfileStar)
	assert.Equal(t, 3, f.notifier.count)

	history, err := f.svc.History(ctx, f.b.ID)
	require.NoError(t, err)
	require.Len(t, history.SeasonHistory, 1)
	assert.Equal(t, 2, history.SeasonHistory[0].Rank)
	assert.Equal(t, "⭐", history.SeasonHistory[0].Badge)
	assert.Equal(t, 1, history.SeasonHistory[0].SeasonNumber)
	assert.True(t, history.ProfileStar)

	again, err := f.svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, active.ID, again.ID)
	assert.Len(t, f.seasons.seasons, 2)
}

// TestResolveAfterLostRollover verifies a caller that read the expired season
// late reuses the successor instead of opening another one.
func TestResolveAfterLostRollover(t *testing.T) {
	f := newFixture(seasonStart.Add(seasonLength + 48*time.Hour))
	ctx := context.Background()

	expired := *f.seasons.seasons[0]
	first, err := f.svc.Resolve(ctx)
	require.NoError(t, err)

	f.seasons.stale = &expired
	second, err := f.svc.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	active := 0
	for _, s := range f.seasons.seasons {
		if s.Status == entity.SeasonActive {
			active++
		}
	}
	assert.Equal(t, 1, active)
	assert.Len(t, f.seasons.seasons, 2)
	assert.Len(t, f.seasons.standings, 3)
}

// TestFinalizeIsIdempotent verifies a completed season is never finalized twice.
func TestFinalizeIsIdempotent(t *testing.T) {
	f := newFixture(seasonStart.Add(24 * time.Hour))
	ctx := context.Background()

	season := *f.seasons.seasons[0]
	first, err := f.svc.finalize(ctx, &season)
	require.NoError(t, err)
	assert.Len(t, first, 3)

	stale := *f.seasons.seasons[0]
	stale.Status = entity.SeasonActive
	second, err := f.svc.finalize(ctx, &stale)
	require.NoError(t, err)
	assert.Nil(t, second)

	done := *f.seasons.seasons[0]
	third, err := f.svc.finalize(ctx, &done)
	require.NoError(t, err)
	assert.Nil(t, third)

	assert.Len(t, f.seasons.standings, 3)
	assert.Equal(t, 500, f.users.prizes[f.a.ID])
}

// TestFinalizeActive verifies the manual rollover opens the next season.
func TestFinalizeActive(t *testing.T) {
	now := seasonStart.Add(10 * 24 * time.Hour)
	f := newFixture(now)

	res, err := f.svc.FinalizeActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Finalized)
	assert.Len(t, res.FinalStandings, 3)
	assert.Equal(t, 2, res.Next.SeasonNumber)
	assert.Equal(t, 0, res.Next.WeeksElapsed)
	assert.Equal(t, SeasonWeeks, res.Next.WeeksRemaining)
}

// TestWeeksElapsed verifies the counters stay inside the season length.
func TestWeeksElapsed(t *testing.T) {
	elapsed, remaining := WeeksElapsed(seasonStart, seasonStart.Add(10*24*time.Hour))
	assert.Equal(t, 1, elapsed)
	assert.Equal(t, 3, remaining)

	elapsed, remaining = WeeksElapsed(seasonStart, seasonStart.Add(40*24*time.Hour))
	assert.Equal(t, 4, elapsed)
	assert.Equal(t, 0, remaining)
}
