package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leximind.com/api/internal/entity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entity.League{}, &entity.LeagueStanding{}))
	return db
}

// TestReplaceStandings verifies a recompute swaps the whole snapshot.
func TestReplaceStandings(t *testing.T) {
	repo := NewLeagueRepository(newTestDB(t))
	ctx := context.Background()

	start := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	league := &entity.League{WeekNumber: 11, Year: 2026, StartDate: start, EndDate: start.AddDate(0, 0, 7)}
	require.NoError(t, repo.CreateIfMissing(ctx, league))

	a, b := uuid.New(), uuid.New()
	require.NoError(t, repo.ReplaceStandings(ctx, league.ID, []entity.LeagueStanding{
		{UserID: a, Username: "A", Points: 40, Rank: 1},
		{UserID: b, Username: "B", Points: 30, Rank: 2},
	}))
	require.NoError(t, repo.ReplaceStandings(ctx, league.ID, []entity.LeagueStanding{
		{UserID: b, Username: "B", Points: 60, Rank: 1},
		{UserID: a, Username: "A", Points: 40, Rank: 2},
	}))

	stored, err := repo.FindByWeek(ctx, 2026, 11)
	require.NoError(t, err)
	require.Len(t, stored.Standings, 2)
	assert.Equal(t, b, stored.Standings[0].UserID)
	assert.Equal(t, 60, stored.Standings[0].Points)
	assert.Equal(t, a, stored.Standings[1].UserID)
}

// TestReplaceStandingsUnknownLeague verifies the league row must exist.
func TestReplaceStandingsUnknownLeague(t *testing.T) {
	repo := NewLeagueRepository(newTestDB(t))

	err := repo.ReplaceStandings(context.Background(), uuid.New(), []entity.LeagueStanding{{UserID: uuid.New(), Username: "A", Rank: 1}})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
