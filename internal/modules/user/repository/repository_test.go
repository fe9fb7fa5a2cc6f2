package repository

import (
	"context"
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(&entity.Role{}, &entity.User{}))
	return db
}

// TestIncrementGameStatsKeepsPrize verifies score increments stack on a prize
// credited after the user was read.
func TestIncrementGameStatsKeepsPrize(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	role := entity.Role{Name: entity.RoleStudent}
	require.NoError(t, db.Create(&role).Error)
	user := &entity.User{Username: "sari", PasswordHash: "x", RoleID: &role.ID, Level: 1, DailyWordsTarget: 5}
	require.NoError(t, repo.Create(ctx, user))

	stale, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AwardSeasonPrize(ctx, user.ID, 500))

	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	updated, err := repo.IncrementGameStats(ctx, stale.ID, GameStatsDelta{
		XP: 130, Points: 70, WordsLearned: 5, GamesPlayed: 1, DailyProgress: 5, DailyReset: &today,
	})
	require.NoError(t, err)
	assert.Equal(t, 630, updated.XP)
	assert.Equal(t, 7, updated.Level)
	assert.Equal(t, 70, updated.Points)
	assert.Equal(t, 5, updated.WordsLearned)
	assert.Equal(t, 1, updated.GamesPlayed)
	assert.Equal(t, 5, updated.DailyWordsProgress)
	assert.True(t, updated.ProfileStar)
	assert.Equal(t, entity.RoleStudent, updated.Role.Name)

	updated, err = repo.IncrementGameStats(ctx, user.ID, GameStatsDelta{XP: 20, Points: 10, WordsLearned: 2, GamesPlayed: 1, DailyProgress: 2})
	require.NoError(t, err)
	assert.Equal(t, 650, updated.XP)
	assert.Equal(t, 80, updated.Points)
	assert.Equal(t, 7, updated.DailyWordsProgress)
	assert.Equal(t, 2, updated.GamesPlayed)
}
