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
	require.NoError(t, db.AutoMigrate(&entity.Achievement{}, &entity.UserAchievement{}))
	return db
}

// TestAwardIsIdempotent verifies the unique index turns a second award into a no-op.
func TestAwardIsIdempotent(t *testing.T) {
	repo := NewAchievementRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.EnsureCatalog(ctx, []entity.Achievement{
		{Code: "first_word", Name: "First Step", RequirementType: entity.RequirementWordsLearned, RequirementValue: 1},
	}))
	require.NoError(t, repo.EnsureCatalog(ctx, []entity.Achievement{
		{Code: "first_word", Name: "Renamed", RequirementType: entity.RequirementWordsLearned, RequirementValue: 1},
	}))

	catalog, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "First Step", catalog[0].Name)

	userID := uuid.New()
	inserted, err := repo.Award(ctx, &entity.UserAchievement{UserID: userID, AchievementID: catalog[0].ID, EarnedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Award(ctx, &entity.UserAchievement{UserID: userID, AchievementID: catalog[0].ID, EarnedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, inserted)

	earned, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	require.NotNil(t, earned[0].Achievement)
	assert.Equal(t, "first_word", earned[0].Achievement.Code)

	ids, err := repo.EarnedIDs(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ids[catalog[0].ID])
}
