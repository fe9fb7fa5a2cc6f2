package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	gamification "leximind.com/api/internal/modules/gamification/service"
)

// GameStatsDelta holds the counter increments of one finished game.
type GameStatsDelta struct {
	XP            int
	Points        int
	WordsLearned  int
	GamesPlayed   int
	DailyProgress int
	// DailyReset restarts the daily counter at DailyProgress for that day.
	DailyReset *time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindRoleByName(ctx context.Context, name string) (*entity.Role, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	// FindStudents returns every student ordered by points desc, then
	// account age, then id, which is the ranking order used everywhere.
	FindStudents(ctx context.Context) ([]*entity.User, error)
	TopStudents(ctx context.Context, limit int) ([]*entity.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	UpdateLoginState(ctx context.Context, user *entity.User) error
	// IncrementGameStats adds delta to the stored counters and returns the
	// updated user.
	IncrementGameStats(ctx context.Context, id uuid.UUID, delta GameStatsDelta) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateLeagueRanks(ctx context.Context, ranks map[uuid.UUID]int) error
	AwardSeasonPrize(ctx context.Context, id uuid.UUID, xpBonus int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) roleIDs(name string) *gorm.DB {
	return r.db.Model(&entity.Role{}).Select("id").Where("name = ?", name)
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	var role entity.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}

	return &role, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Order("created_at asc").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) FindStudents(ctx context.Context) ([]*entity.User, error) {
	return r.TopStudents(ctx, 0)
}

func (r *userRepository) TopStudents(ctx context.Context, limit int) ([]*entity.User, error) {
	var users []*entity.User
	query := r.db.WithContext(ctx).
		Preload("Role").
		Where("role_id IN (?)", r.roleIDs(entity.RoleStudent)).
		Order("points desc").
		Order("created_at asc").
		Order("id asc")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("role_id IN (?)", r.roleIDs(role)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateLoginState writes streak and daily reset in a single statement.
func (r *userRepository) UpdateLoginState(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"streak":               user.Streak,
			"last_login_date":      user.LastLoginDate,
			"daily_words_progress": user.DailyWordsProgress,
			"daily_words_target":   user.DailyWordsTarget,
			"last_daily_reset":     user.LastDailyReset,
		}).Error
}

func (r *userRepository) IncrementGameStats(ctx context.Context, id uuid.UUID, delta GameStatsDelta) (*entity.User, error) {
	updates := map[string]interface{}{
		"xp":            gorm.Expr("xp + ?", delta.XP),
		"level":         gorm.Expr("(xp + ?) / ? + 1", delta.XP, gamification.XPPerLevel),
		"points":        gorm.Expr("points + ?", delta.Points),
		"words_learned": gorm.Expr("words_learned + ?", delta.WordsLearned),
		"games_played":  gorm.Expr("games_played + ?", delta.GamesPlayed),
	}
	if delta.DailyReset != nil {
		updates["daily_words_progress"] = delta.DailyProgress
		updates["last_daily_reset"] = delta.DailyReset
	} else if delta.DailyProgress != 0 {
		updates["daily_words_progress"] = gorm.Expr("daily_words_progress + ?", delta.DailyProgress)
	}

	var user entity.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Preload("Role").Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *userRepository) UpdateLeagueRanks(ctx context.Context, ranks map[uuid.UUID]int) error {
	db := r.db.WithContext(ctx)
	for id, rank := range ranks {
		if err := db.Model(&entity.User{}).Where("id = ?", id).Update("league_rank", rank).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) AwardSeasonPrize(ctx context.Context, id uuid.UUID, xpBonus int) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"profile_star": true,
			"xp":           gorm.Expr("xp + ?", xpBonus),
			"level":        gorm.Expr("(xp + ?) / ? + 1", xpBonus, gamification.XPPerLevel),
		}).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id).Error
}
