package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leximind.com/api/internal/entity"
)

type LeagueRepository interface {
	FindByWeek(ctx context.Context, year, week int) (*entity.League, error)
	// CreateIfMissing inserts league unless its week already exists.
	CreateIfMissing(ctx context.Context, league *entity.League) error
	// ReplaceStandings swaps the snapshot of a league for standings.
	ReplaceStandings(ctx context.Context, leagueID uuid.UUID, standings []entity.LeagueStanding) error
	// FindStartingBetween returns leagues whose week starts in [from, to).
	FindStartingBetween(ctx context.Context, from, to time.Time) ([]entity.League, error)
}

type leagueRepository struct {
	db *gorm.DB
}

func NewLeagueRepository(db *gorm.DB) LeagueRepository {
	return &leagueRepository{db: db}
}

func orderedStandings(db *gorm.DB) *gorm.DB {
	return db.Order("rank asc")
}

func (r *leagueRepository) FindByWeek(ctx context.Context, year, week int) (*entity.League, error) {
	var league entity.League
	if err := r.db.WithContext(ctx).
		Preload("Standings", orderedStandings).
		Where("year = ? AND week_number = ?", year, week).
		First(&league).Error; err != nil {
		return nil, err
	}
	return &league, nil
}

func (r *leagueRepository) CreateIfMissing(ctx context.Context, league *entity.League) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "week_number"}, {Name: "year"}},
			DoNothing: true,
		}).
		Omit("Standings").
		Create(league).Error
}

func (r *leagueRepository) ReplaceStandings(ctx context.Context, leagueID uuid.UUID, standings []entity.LeagueStanding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Concurrent refreshes of one league queue on its row.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&entity.League{}, "id = ?", leagueID).Error; err != nil {
			return err
		}
		if err := tx.Where("league_id = ?", leagueID).Delete(&entity.LeagueStanding{}).Error; err != nil {
			return err
		}
		if len(standings) > 0 {
			for i := range standings {
				standings[i].ID = 0
				standings[i].LeagueID = leagueID
			}
			if err := tx.CreateInBatches(standings, 200).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entity.League{}).
			Where("id = ?", leagueID).
			Update("updated_at", time.Now().UTC()).Error
	})
}

func (r *leagueRepository) FindStartingBetween(ctx context.Context, from, to time.Time) ([]entity.League, error) {
	var leagues []entity.League
	if err := r.db.WithContext(ctx).
		Preload("Standings", orderedStandings).
		Where("start_date >= ? AND start_date < ?", from, to).
		Order("start_date asc").
		Find(&leagues).Error; err != nil {
		return nil, err
	}
	return leagues, nil
}
