package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationAchievement = "achievement_unlocked"
	NotificationLevelUp     = "level_up"
	NotificationLeagueRank  = "league_rank_up"
	NotificationSeasonEnd   = "season_result"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_notif_user,priority:1" json:"user_id"`
	Type       string    `gorm:"type:varchar(50);not null" json:"type"`
	Message    string    `gorm:"type:text" json:"message"`
	EntityID   string    `gorm:"type:varchar(64)" json:"entity_id,omitempty"`
	EntityType string    `gorm:"type:varchar(50)" json:"entity_type,omitempty"`
	IsRead     bool      `gorm:"default:false;index:idx_notif_user,priority:2" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
