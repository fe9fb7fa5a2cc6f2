package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// AdminUsername is the seeded superuser that can never be deleted.
const AdminUsername = "admin"

const DefaultDailyWordsTarget = 5

// User holds credentials together with the gamification counters that the
// engine mutates on login and score submission.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	ClassName    *string   `gorm:"size:50" json:"class_name,omitempty"`

	Points       int `gorm:"not null;default:0;index" json:"points"`
	XP           int `gorm:"not null;default:0" json:"xp"`
	Level        int `gorm:"not null;default:1" json:"level"`
	WordsLearned int `gorm:"not null;default:0" json:"words_learned"`
	GamesPlayed  int `gorm:"not null;default:0" json:"games_played"`

	Streak        int        `gorm:"not null;default:0" json:"streak"`
	LastLoginDate *time.Time `gorm:"type:date" json:"last_login_date"`

	DailyWordsTarget   int        `gorm:"not null;default:5" json:"daily_words_target"`
	DailyWordsProgress int        `gorm:"not null;default:0" json:"daily_words_progress"`
	LastDailyReset     *time.Time `gorm:"type:date" json:"last_daily_reset"`

	LeagueRank  *int `json:"league_rank"`
	ProfileStar bool `gorm:"not null;default:false" json:"profile_star"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) RoleName() string {
	return u.Role.Name
}

func (u *User) IsStudent() bool {
	return u.Role.Name == RoleStudent
}

func (u *User) IsStaff() bool {
	return u.Role.Name == RoleTeacher || u.Role.Name == RoleAdmin
}
