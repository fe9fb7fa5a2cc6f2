package bootstrap

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	achievementRepo "leximind.com/api/internal/modules/achievement/repository"
	achievement "leximind.com/api/internal/modules/achievement/service"
	"leximind.com/api/pkg/logger"
)

type Options struct {
	AdminPassword string
	// DemoUsers seeds demo_student and demo_teacher.
	DemoUsers bool
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Category{},
		&entity.Word{},
		&entity.WordPack{},
		&entity.GameScore{},
		&entity.WordMatchGame{},
		&entity.Achievement{},
		&entity.UserAchievement{},
		&entity.UserWordProgress{},
		&entity.UserWordError{},
		&entity.PersonalizedPlan{},
		&entity.PronunciationAttempt{},
		&entity.League{},
		&entity.LeagueStanding{},
		&entity.Season{},
		&entity.SeasonStanding{},
		&entity.Quiz{},
		&entity.StoryMilestone{},
		&entity.TeacherReport{},
		&entity.Notification{},
	)
}

// Seed brings a fresh database to a usable state. Every step is idempotent.
func Seed(ctx context.Context, db *gorm.DB, opts Options, log *logger.Logger) error {
	db = db.WithContext(ctx)

	if err := SeedRoles(db); err != nil {
		return err
	}

	password := opts.AdminPassword
	if password == "" {
		password = "admin123"
	}
	if err := seedUser(db, entity.AdminUsername, password, entity.RoleAdmin, log); err != nil {
		return err
	}
	if opts.DemoUsers {
		if err := seedUser(db, "demo_student", "student123", entity.RoleStudent, log); err != nil {
			return err
		}
		if err := seedUser(db, "demo_teacher", "teacher123", entity.RoleTeacher, log); err != nil {
			return err
		}
	}

	if err := SeedWords(db, log); err != nil {
		return err
	}

	return achievementRepo.NewAchievementRepository(db).EnsureCatalog(ctx, achievement.DefaultCatalog())
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []entity.Role{
		{Name: entity.RoleAdmin, Description: "Super administrator"},
		{Name: entity.RoleTeacher, Description: "Teacher"},
		{Name: entity.RoleStudent, Description: "Student"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedUser(db *gorm.DB, username, password, roleName string, log *logger.Logger) error {
	var existing entity.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var role entity.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := entity.User{
		Username:         username,
		PasswordHash:     string(hash),
		RoleID:           &role.ID,
		Level:            1,
		DailyWordsTarget: entity.DefaultDailyWordsTarget,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	log.Info("user seeded", "username", username, "role", roleName)
	return nil
}

var sampleWords = []entity.Word{
	{English: "apple", Translation: "elma", Difficulty: 1, Category: "food"},
	{English: "book", Translation: "kitap", Difficulty: 1, Category: "education"},
	{English: "cat", Translation: "kedi", Difficulty: 1, Category: "animals"},
	{English: "dog", Translation: "köpek", Difficulty: 1, Category: "animals"},
	{English: "house", Translation: "ev", Difficulty: 1, Category: "places"},
	{English: "beautiful", Translation: "güzel", Difficulty: 2, Category: "adjectives"},
	{English: "important", Translation: "önemli", Difficulty: 2, Category: "adjectives"},
	{English: "understand", Translation: "anlamak", Difficulty: 3, Category: "verbs"},
}

// SeedWords loads the sample catalog and its categories into an empty word table.
func SeedWords(db *gorm.DB, log *logger.Logger) error {
	var count int64
	if err := db.Model(&entity.Word{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	words := make([]entity.Word, len(sampleWords))
	seen := map[string]bool{}
	for i, w := range sampleWords {
		w.Status = entity.WordStatusApproved
		w.ExampleSentences = []entity.ExampleSentence{}
		words[i] = w

		if seen[w.Category] {
			continue
		}
		seen[w.Category] = true
		if err := db.Where("slug = ?", w.Category).
			FirstOrCreate(&entity.Category{Name: strings.ToUpper(w.Category[:1]) + w.Category[1:], Slug: w.Category}).Error; err != nil {
			return err
		}
	}

	if err := db.Create(&words).Error; err != nil {
		return err
	}

	log.Info("sample words seeded", "count", len(words))
	return nil
}
