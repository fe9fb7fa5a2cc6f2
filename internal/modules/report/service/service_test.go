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
	learningRepo "leximind.com/api/internal/modules/learning/repository"
	"leximind.com/api/internal/modules/report/repository"
	seasonDto "leximind.com/api/internal/modules/season/dto"
	season "leximind.com/api/internal/modules/season/service"
	userRepo "leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
)

type fakeReportRepo struct {
	repository.ReportRepository
	weekly  map[uuid.UUID]int
	from    time.Time
	to      time.Time
	created []*entity.TeacherReport
}

func (f *fakeReportRepo) CorrectAnswersBetween(_ context.Context, from, to time.Time) (map[uuid.UUID]int, error) {
	f.from, f.to = from, to
	return f.weekly, nil
}

func (f *fakeReportRepo) CreateReport(_ context.Context, r *entity.TeacherReport) error {
	r.ID = uuid.New()
	f.created = append(f.created, r)
	return nil
}

type fakeUserRepo struct {
	userRepo.UserRepository
	users []*entity.User
}

func (f *fakeUserRepo) FindStudents(context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.IsStudent() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeLearningRepo struct {
	learningRepo.LearningRepository
	categories map[uuid.UUID][]entity.CategoryStat
}

func (f *fakeLearningRepo) TopCategories(_ context.Context, userID uuid.UUID, _ int) ([]entity.CategoryStat, error) {
	return f.categories[userID], nil
}

func (f *fakeLearningRepo) AverageScore(context.Context, uuid.UUID) (float64, error) {
	return 82.345, nil
}

type fakeSeasons struct {
	season.SeasonService
	standings []entity.SeasonStanding
}

func (f *fakeSeasons) Standings(context.Context) (*seasonDto.StandingsResponse, error) {
	return &seasonDto.StandingsResponse{SeasonNumber: 3, Status: entity.SeasonActive, Standings: f.standings}, nil
}

func newReportFixture() (*reportService, *fakeReportRepo, *fakeUserRepo, *fakeSeasons) {
	sari := &entity.User{ID: uuid.New(), Username: "sari", Role: entity.Role{Name: entity.RoleStudent}, WordsLearned: 40}
	budi := &entity.User{ID: uuid.New(), Username: "budi", Role: entity.Role{Name: entity.RoleTeacher}}

	repo := &fakeReportRepo{weekly: map[uuid.UUID]int{sari.ID: 12}}
	users := &fakeUserRepo{users: []*entity.User{sari, budi}}
	learning := &fakeLearningRepo{categories: map[uuid.UUID][]entity.CategoryStat{
		sari.ID: {{Category: "animals", Count: 4}, {Category: "food", Count: 1}},
	}}
	seasons := &fakeSeasons{}

	svc := NewReportService(repo, users, nil, learning, seasons, logger.Nop()).(*reportService)
	svc.now = func() time.Time { return time.Date(2026, time.April, 22, 9, 0, 0, 0, time.UTC) }
	return svc, repo, users, seasons
}

// TestStudentReports verifies weekly words come from the current ISO week.
func TestStudentReports(t *testing.T) {
	svc, repo, _, _ := newReportFixture()

	res, err := svc.StudentReports(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Reports, 1)

	r := res.Reports[0]
	assert.Equal(t, "sari", r.Username)
	assert.Equal(t, 12, r.WeeklyWords)
	assert.Equal(t, 40, r.TotalWords)
	assert.Equal(t, "animals", r.WeakCategories[0].Category)
	assert.InDelta(t, 82.3, r.PronunciationAvg, 1e-9)
	assert.Equal(t, time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC), repo.from)
}

// TestGenerateReport verifies the record is stored and non students are rejected.
func TestGenerateReport(t *testing.T) {
	svc, repo, users, _ := newReportFixture()
	ctx := context.Background()
	teacher := users.users[1]
	student := users.users[0]

	res, err := svc.GenerateReport(ctx, teacher.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "sari learned 12 words this week. Most mistakes were in 'animals'.", res.Message)
	require.Len(t, repo.created, 1)
	assert.Equal(t, res.ReportID, repo.created[0].ID)
	assert.Equal(t, student.ID, repo.created[0].Data.StudentID)

	_, err = svc.GenerateReport(ctx, teacher.ID, teacher.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.GenerateReport(ctx, teacher.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// TestClassWinners verifies only the top ten are returned.
func TestClassWinners(t *testing.T) {
	svc, _, _, seasons := newReportFixture()
	for i := range 12 {
		seasons.standings = append(seasons.standings, entity.SeasonStanding{UserID: uuid.New(), Rank: i + 1})
	}

	res, err := svc.ClassWinners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Season)
	assert.Len(t, res.Winners, 10)
	assert.Equal(t, 10, res.Winners[9].Rank)
}
