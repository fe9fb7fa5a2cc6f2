package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	learningRepo "leximind.com/api/internal/modules/learning/repository"
	league "leximind.com/api/internal/modules/league/service"
	"leximind.com/api/internal/modules/report/dto"
	"leximind.com/api/internal/modules/report/repository"
	season "leximind.com/api/internal/modules/season/service"
	userDto "leximind.com/api/internal/modules/user/dto"
	userRepo "leximind.com/api/internal/modules/user/repository"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	commonDto "leximind.com/api/pkg/dto"
	"leximind.com/api/pkg/logger"
)

const (
	topErrorCategories = 5
	classWinners       = 10
)

type ReportService interface {
	Students(ctx context.Context) ([]commonDto.UserSummary, error)
	Statistics(ctx context.Context) (*dto.StatisticsResponse, error)
	StudentReports(ctx context.Context) (*dto.ReportsResponse, error)
	GenerateReport(ctx context.Context, teacherID, studentID uuid.UUID) (*dto.GeneratedReportResponse, error)
	ClassWinners(ctx context.Context) (*dto.ClassWinnersResponse, error)
}

type reportService struct {
	repo     repository.ReportRepository
	users    userRepo.UserRepository
	words    wordRepo.WordRepository
	learning learningRepo.LearningRepository
	seasons  season.SeasonService
	log      *logger.Logger
	now      func() time.Time
}

func NewReportService(
	repo repository.ReportRepository,
	users userRepo.UserRepository,
	words wordRepo.WordRepository,
	learning learningRepo.LearningRepository,
	seasons season.SeasonService,
	log *logger.Logger,
) ReportService {
	return &reportService{
		repo:     repo,
		users:    users,
		words:    words,
		learning: learning,
		seasons:  seasons,
		log:      log,
		now:      time.Now,
	}
}

func (s *reportService) Students(ctx context.Context) ([]commonDto.UserSummary, error) {
	students, err := s.users.FindStudents(ctx)
	if err != nil {
		return nil, err
	}
	return userDto.ToSummaries(students), nil
}

func (s *reportService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	students, err := s.users.CountByRole(ctx, entity.RoleStudent)
	if err != nil {
		return nil, err
	}
	words, err := s.words.Count(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.repo.CountGames(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.GameTypeCounts(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatisticsResponse{
		TotalStudents: students,
		TotalWords:    words,
		TotalGames:    games,
		GameStats:     stats,
	}, nil
}

func (s *reportService) build(ctx context.Context, u *entity.User, weekly map[uuid.UUID]int) (entity.StudentReport, error) {
	weak, err := s.learning.TopCategories(ctx, u.ID, topErrorCategories)
	if err != nil {
		return entity.StudentReport{}, err
	}
	if weak == nil {
		weak = []entity.CategoryStat{}
	}
	avg, err := s.learning.AverageScore(ctx, u.ID)
	if err != nil {
		return entity.StudentReport{}, err
	}

	return entity.StudentReport{
		StudentID:        u.ID,
		Username:         u.Username,
		ClassName:        u.ClassName,
		Level:            u.Level,
		XP:               u.XP,
		Points:           u.Points,
		TotalWords:       u.WordsLearned,
		WeeklyWords:      weekly[u.ID],
		Streak:           u.Streak,
		GamesPlayed:      u.GamesPlayed,
		LastLoginDate:    u.LastLoginDate,
		WeakCategories:   weak,
		PronunciationAvg: math.Round(avg*10) / 10,
	}, nil
}

func (s *reportService) StudentReports(ctx context.Context) (*dto.ReportsResponse, error) {
	start, end := league.WeekBounds(s.now())
	weekly, err := s.repo.CorrectAnswersBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	students, err := s.users.FindStudents(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]entity.StudentReport, 0, len(students))
	for _, u := range students {
		report, err := s.build(ctx, u, weekly)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return &dto.ReportsResponse{WeekStart: start, WeekEnd: end, Reports: reports}, nil
}

func (s *reportService) GenerateReport(ctx context.Context, teacherID, studentID uuid.UUID) (*dto.GeneratedReportResponse, error) {
	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("student not found")
		}
		return nil, err
	}
	if !student.IsStudent() {
		return nil, apperror.NotFound("student not found")
	}

	start, end := league.WeekBounds(s.now())
	weekly, err := s.repo.CorrectAnswersBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data, err := s.build(ctx, student, weekly)
	if err != nil {
		return nil, err
	}

	record := &entity.TeacherReport{TeacherID: teacherID, StudentID: studentID, Data: data}
	if err := s.repo.CreateReport(ctx, record); err != nil {
		return nil, err
	}
	s.log.Info("teacher report generated", "teacher_id", teacherID, "student_id", studentID, "report_id", record.ID)

	return &dto.GeneratedReportResponse{
		ReportID:   record.ID,
		Message:    reportMessage(data),
		WeekStart:  start,
		WeekEnd:    end,
		ReportData: data,
	}, nil
}

func reportMessage(r entity.StudentReport) string {
	top := "none"
	if len(r.WeakCategories) > 0 {
		top = r.WeakCategories[0].Category
	}
	return fmt.Sprintf("%s learned %d words this week. Most mistakes were in '%s'.", r.Username, r.WeeklyWords, top)
}

func (s *reportService) ClassWinners(ctx context.Context) (*dto.ClassWinnersResponse, error) {
	standings, err := s.seasons.Standings(ctx)
	if err != nil {
		return nil, err
	}

	winners := standings.Standings
	if len(winners) > classWinners {
		winners = winners[:classWinners]
	}
	if winners == nil {
		winners = []entity.SeasonStanding{}
	}

	return &dto.ClassWinnersResponse{
		Season:  standings.SeasonNumber,
		Winners: winners,
		Message: fmt.Sprintf("Season %d: the top 3 earn a special badge!", standings.SeasonNumber),
	}, nil
}
