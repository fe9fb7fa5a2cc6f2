package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	achievement "leximind.com/api/internal/modules/achievement/service"
	"leximind.com/api/internal/modules/game/dto"
	gameRepo "leximind.com/api/internal/modules/game/repository"
	gamification "leximind.com/api/internal/modules/gamification/service"
	userRepo "leximind.com/api/internal/modules/user/repository"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/metrics"
)

const (
	scoreHistoryLimit = 100
	wordMatchPairs    = 6
)

type GameService interface {
	SubmitScore(ctx context.Context, userID uuid.UUID, req dto.SubmitScoreRequest) (*dto.SubmitScoreResponse, error)
	GetScores(ctx context.Context, userID uuid.UUID) ([]entity.GameScore, error)
	StartWordMatch(ctx context.Context, userID uuid.UUID, req dto.WordMatchStartRequest) (*dto.WordMatchStartResponse, error)
	CompleteWordMatch(ctx context.Context, userID uuid.UUID, req dto.WordMatchCompleteRequest) (*dto.WordMatchCompleteResponse, error)
}

type gameService struct {
	users        userRepo.UserRepository
	games        gameRepo.GameRepository
	words        wordRepo.WordRepository
	achievements achievement.AchievementService
	notifier     achievement.Notifier
	log          *logger.Logger
	now          func() time.Time
}

func NewGameService(
	users userRepo.UserRepository,
	games gameRepo.GameRepository,
	words wordRepo.WordRepository,
	achievements achievement.AchievementService,
	notifier achievement.Notifier,
	log *logger.Logger,
) GameService {
	return &gameService{
		users:        users,
		games:        games,
		words:        words,
		achievements: achievements,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

func (s *gameService) loadUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *gameService) SubmitScore(ctx context.Context, userID uuid.UUID, req dto.SubmitScoreRequest) (*dto.SubmitScoreResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsStudent() {
		return &dto.SubmitScoreResponse{
			Message:         "Scores are not recorded for staff accounts",
			ScoreOutcome:    gamification.ScoreOutcome{LevelBefore: user.Level, Level: user.Level, DailyProgress: user.DailyWordsProgress},
			NewAchievements: []entity.Achievement{},
		}, nil
	}

	now := s.now()
	reset := gamification.NeedsDailyReset(user.LastDailyReset, now)
	outcome := gamification.ApplyScore(user, gamification.ScoreInput{
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		WrongAnswers:   req.WrongAnswers,
	}, now)

	score := &entity.GameScore{
		UserID:         user.ID,
		GameType:       req.GameType,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		WrongAnswers:   req.WrongAnswers,
		Completed:      req.Completed,
	}
	if err := s.games.CreateScore(ctx, score); err != nil {
		return nil, err
	}
	correct := max(req.CorrectAnswers, 0)
	delta := userRepo.GameStatsDelta{
		XP:            outcome.XPEarned,
		Points:        outcome.PointsEarned,
		WordsLearned:  correct,
		GamesPlayed:   1,
		DailyProgress: correct,
	}
	if reset {
		delta.DailyProgress = user.DailyWordsProgress
		delta.DailyReset = user.LastDailyReset
	}
	user, err = s.users.IncrementGameStats(ctx, user.ID, delta)
	if err != nil {
		return nil, err
	}
	outcome.Level = user.Level

	metrics.GameSubmissions.WithLabelValues(req.GameType).Inc()
	s.log.Info("score submitted", "user_id", user.ID, "game_type", req.GameType, "xp", outcome.XPEarned, "points", outcome.PointsEarned)

	if outcome.LeveledUp() {
		s.notifyLevelUp(ctx, user)
	}

	return &dto.SubmitScoreResponse{
		Message:         "Score submitted",
		Score:           score,
		ScoreOutcome:    outcome,
		NewAchievements: s.unlock(ctx, user),
	}, nil
}

// unlock runs the achievement pass. A failing pass never fails the game.
func (s *gameService) unlock(ctx context.Context, user *entity.User) []entity.Achievement {
	if s.achievements == nil {
		return []entity.Achievement{}
	}
	earned, err := s.achievements.Unlock(ctx, user)
	if err != nil {
		s.log.Warn("achievement pass failed", "user_id", user.ID, "error", err)
		return []entity.Achievement{}
	}
	return earned
}

func (s *gameService) notifyLevelUp(ctx context.Context, user *entity.User) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, user.ID, entity.NotificationLevelUp,
		fmt.Sprintf("Level up! You reached level %d", user.Level), "user", user.ID.String())
}

func (s *gameService) GetScores(ctx context.Context, userID uuid.UUID) ([]entity.GameScore, error) {
	return s.games.FindScoresByUser(ctx, userID, scoreHistoryLimit)
}

func (s *gameService) StartWordMatch(ctx context.Context, userID uuid.UUID, req dto.WordMatchStartRequest) (*dto.WordMatchStartResponse, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "easy"
	}

	query := wordRepo.RandomQuery{Limit: wordMatchPairs}
	if difficulty == "easy" {
		query.Difficulty = 1
	}

	words, err := s.words.Random(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(words) < wordMatchPairs {
		return nil, apperror.BadRequest("Not enough words for game")
	}

	pairs := make([]entity.WordMatchPair, 0, len(words))
	res := &dto.WordMatchStartResponse{MatchType: req.MatchType}
	for _, w := range words {
		pair := entity.WordMatchPair{WordID: w.ID, English: w.English, Target: matchTarget(w, req.MatchType)}
		pairs = append(pairs, pair)
		res.Words = append(res.Words, dto.WordMatchWord{Word: w.English, WordID: w.ID})
		res.Targets = append(res.Targets, pair.Target)
	}
	rand.Shuffle(len(res.Targets), func(i, j int) {
		res.Targets[i], res.Targets[j] = res.Targets[j], res.Targets[i]
	})

	game := &entity.WordMatchGame{
		UserID:     userID,
		MatchType:  req.MatchType,
		Difficulty: difficulty,
		Pairs:      pairs,
	}
	if err := s.games.CreateWordMatch(ctx, game); err != nil {
		return nil, err
	}

	res.GameID = game.ID
	return res, nil
}

// matchTarget is the translation for meaning rounds and an example sentence
// for sentence rounds.
func matchTarget(w entity.Word, matchType string) string {
	if matchType != "sentence" {
		return w.Translation
	}
	if len(w.ExampleSentences) > 0 {
		return w.ExampleSentences[rand.IntN(len(w.ExampleSentences))].Sentence
	}
	return "Example sentence with " + w.English
}

func (s *gameService) CompleteWordMatch(ctx context.Context, userID uuid.UUID, req dto.WordMatchCompleteRequest) (*dto.WordMatchCompleteResponse, error) {
	game, err := s.games.FindWordMatch(ctx, uuid.MustParse(req.GameID), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("game not found")
		}
		return nil, err
	}
	if game.Completed {
		return nil, apperror.BadRequest("game already completed")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	game.Score = req.Score
	game.TimeTaken = req.TimeTaken
	closed, err := s.games.CompleteWordMatch(ctx, game)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, apperror.BadRequest("game already completed")
	}

	if !user.IsStudent() {
		return &dto.WordMatchCompleteResponse{
			Message:          "Game completed",
			WordMatchOutcome: gamification.WordMatchOutcome{LevelBefore: user.Level, Level: user.Level},
			NewAchievements:  []entity.Achievement{},
		}, nil
	}

	outcome := gamification.ApplyWordMatch(user, req.Score, req.TimeTaken)
	user, err = s.users.IncrementGameStats(ctx, user.ID, userRepo.GameStatsDelta{
		XP:          outcome.XPEarned,
		Points:      outcome.PointsEarned,
		GamesPlayed: 1,
	})
	if err != nil {
		return nil, err
	}
	outcome.Level = user.Level

	metrics.GameSubmissions.WithLabelValues(entity.GameWordMatch).Inc()
	s.log.Info("word match completed", "user_id", user.ID, "game_id", game.ID, "score", req.Score, "time_taken", req.TimeTaken)

	if outcome.Level > outcome.LevelBefore {
		s.notifyLevelUp(ctx, user)
	}

	return &dto.WordMatchCompleteResponse{
		Message:          "Game completed",
		WordMatchOutcome: outcome,
		NewAchievements:  s.unlock(ctx, user),
	}, nil
}
