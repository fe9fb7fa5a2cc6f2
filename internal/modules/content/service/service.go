package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/content/dto"
	"leximind.com/api/internal/modules/content/provider"
	"leximind.com/api/internal/modules/content/repository"
	userRepo "leximind.com/api/internal/modules/user/repository"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	word "leximind.com/api/internal/modules/word/service"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/metrics"
	"leximind.com/api/pkg/ratelimit"
)

const (
	kindExamples  = "examples"
	kindStory     = "story"
	kindQuestions = "questions"
	kindWords     = "text_to_words"
	kindMilestone = "milestone_story"

	rateLimitAction = "ai_generate"

	defaultLevel      = "beginner"
	defaultTopic      = "a day at school"
	defaultExampleNum = 3
	storyWordCount    = 5
	quizQuestionCount = 3
)

type ContentService interface {
	// GenerateExamples never fails; the bool reports the fallback path.
	GenerateExamples(ctx context.Context, word, translation, level string, count int) ([]entity.ExampleSentence, bool)
	Examples(ctx context.Context, userID uuid.UUID, req dto.ExamplesRequest) (*dto.ExamplesResponse, error)
	GenerateStory(ctx context.Context, userID uuid.UUID, req dto.StoryRequest) (*dto.StoryResponse, error)
	GenerateQuestions(ctx context.Context, userID uuid.UUID, req dto.QuestionsRequest) (*dto.QuestionsResponse, error)
	TextToWords(ctx context.Context, userID uuid.UUID, role string, req dto.TextToWordsRequest) (*dto.TextToWordsResponse, error)
	StoryUnlock(ctx context.Context, userID uuid.UUID) (*dto.StoryUnlockResponse, error)
	GenerateMilestoneStory(ctx context.Context, userID uuid.UUID, req dto.MilestoneStoryRequest) (*dto.MilestoneStoryResponse, error)
	StoryHistory(ctx context.Context, userID uuid.UUID) ([]entity.StoryMilestone, error)
}

type Options struct {
	Timeout  time.Duration
	Cooldown time.Duration
}

type contentService struct {
	llm       provider.LLMProvider
	repo      repository.ContentRepository
	words     wordRepo.WordRepository
	users     userRepo.UserRepository
	limiter   *ratelimit.Limiter
	sanitizer *bluemonday.Policy
	opts      Options
	log       *logger.Logger
}

// NewContentService wires the adapter. llm and limiter may be nil.
func NewContentService(
	llm provider.LLMProvider,
	repo repository.ContentRepository,
	words wordRepo.WordRepository,
	users userRepo.UserRepository,
	limiter *ratelimit.Limiter,
	opts Options,
	log *logger.Logger,
) ContentService {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &contentService{
		llm:       llm,
		repo:      repo,
		words:     words,
		users:     users,
		limiter:   limiter,
		sanitizer: bluemonday.StrictPolicy(),
		opts:      opts,
		log:       log,
	}
}

// generate calls the model under the configured timeout. ok is false when
// no provider is configured or the call failed.
func (s *contentService) generate(ctx context.Context, kind, system, prompt string) (string, bool) {
	if s.llm == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.llm.GenerateText(ctx, system, prompt)
	metrics.ContentLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Warn("language model call failed", "kind", kind, "provider", s.llm.Name(), "error", err)
		return "", false
	}
	return reply, true
}

func record(kind string, fallback bool) {
	outcome := "ok"
	if fallback {
		outcome = "fallback"
	}
	metrics.ContentGeneration.WithLabelValues(kind, outcome).Inc()
}

// clean strips markup from model text.
func (s *contentService) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
}

func (s *contentService) throttle(ctx context.Context, userID uuid.UUID) error {
	ok, err := s.limiter.Allow(ctx, userID, rateLimitAction, s.opts.Cooldown)
	if err != nil {
		s.log.Warn("rate limiter unavailable", "user_id", userID, "error", err)
		return nil
	}
	if !ok {
		ttl, _ := s.limiter.TTL(ctx, userID, rateLimitAction)
		return apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("please wait %d seconds before generating again", int(ttl.Seconds())+1),
			apperror.ErrRateLimitExceeded)
	}
	return nil
}

func validExample(e entity.ExampleSentence) bool {
	return strings.TrimSpace(e.Sentence) != ""
}

func validQuestion(q entity.QuizQuestion) bool {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) != 4 {
		return false
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return false
		}
	}
	return q.Correct >= 0 && q.Correct < len(q.Options)
}

func validExtracted(w dto.ExtractedWord) bool {
	return strings.TrimSpace(w.English) != ""
}

func (s *contentService) GenerateExamples(ctx context.Context, w, translation, level string, count int) ([]entity.ExampleSentence, bool) {
	if count <= 0 {
		count = defaultExampleNum
	}
	if level == "" {
		level = defaultLevel
	}

	system := fmt.Sprintf("You are an English teacher creating example sentences for %s level students.", level)
	prompt := fmt.Sprintf(
		"Create %d simple example sentences using the word %q (meaning %q). "+
			"Reply with only a JSON array of objects with the keys \"sentence\" and \"translation\", "+
			"where translation is the sentence in the same language as %q.",
		count, w, translation, translation)

	if reply, ok := s.generate(ctx, kindExamples, system, prompt); ok {
		if items, ok := ExtractItems(reply, validExample); ok {
			for i := range items {
				items[i].Sentence = s.clean(items[i].Sentence)
				items[i].Translation = s.clean(items[i].Translation)
			}
			if len(items) > count {
				items = items[:count]
			}
			record(kindExamples, false)
			return items, false
		}
		s.log.Warn("unusable model reply", "kind", kindExamples)
	}

	record(kindExamples, true)
	return fallbackExamples(w, count), true
}

func (s *contentService) Examples(ctx context.Context, userID uuid.UUID, req dto.ExamplesRequest) (*dto.ExamplesResponse, error) {
	if err := s.throttle(ctx, userID); err != nil {
		return nil, err
	}

	examples, fallback := s.GenerateExamples(ctx, req.Word, req.Translation, req.Level, req.Count)
	return &dto.ExamplesResponse{Examples: examples, Fallback: fallback}, nil
}

func englishOf(words []entity.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.English
	}
	return out
}

func (s *contentService) GenerateStory(ctx context.Context, userID uuid.UUID, req dto.StoryRequest) (*dto.StoryResponse, error) {
	if err := s.throttle(ctx, userID); err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = defaultLevel
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = defaultTopic
	}

	words, err := s.words.Random(ctx, wordRepo.RandomQuery{Limit: storyWordCount})
	if err != nil {
		return nil, err
	}
	used := englishOf(words)

	system := fmt.Sprintf(
		"You are an English teacher. Create a short story (3-4 sentences) for %s level students about %s. "+
			"Include these words: %s. Make it educational and fun.",
		difficulty, topic, strings.Join(used, ", "))

	res := &dto.StoryResponse{Topic: topic, Difficulty: difficulty, WordsUsed: used}
	if reply, ok := s.generate(ctx, kindStory, system, "Create a story about "+topic); ok {
		if story := s.clean(reply); story != "" {
			res.Story = story
			record(kindStory, false)
			return res, nil
		}
	}

	res.Story = fallbackStory(topic, used)
	res.Fallback = true
	record(kindStory, true)
	return res, nil
}

func (s *contentService) GenerateQuestions(ctx context.Context, userID uuid.UUID, req dto.QuestionsRequest) (*dto.QuestionsResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.WordIDs))
	for _, raw := range req.WordIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	words, err := s.words.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, apperror.BadRequest("No valid words found")
	}

	if err := s.throttle(ctx, userID); err != nil {
		return nil, err
	}

	pairs := make([]string, len(words))
	for i, w := range words {
		pairs[i] = fmt.Sprintf("%s (%s)", w.English, w.Translation)
	}
	system := fmt.Sprintf(
		"You are an English teacher. Create %d multiple choice questions using these words: %s. "+
			"Reply with only a JSON array of objects with the keys \"question\", \"options\" (exactly 4 strings) "+
			"and \"correct\" (the zero based index of the right option).",
		quizQuestionCount, strings.Join(pairs, ", "))

	var questions []entity.QuizQuestion
	fallback := true
	if reply, ok := s.generate(ctx, kindQuestions, system, "Create the quiz questions"); ok {
		if items, ok := ExtractItems(reply, validQuestion); ok {
			questions, fallback = items, false
		} else {
			s.log.Warn("unusable model reply", "kind", kindQuestions)
		}
	}
	if fallback {
		distractors, err := s.words.Random(ctx, wordRepo.RandomQuery{Limit: 12, Exclude: ids})
		if err != nil {
			return nil, err
		}
		questions = fallbackQuestions(words, distractors, quizQuestionCount)
	}
	record(kindQuestions, fallback)

	used := make([]uuid.UUID, len(words))
	for i, w := range words {
		used[i] = w.ID
	}
	quiz := &entity.Quiz{CreatedBy: userID, WordIDs: used, Questions: questions, Fallback: fallback}
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	return &dto.QuestionsResponse{
		QuizID:    quiz.ID,
		Questions: questions,
		WordsUsed: englishOf(words),
		Fallback:  fallback,
	}, nil
}

func (s *contentService) TextToWords(ctx context.Context, userID uuid.UUID, role string, req dto.TextToWordsRequest) (*dto.TextToWordsResponse, error) {
	if err := s.throttle(ctx, userID); err != nil {
		return nil, err
	}

	system := "You are an English teacher building a vocabulary list. Extract the useful English vocabulary words from the text. " +
		"Reply with only a JSON array of objects with the keys \"english\", \"translation\" and \"category\"."

	var extracted []dto.ExtractedWord
	fallback := true
	if reply, ok := s.generate(ctx, kindWords, system, req.Text); ok {
		if items, ok := ExtractItems(reply, validExtracted); ok {
			extracted, fallback = items, false
		} else {
			s.log.Warn("unusable model reply", "kind", kindWords)
		}
	}
	if fallback {
		extracted = fallbackExtract(req.Text)
	}
	record(kindWords, fallback)

	res := &dto.TextToWordsResponse{WordsExtracted: extracted, Fallback: fallback}
	if !req.AutoCreate {
		return res, nil
	}

	created, err := s.createExtracted(ctx, userID, role, extracted)
	if err != nil {
		return nil, err
	}
	res.CreatedCount = created
	return res, nil
}

// createExtracted stores extracted words that carry a translation and are
// not in the catalog yet.
func (s *contentService) createExtracted(ctx context.Context, userID uuid.UUID, role string, extracted []dto.ExtractedWord) (int, error) {
	english := make([]string, 0, len(extracted))
	for _, e := range extracted {
		english = append(english, e.English)
	}
	existing, err := s.words.ExistingEnglish(ctx, english)
	if err != nil {
		return 0, err
	}

	createdBy := userID
	var fresh []*entity.Word
	for _, e := range extracted {
		key := strings.ToLower(strings.TrimSpace(e.English))
		if _, ok := existing[key]; ok || strings.TrimSpace(e.Translation) == "" {
			continue
		}
		existing[key] = struct{}{}
		fresh = append(fresh, &entity.Word{
			English:     strings.TrimSpace(e.English),
			Translation: strings.TrimSpace(e.Translation),
			Category:    strings.TrimSpace(e.Category),
			Difficulty:  1,
			Status:      word.StatusFor(role),
			CreatedBy:   &createdBy,
		})
	}

	if err := s.words.CreateMany(ctx, fresh); err != nil {
		return 0, err
	}
	s.log.Info("words created from text", "user_id", userID, "created", len(fresh))
	return len(fresh), nil
}

func (s *contentService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}
