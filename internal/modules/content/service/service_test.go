package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/content/dto"
	"leximind.com/api/internal/modules/content/provider"
	"leximind.com/api/internal/modules/content/repository"
	userRepo "leximind.com/api/internal/modules/user/repository"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
)

type fakeLLM struct {
	reply   string
	err     error
	block   bool
	prompts []string
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	f.prompts = append(f.prompts, system+"\n"+prompt)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close()       {}

type fakeWordRepo struct {
	wordRepo.WordRepository
	catalog []entity.Word
	created []*entity.Word
}

func (f *fakeWordRepo) Random(_ context.Context, q wordRepo.RandomQuery) ([]entity.Word, error) {
	var out []entity.Word
	for _, w := range f.catalog {
		excluded := false
		for _, id := range q.Exclude {
			excluded = excluded || id == w.ID
		}
		if !excluded {
			out = append(out, w)
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeWordRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Word, error) {
	var out []entity.Word
	for _, w := range f.catalog {
		for _, id := range ids {
			if id == w.ID {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

func (f *fakeWordRepo) ExistingEnglish(_ context.Context, english []string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, w := range f.catalog {
		out[w.English] = struct{}{}
	}
	return out, nil
}

func (f *fakeWordRepo) CreateMany(_ context.Context, words []*entity.Word) error {
	f.created = append(f.created, words...)
	return nil
}

type fakeContentRepo struct {
	repository.ContentRepository
	quizzes []*entity.Quiz
	stories []*entity.StoryMilestone
}

func (f *fakeContentRepo) CreateQuiz(_ context.Context, q *entity.Quiz) error {
	q.ID = uuid.New()
	f.quizzes = append(f.quizzes, q)
	return nil
}

func (f *fakeContentRepo) FindStory(_ context.Context, userID uuid.UUID, milestone int) (*entity.StoryMilestone, error) {
	for _, s := range f.stories {
		if s.UserID == userID && s.Milestone == milestone {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContentRepo) ListStories(_ context.Context, userID uuid.UUID) ([]entity.StoryMilestone, error) {
	var out []entity.StoryMilestone
	for _, s := range f.stories {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) CreateStory(_ context.Context, s *entity.StoryMilestone) error {
	s.ID = uuid.New()
	f.stories = append(f.stories, s)
	return nil
}

type fakeUserRepo struct {
	userRepo.UserRepository
	user *entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func catalog() []entity.Word {
	names := [][2]string{{"apple", "apel"}, {"book", "buku"}, {"cat", "kucing"}, {"tree", "pohon"}, {"river", "sungai"}, {"house", "rumah"}}
	out := make([]entity.Word, len(names))
	for i, n := range names {
		out[i] = entity.Word{ID: uuid.New(), English: n[0], Translation: n[1], Status: entity.WordStatusApproved}
	}
	return out
}

type fixture struct {
	svc     *contentService
	words   *fakeWordRepo
	content *fakeContentRepo
	users   *fakeUserRepo
}

func newFixture(llm *fakeLLM) fixture {
	f := fixture{
		words:   &fakeWordRepo{catalog: catalog()},
		content: &fakeContentRepo{},
		users:   &fakeUserRepo{user: &entity.User{ID: uuid.New(), WordsLearned: 120}},
	}
	var p provider.LLMProvider
	if llm != nil {
		p = llm
	}
	svc := NewContentService(p, f.content, f.words, f.users, nil, Options{Timeout: 50 * time.Millisecond}, logger.Nop())
	f.svc = svc.(*contentService)
	return f
}

func TestGenerateExamplesParsesReply(t *testing.T) {
	llm := &fakeLLM{reply: "Here:\n[{\"sentence\": \"I <b>eat</b> an apple.\", \"translation\": \"Saya makan apel.\"}, {\"sentence\": \"Apples are red.\", \"translation\": \"\"}]"}
	f := newFixture(llm)

	examples, fallback := f.svc.GenerateExamples(context.Background(), "apple", "apel", "", 2)
	assert.False(t, fallback)
	require.Len(t, examples, 2)
	assert.Equal(t, "I eat an apple.", examples[0].Sentence)
	assert.Contains(t, llm.prompts[0], "beginner level")
}

// TestGenerateExamplesFallback verifies provider errors, unusable replies,
// timeouts and a missing provider all yield the template sentences.
func TestGenerateExamplesFallback(t *testing.T) {
	cases := map[string]*fakeLLM{
		"no provider": nil,
		"error":       {err: errors.New("quota exceeded")},
		"bad reply":   {reply: "Sorry, I cannot help with that."},
		"invalid":     {reply: `[{"translation": "x"}]`},
		"timeout":     {block: true},
	}
	for name, llm := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(llm)
			examples, fallback := f.svc.GenerateExamples(context.Background(), "book", "buku", "beginner", 3)
			assert.True(t, fallback)
			assert.Equal(t, []entity.ExampleSentence{
				{Sentence: "I use book every day."},
				{Sentence: "This book is good."},
				{Sentence: "She likes book."},
			}, examples)
		})
	}
}

func TestGenerateStory(t *testing.T) {
	f := newFixture(&fakeLLM{reply: "  Tom went to school.  "})
	res, err := f.svc.GenerateStory(context.Background(), uuid.New(), dto.StoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Tom went to school.", res.Story)
	assert.Equal(t, defaultTopic, res.Topic)
	assert.Equal(t, defaultLevel, res.Difficulty)
	assert.Len(t, res.WordsUsed, storyWordCount)
	assert.False(t, res.Fallback)

	f = newFixture(nil)
	res, err = f.svc.GenerateStory(context.Background(), uuid.New(), dto.StoryRequest{Topic: "the beach", Difficulty: "advanced"})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Story, "the beach")
}

func TestGenerateQuestions(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	ids := []string{f.words.catalog[0].ID.String(), uuid.New().String()}

	res, err := f.svc.GenerateQuestions(ctx, uuid.New(), dto.QuestionsRequest{WordIDs: ids})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, []string{"apple"}, res.WordsUsed)
	require.Len(t, res.Questions, 1)

	q := res.Questions[0]
	assert.Len(t, q.Options, 4)
	assert.Equal(t, "apel", q.Options[q.Correct])
	require.Len(t, f.content.quizzes, 1)
	assert.Equal(t, res.QuizID, f.content.quizzes[0].ID)

	_, err = f.svc.GenerateQuestions(ctx, uuid.New(), dto.QuestionsRequest{WordIDs: []string{uuid.New().String()}})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestGenerateQuestionsFromModel(t *testing.T) {
	reply := `[{"question": "Apple means?", "options": ["apel", "buku", "kucing", "pohon"], "correct": 0}]`
	f := newFixture(&fakeLLM{reply: reply})

	res, err := f.svc.GenerateQuestions(context.Background(), uuid.New(), dto.QuestionsRequest{WordIDs: []string{f.words.catalog[0].ID.String()}})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "Apple means?", res.Questions[0].Question)
}

func TestTextToWords(t *testing.T) {
	reply := `[{"english": "apple", "translation": "apel", "category": "food"},
		{"english": "Cloud", "translation": "awan", "category": "nature"},
		{"english": "rain", "translation": "", "category": "nature"}]`
	f := newFixture(&fakeLLM{reply: reply})

	res, err := f.svc.TextToWords(context.Background(), uuid.New(), entity.RoleTeacher, dto.TextToWordsRequest{Text: "Clouds bring rain.", AutoCreate: true})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Len(t, res.WordsExtracted, 3)
	assert.Equal(t, 1, res.CreatedCount)
	require.Len(t, f.words.created, 1)
	assert.Equal(t, "Cloud", f.words.created[0].English)
	assert.Equal(t, entity.WordStatusPending, f.words.created[0].Status)
}

func TestTextToWordsFallback(t *testing.T) {
	f := newFixture(nil)

	res, err := f.svc.TextToWords(context.Background(), uuid.New(), entity.RoleAdmin, dto.TextToWordsRequest{Text: "The river and the river bank are green.", AutoCreate: true})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, []dto.ExtractedWord{
		{English: "river", Category: "general"},
		{English: "bank", Category: "general"},
		{English: "green", Category: "general"},
	}, res.WordsExtracted)
	assert.Zero(t, res.CreatedCount)
}

func TestStoryMilestones(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	userID := f.users.user.ID

	unlock, err := f.svc.StoryUnlock(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 100}, unlock.UnlockedMilestones)
	require.NotNil(t, unlock.NextMilestone)
	assert.Equal(t, 50, *unlock.NextMilestone)
	assert.True(t, unlock.CanUnlock)

	_, err = f.svc.GenerateMilestoneStory(ctx, userID, dto.MilestoneStoryRequest{WordsLearnedCount: 150})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	_, err = f.svc.GenerateMilestoneStory(ctx, userID, dto.MilestoneStoryRequest{WordsLearnedCount: 75})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	story, err := f.svc.GenerateMilestoneStory(ctx, userID, dto.MilestoneStoryRequest{WordsLearnedCount: 50})
	require.NoError(t, err)
	assert.True(t, story.Fallback)
	assert.Contains(t, story.Story, "learned 50 words")
	assert.Len(t, story.HighlightedWords, 5)

	again, err := f.svc.GenerateMilestoneStory(ctx, userID, dto.MilestoneStoryRequest{WordsLearnedCount: 50})
	require.NoError(t, err)
	assert.Equal(t, story.Story, again.Story)
	assert.Len(t, f.content.stories, 1)

	unlock, err = f.svc.StoryUnlock(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100, *unlock.NextMilestone)
}

func TestMilestoneStoryModelFailure(t *testing.T) {
	f := newFixture(&fakeLLM{err: errors.New("boom")})

	story, err := f.svc.GenerateMilestoneStory(context.Background(), f.users.user.ID, dto.MilestoneStoryRequest{WordsLearnedCount: 100})
	require.NoError(t, err)
	assert.Equal(t, "Congratulations! You've learned 100 words. Keep learning!", story.Story)
	assert.Empty(t, story.HighlightedWords)
}
