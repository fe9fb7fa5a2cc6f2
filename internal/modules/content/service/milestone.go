package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/content/dto"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
)

// StoryMilestones are the learned word counts that unlock a reward story.
var StoryMilestones = []int{50, 100, 150, 200, 250, 300}

const milestoneWordCount = 10

func (s *contentService) StoryUnlock(ctx context.Context, userID uuid.UUID) (*dto.StoryUnlockResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stories, err := s.repo.ListStories(ctx, userID)
	if err != nil {
		return nil, err
	}
	generated := make(map[int]bool, len(stories))
	for _, st := range stories {
		generated[st.Milestone] = true
	}

	res := &dto.StoryUnlockResponse{WordsLearned: user.WordsLearned, UnlockedMilestones: []int{}}
	for _, m := range StoryMilestones {
		if user.WordsLearned < m {
			break
		}
		res.UnlockedMilestones = append(res.UnlockedMilestones, m)
		if res.NextMilestone == nil && !generated[m] {
			next := m
			res.NextMilestone = &next
		}
	}
	res.CanUnlock = res.NextMilestone != nil
	return res, nil
}

func storyResponse(st *entity.StoryMilestone) *dto.MilestoneStoryResponse {
	highlighted := st.HighlightedWords
	if highlighted == nil {
		highlighted = []uuid.UUID{}
	}
	return &dto.MilestoneStoryResponse{
		Story:            st.Story,
		HighlightedWords: highlighted,
		Milestone:        st.Milestone,
		Fallback:         st.Fallback,
	}
}

func (s *contentService) GenerateMilestoneStory(ctx context.Context, userID uuid.UUID, req dto.MilestoneStoryRequest) (*dto.MilestoneStoryResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	milestone := req.WordsLearnedCount
	if !slices.Contains(StoryMilestones, milestone) || milestone > user.WordsLearned {
		return nil, apperror.BadRequest("Invalid milestone or not reached yet")
	}

	if existing, err := s.repo.FindStory(ctx, userID, milestone); err == nil {
		return storyResponse(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	words, err := s.words.Random(ctx, wordRepo.RandomQuery{Limit: milestoneWordCount})
	if err != nil {
		return nil, err
	}

	story := &entity.StoryMilestone{UserID: userID, Milestone: milestone}
	s.writeMilestoneStory(ctx, story, words)

	if err := s.repo.CreateStory(ctx, story); err != nil {
		// A concurrent request may have stored the same milestone first.
		if existing, findErr := s.repo.FindStory(ctx, userID, milestone); findErr == nil {
			return storyResponse(existing), nil
		}
		return nil, err
	}

	s.log.Info("milestone story generated", "user_id", userID, "milestone", milestone, "fallback", story.Fallback)
	return storyResponse(story), nil
}

// writeMilestoneStory fills the story text and highlighted words.
func (s *contentService) writeMilestoneStory(ctx context.Context, story *entity.StoryMilestone, words []entity.Word) {
	first := words[:min(5, len(words))]

	if s.llm == nil {
		story.Story = fmt.Sprintf(
			"Once upon a time, there was a student who learned %d words. They used words like %s in their daily life.",
			story.Milestone, strings.Join(englishOf(first), ", "))
		story.HighlightedWords = idsOf(first)
		story.Fallback = true
		record(kindMilestone, true)
		return
	}

	pairs := make([]string, len(words))
	for i, w := range words {
		pairs[i] = fmt.Sprintf("%s (%s)", w.English, w.Translation)
	}
	system := fmt.Sprintf(
		"Create a short story (3-4 sentences) for English learners. Include these words naturally: %s. "+
			"Highlight the learned words in the story.", strings.Join(pairs, ", "))

	reply, ok := s.generate(ctx, kindMilestone, system,
		fmt.Sprintf("Create a story celebrating %d words learned", story.Milestone))
	if text := s.clean(reply); ok && text != "" {
		story.Story = text
		story.HighlightedWords = idsOf(words)
		record(kindMilestone, false)
		return
	}

	story.Story = fmt.Sprintf("Congratulations! You've learned %d words. Keep learning!", story.Milestone)
	story.HighlightedWords = []uuid.UUID{}
	story.Fallback = true
	record(kindMilestone, true)
}

func idsOf(words []entity.Word) []uuid.UUID {
	ids := make([]uuid.UUID, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	return ids
}

func (s *contentService) StoryHistory(ctx context.Context, userID uuid.UUID) ([]entity.StoryMilestone, error) {
	return s.repo.ListStories(ctx, userID)
}
