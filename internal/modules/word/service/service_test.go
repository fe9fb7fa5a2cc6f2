package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/word/dto"
	"leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	commonDto "leximind.com/api/pkg/dto"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/storage"
)

type fakeWordRepo struct {
	repository.WordRepository
	words      []*entity.Word
	lastFilter repository.WordFilter
}

func (f *fakeWordRepo) Create(_ context.Context, w *entity.Word) error {
	w.ID = uuid.New()
	f.words = append(f.words, w)
	return nil
}

func (f *fakeWordRepo) CreateMany(ctx context.Context, words []*entity.Word) error {
	for _, w := range words {
		_ = f.Create(ctx, w)
	}
	return nil
}

func (f *fakeWordRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Word, error) {
	for _, w := range f.words {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWordRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Word, error) {
	var out []entity.Word
	for _, w := range f.words {
		for _, id := range ids {
			if w.ID == id {
				out = append(out, *w)
			}
		}
	}
	return out, nil
}

func (f *fakeWordRepo) FindByEnglish(_ context.Context, english string) (*entity.Word, error) {
	for _, w := range f.words {
		if strings.EqualFold(w.English, english) {
			return w, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWordRepo) ExistingEnglish(_ context.Context, english []string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, e := range english {
		for _, w := range f.words {
			if strings.EqualFold(w.English, e) {
				out[strings.ToLower(e)] = struct{}{}
			}
		}
	}
	return out, nil
}

func (f *fakeWordRepo) FindAll(_ context.Context, filter repository.WordFilter) ([]entity.Word, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeWordRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	for _, w := range f.words {
		if w.ID == id {
			w.Status = status
		}
	}
	return nil
}

type fakeExamples struct{ calls []string }

func (f *fakeExamples) GenerateExamples(_ context.Context, word, _, level string, count int) ([]entity.ExampleSentence, bool) {
	f.calls = append(f.calls, word+":"+level)
	out := make([]entity.ExampleSentence, count)
	for i := range out {
		out[i] = entity.ExampleSentence{Sentence: "I like " + word + "."}
	}
	return out, true
}

type fakeIndex struct {
	ids []uuid.UUID
	err error
}

func (f *fakeIndex) IndexWord(*entity.Word) error { return nil }
func (f *fakeIndex) DeleteWord(uuid.UUID) error   { return nil }
func (f *fakeIndex) Search(string, string, int) ([]uuid.UUID, error) {
	return f.ids, f.err
}

func newTestService(repo *fakeWordRepo, index SearchIndex, examples ExampleGenerator) WordService {
	store, _ := storage.NewCloudinaryStorage("", "")
	return NewWordService(repo, index, store, examples, logger.Nop())
}

var (
	admin   = dto.Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	teacher = dto.Actor{ID: uuid.New(), Role: entity.RoleTeacher}
)

// TestCreateWordStatus verifies the approval state follows the creator role.
func TestCreateWordStatus(t *testing.T) {
	repo := &fakeWordRepo{}
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	w, err := svc.CreateWord(ctx, admin, dto.CreateWordRequest{English: "apple", Translation: "apel"})
	require.NoError(t, err)
	assert.Equal(t, entity.WordStatusApproved, w.Status)
	assert.Equal(t, 1, w.Difficulty)

	w, err = svc.CreateWord(ctx, teacher, dto.CreateWordRequest{English: "Book", Translation: "buku", Difficulty: 2})
	require.NoError(t, err)
	assert.Equal(t, entity.WordStatusPending, w.Status)

	_, err = svc.CreateWord(ctx, teacher, dto.CreateWordRequest{English: "APPLE", Translation: "apel"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

// TestReviewTransitions verifies only pending words can be approved or rejected.
func TestReviewTransitions(t *testing.T) {
	repo := &fakeWordRepo{}
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	w, err := svc.CreateWord(ctx, teacher, dto.CreateWordRequest{English: "cat", Translation: "kucing"})
	require.NoError(t, err)

	approved, err := svc.ApproveWord(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WordStatusApproved, approved.Status)

	_, err = svc.RejectWord(ctx, w.ID)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.ApproveWord(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// TestStudentsOnlySeeApproved verifies the status filter is forced for students.
func TestStudentsOnlySeeApproved(t *testing.T) {
	repo := &fakeWordRepo{}
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.GetWords(ctx, entity.RoleStudent, dto.WordFilter{Status: entity.WordStatusPending, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, entity.WordStatusApproved, repo.lastFilter.Status)

	_, err = svc.GetWords(ctx, entity.RoleTeacher, dto.WordFilter{Status: entity.WordStatusPending, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, entity.WordStatusPending, repo.lastFilter.Status)
}

// TestBulkUploadSkipsExisting verifies duplicates are skipped and examples generated.
func TestBulkUploadSkipsExisting(t *testing.T) {
	repo := &fakeWordRepo{}
	examples := &fakeExamples{}
	svc := newTestService(repo, nil, examples)
	ctx := context.Background()

	_, err := svc.CreateWord(ctx, admin, dto.CreateWordRequest{English: "apple", Translation: "apel"})
	require.NoError(t, err)

	res, err := svc.BulkUpload(ctx, teacher, dto.BulkUploadRequest{
		AutoGenerateExamples: true,
		Words: []dto.CreateWordRequest{
			{English: "Apple", Translation: "apel"},
			{English: "run", Translation: "lari", Category: "beginner"},
			{English: "jump", Translation: "lompat"},
			{English: "RUN", Translation: "lari"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, repo.words, 3)
	assert.Len(t, repo.words[1].ExampleSentences, 2)
	assert.Equal(t, []string{"run:beginner", "jump:beginner"}, examples.calls)
}

// TestImportWords verifies sheet rows are created and row errors reported.
func TestImportWords(t *testing.T) {
	repo := &fakeWordRepo{}
	svc := newTestService(repo, nil, nil)

	csvData := "english,translation\nsun,matahari\nmoon,\n"
	res, err := svc.ImportWords(context.Background(), admin, commonDto.UploadFile{Reader: strings.NewReader(csvData), FileName: "w.csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Len(t, res.Errors, 1)

	_, err = svc.ImportWords(context.Background(), admin, commonDto.UploadFile{Reader: strings.NewReader(""), FileName: "w.pdf"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

// TestSearchFallsBackToDatabase verifies index results keep their order and
// index failures degrade to the SQL search.
func TestSearchFallsBackToDatabase(t *testing.T) {
	repo := &fakeWordRepo{}
	ctx := context.Background()
	a := &entity.Word{ID: uuid.New(), English: "a"}
	b := &entity.Word{ID: uuid.New(), English: "b"}
	repo.words = []*entity.Word{a, b}

	svc := newTestService(repo, &fakeIndex{ids: []uuid.UUID{b.ID, a.ID}}, nil)
	words, err := svc.SearchWords(ctx, entity.RoleStudent, dto.SearchQuery{Q: "x", Limit: 5})
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "b", words[0].English)

	svc = newTestService(repo, &fakeIndex{err: errors.New("down")}, nil)
	_, err = svc.SearchWords(ctx, entity.RoleStudent, dto.SearchQuery{Q: "x", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "x", repo.lastFilter.Search)
	assert.Equal(t, entity.WordStatusApproved, repo.lastFilter.Status)
}

// TestUploadImageDisabledStorage verifies a 503 style error without a media backend.
func TestUploadImageDisabledStorage(t *testing.T) {
	repo := &fakeWordRepo{}
	svc := newTestService(repo, nil, nil)
	w, err := svc.CreateWord(context.Background(), admin, dto.CreateWordRequest{English: "tree", Translation: "pohon"})
	require.NoError(t, err)

	_, err = svc.UploadImage(context.Background(), w.ID, commonDto.UploadFile{Reader: strings.NewReader("x"), FileName: "tree.png", Size: 1})
	assert.ErrorIs(t, err, storage.ErrDisabled)

	_, err = svc.UploadImage(context.Background(), w.ID, commonDto.UploadFile{Reader: strings.NewReader("x"), FileName: "tree.exe", Size: 1})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}
