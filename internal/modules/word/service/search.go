package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"

	"leximind.com/api/internal/entity"
	"leximind.com/api/pkg/logger"
)

const wordsIndex = "words"

// SearchIndex is the full text index over the catalog.
type SearchIndex interface {
	IndexWord(word *entity.Word) error
	DeleteWord(id uuid.UUID) error
	// Search returns matching word ids best first, restricted to status when set.
	Search(query, status string, limit int) ([]uuid.UUID, error)
}

type meiliWordDoc struct {
	ID          string `json:"id"`
	English     string `json:"english"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Difficulty  int    `json:"difficulty"`
}

type meiliSearchIndex struct {
	client meilisearch.ServiceManager
	log    *logger.Logger
}

func NewMeiliSearchIndex(client meilisearch.ServiceManager, log *logger.Logger) SearchIndex {
	s := &meiliSearchIndex{client: client, log: log}
	s.initIndex()
	return s
}

func (s *meiliSearchIndex) initIndex() {
	filterable := []interface{}{"status", "category", "difficulty"}
	if _, err := s.client.Index(wordsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn("failed to update words filterable attributes", "error", err)
	}

	searchable := []string{"english", "translation", "category"}
	if _, err := s.client.Index(wordsIndex).UpdateSearchableAttributes(&searchable); err != nil {
		s.log.Warn("failed to update words searchable attributes", "error", err)
	}
}

func strPtr(s string) *string {
	return &s
}

func (s *meiliSearchIndex) IndexWord(word *entity.Word) error {
	doc := meiliWordDoc{
		ID:          word.ID.String(),
		English:     word.English,
		Translation: word.Translation,
		Category:    word.Category,
		Status:      word.Status,
		Difficulty:  word.Difficulty,
	}

	task, err := s.client.Index(wordsIndex).AddDocuments([]meiliWordDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.log.Debug("indexed word", "word_id", word.ID, "task_uid", task.TaskUID)
	return nil
}

func (s *meiliSearchIndex) DeleteWord(id uuid.UUID) error {
	_, err := s.client.Index(wordsIndex).DeleteDocument(id.String())
	return err
}

func (s *meiliSearchIndex) Search(query, status string, limit int) ([]uuid.UUID, error) {
	req := &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	}
	if status != "" {
		req.Filter = fmt.Sprintf("status = %q", status)
	}

	resp, err := s.client.Index(wordsIndex).Search(query, req)
	if err != nil {
		return nil, err
	}

	// Hits round-trip through JSON to read the id.
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var hits []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		if id, err := uuid.Parse(h.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
