// Package questiontest provides an in-memory question.Store for tests.
package questiontest

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/gokatarajesh/trivia-service/internal/question"
)

// Store keeps questions and categories in memory, ordered by id on read.
// Err, when set, is returned from every call.
type Store struct {
	mu         sync.Mutex
	questions  map[int64]question.Question
	categories map[int64]question.Category
	nextID     int64
	Err        error
}

var _ question.Store = (*Store)(nil)

// NewStore seeds a Store. Inserted questions get ids above the largest seeded id.
func NewStore(categories []question.Category, questions []question.Question) *Store {
	s := &Store{
		questions:  make(map[int64]question.Question, len(questions)),
		categories: make(map[int64]question.Category, len(categories)),
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	for _, q := range questions {
		s.questions[q.ID] = q
		s.nextID = max(s.nextID, q.ID)
	}
	return s
}

func (s *Store) ListQuestions(context.Context) ([]question.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sorted(func(question.Question) bool { return true }), nil
}

func (s *Store) QuestionsByCategory(_ context.Context, categoryID int64) ([]question.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sorted(func(q question.Question) bool { return q.Category == categoryID }), nil
}

func (s *Store) GetQuestion(_ context.Context, id int64) (question.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return question.Question{}, s.Err
	}
	q, ok := s.questions[id]
	if !ok {
		return question.Question{}, question.ErrNoRecord
	}
	return q, nil
}

func (s *Store) InsertQuestion(_ context.Context, nq question.NewQuestion) (question.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return question.Question{}, s.Err
	}
	s.nextID++
	q := question.Question{
		ID:         s.nextID,
		Question:   nq.Question,
		Answer:     nq.Answer,
		Difficulty: nq.Difficulty,
		Category:   nq.Category,
	}
	s.questions[q.ID] = q
	return q, nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.questions[id]; !ok {
		return question.ErrNoRecord
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) ListCategories(context.Context) ([]question.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]question.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (question.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return question.Category{}, s.Err
	}
	c, ok := s.categories[id]
	if !ok {
		return question.Category{}, question.ErrNoRecord
	}
	return c, nil
}

func (s *Store) sorted(keep func(question.Question) bool) []question.Question {
	out := make([]question.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Questions builds n questions with ids 1..n in category, each text "Question <id>".
func Questions(n int, category int64) []question.Question {
	out := make([]question.Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, question.Question{
			ID:         int64(i),
			Question:   "Question " + strconv.Itoa(i),
			Answer:     "Answer " + strconv.Itoa(i),
			Difficulty: 1 + i%5,
			Category:   category,
		})
	}
	return out
}
