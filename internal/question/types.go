package question

import (
	"context"
	"errors"
)

// DefaultPageSize is the number of questions returned per listing page.
const DefaultPageSize = 10

// Difficulty bounds accepted on creation.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// AllCategories is the quiz category id meaning "no category restriction".
const AllCategories int64 = 0

// ErrNoRecord is returned by a Store when the requested row does not exist.
var ErrNoRecord = errors.New("record not found")

// Question is a stored trivia question. Values are never mutated after creation.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int64  `json:"category"`
}

// Category is a labeled grouping of questions.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// NewQuestion is the insert payload handed to the Store.
type NewQuestion struct {
	Question   string
	Answer     string
	Difficulty int
	Category   int64
}

// Store is the persistence gateway the service reads from and writes to.
type Store interface {
	ListQuestions(ctx context.Context) ([]Question, error)
	QuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	InsertQuestion(ctx context.Context, q NewQuestion) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
}

// QuestionDraft carries create input; nil fields were absent from the request.
type QuestionDraft struct {
	Question   *string
	Answer     *string
	Difficulty *int
	Category   *int64
}

// Submission is the body of the combined create-or-search endpoint.
type Submission struct {
	SearchTerm string
	Draft      QuestionDraft
}

// QuizRequest asks for the next quiz question. A nil field was absent from the
// request; an empty, non-nil PreviousQuestions is a fresh quiz.
type QuizRequest struct {
	CategoryID        *int64
	PreviousQuestions []int64
}

// QuestionPage is a page of all questions plus the category index.
type QuestionPage struct {
	Questions  []Question
	Total      int
	Categories CategoryIndex
}

// DeleteResult reports a deletion and the refreshed listing.
type DeleteResult struct {
	Deleted   int64
	Total     int
	Questions []Question
}

// CreateResult reports an insertion and the refreshed listing.
type CreateResult struct {
	Created   int64
	Total     int
	Questions []Question
}

// SearchResult is a page of matches plus the total match count.
type SearchResult struct {
	Questions []Question
	Total     int
}

// SubmissionResult holds exactly one of Search or Created.
type SubmissionResult struct {
	Search  *SearchResult
	Created *CreateResult
}

// CategoryQuestions is a page of questions within a single category.
type CategoryQuestions struct {
	Category  Category
	Total     int
	Questions []Question
}
